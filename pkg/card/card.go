package card

import (
	"strings"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/shopspring/decimal"
)

type Type string

const (
	Credit Type = "credit"
	Debit  Type = "debit"
	Cash   Type = "cash"
)

type Card struct {
	Id     string
	UserId int
	Name   string
	Type   Type
	Bank   string
	// Limit is the credit limit, nil when the card has none.
	Limit      *decimal.Decimal
	Color      string
	LastDigits string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c Card) Validate() error {
	var errs validation.Errors
	if strings.TrimSpace(c.Name) == "" {
		errs.Add("name", "is required")
	}
	switch c.Type {
	case Credit, Debit, Cash:
	default:
		errs.Add("type", "must be credit, debit or cash")
	}
	if c.Limit != nil && c.Limit.IsNegative() {
		errs.Add("limit", "must not be negative")
	}
	if c.LastDigits != "" && !isFourDigits(c.LastDigits) {
		errs.Add("lastDigits", "must be exactly 4 digits")
	}
	return errs.Err()
}

func isFourDigits(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
