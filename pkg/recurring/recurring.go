package recurring

import (
	"strings"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/shopspring/decimal"
)

type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

type RecurringTransaction struct {
	Id                string
	UserId            int
	Description       string
	Amount            decimal.Decimal
	Type              Type
	CategoryId        string
	CardId            string
	Frequency         Frequency
	StartDate         time.Time
	EndDate           *time.Time
	NextExecutionDate time.Time
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r RecurringTransaction) Validate() error {
	var errs validation.Errors
	if strings.TrimSpace(r.Description) == "" {
		errs.Add("description", "is required")
	}
	if !r.Amount.IsPositive() {
		errs.Add("amount", "must be greater than zero")
	}
	if r.Type != Income && r.Type != Expense {
		errs.Add("type", "must be income or expense")
	}
	if r.CategoryId == "" {
		errs.Add("categoryId", "is required")
	}
	if r.CardId == "" {
		errs.Add("cardId", "is required")
	}
	if !r.Frequency.Valid() {
		errs.Add("frequency", "must be weekly, biweekly, monthly, quarterly or annually")
	}
	if r.StartDate.IsZero() {
		errs.Add("startDate", "is required")
	}
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		errs.Add("endDate", "must not be before startDate")
	}
	return errs.Err()
}

// IsDue reports whether the definition should run on the given day.
func (r RecurringTransaction) IsDue(day time.Time) bool {
	if !r.IsActive || r.NextExecutionDate.After(day) {
		return false
	}
	return r.EndDate == nil || !r.NextExecutionDate.After(*r.EndDate)
}
