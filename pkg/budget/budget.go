package budget

import (
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/shopspring/decimal"
)

type Period string

const (
	Monthly Period = "monthly"
	Yearly  Period = "yearly"
)

type Budget struct {
	Id          string
	UserId      int
	CategoryId  string
	LimitAmount decimal.Decimal
	Period      Period
	Year        int
	// Month is set (1..12) for monthly budgets only.
	Month     *int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Budget) Validate() error {
	var errs validation.Errors
	if b.CategoryId == "" {
		errs.Add("categoryId", "is required")
	}
	if !b.LimitAmount.IsPositive() {
		errs.Add("limitAmount", "must be greater than zero")
	}
	if b.Year < 1 {
		errs.Add("year", "is required")
	}
	switch b.Period {
	case Monthly:
		if b.Month == nil || *b.Month < 1 || *b.Month > 12 {
			errs.Add("month", "must be between 1 and 12 for monthly budgets")
		}
	case Yearly:
		if b.Month != nil {
			errs.Add("month", "must be empty for yearly budgets")
		}
	default:
		errs.Add("period", "must be monthly or yearly")
	}
	return errs.Err()
}

// IsActiveOn reports whether the budget period contains the given date.
func (b Budget) IsActiveOn(date time.Time) bool {
	if date.Year() != b.Year {
		return false
	}
	if b.Period == Yearly {
		return true
	}
	return b.Month != nil && time.Month(*b.Month) == date.Month()
}
