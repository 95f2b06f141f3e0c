package transaction

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

type Transaction struct {
	Id          string
	UserId      int
	Description string
	Amount      decimal.Decimal
	Type        Type
	CategoryId  string
	CardId      string
	// TransactionDate carries the calendar date only.
	TransactionDate        time.Time
	IsRecurring            bool
	RecurringTransactionId *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (t Transaction) Validate() error {
	var errs validation.Errors
	if strings.TrimSpace(t.Description) == "" {
		errs.Add("description", "is required")
	}
	if !t.Amount.IsPositive() {
		errs.Add("amount", "must be greater than zero")
	}
	if t.Type != Income && t.Type != Expense {
		errs.Add("type", "must be income or expense")
	}
	if t.CategoryId == "" {
		errs.Add("categoryId", "is required")
	}
	if t.CardId == "" {
		errs.Add("cardId", "is required")
	}
	if t.TransactionDate.IsZero() {
		errs.Add("transactionDate", "is required")
	}
	return errs.Err()
}

// Totals sums income and expense amounts of the given transactions.
func Totals(transactions []Transaction) (income decimal.Decimal, expense decimal.Decimal) {
	income, expense = decimal.Zero, decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case Income:
			income = income.Add(t.Amount)
		case Expense:
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
