package transaction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() Transaction {
	return Transaction{
		Description:     "Mercado",
		Amount:          decimal.RequireFromString("120.50"),
		Type:            Expense,
		CategoryId:      "c1",
		CardId:          "k1",
		TransactionDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(t *Transaction)
		wantErr bool
	}{
		{"valid", func(t *Transaction) {}, false},
		{"empty description", func(t *Transaction) { t.Description = " " }, true},
		{"zero amount", func(t *Transaction) { t.Amount = decimal.Zero }, true},
		{"negative amount", func(t *Transaction) { t.Amount = decimal.NewFromInt(-5) }, true},
		{"unknown type", func(t *Transaction) { t.Type = "transfer" }, true},
		{"missing category", func(t *Transaction) { t.CategoryId = "" }, true},
		{"missing card", func(t *Transaction) { t.CardId = "" }, true},
		{"missing date", func(t *Transaction) { t.TransactionDate = time.Time{} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validTransaction()
			tt.modify(&tr)
			err := tr.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTotals(t *testing.T) {
	transactions := []Transaction{
		{Type: Income, Amount: decimal.RequireFromString("5000")},
		{Type: Expense, Amount: decimal.RequireFromString("1200.10")},
		{Type: Expense, Amount: decimal.RequireFromString("300.40")},
	}

	income, expense := Totals(transactions)

	assert.True(t, decimal.RequireFromString("5000").Equal(income))
	assert.True(t, decimal.RequireFromString("1500.50").Equal(expense))

	income, expense = Totals(nil)
	assert.True(t, income.IsZero())
	assert.True(t, expense.IsZero())
}
