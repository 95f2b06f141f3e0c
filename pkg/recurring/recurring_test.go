package recurring

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRecurringTransaction_Validate(t *testing.T) {
	valid := func() RecurringTransaction {
		return RecurringTransaction{
			Description: "Aluguel",
			Amount:      decimal.NewFromInt(1500),
			Type:        Expense,
			CategoryId:  "c1",
			CardId:      "k1",
			Frequency:   Monthly,
			StartDate:   date(2024, 1, 5),
		}
	}

	assert.NoError(t, valid().Validate())

	rt := valid()
	rt.Frequency = "daily"
	assert.Error(t, rt.Validate())

	rt = valid()
	rt.Amount = decimal.Zero
	assert.Error(t, rt.Validate())

	rt = valid()
	before := date(2023, 12, 31)
	rt.EndDate = &before
	assert.Error(t, rt.Validate())

	rt = valid()
	same := rt.StartDate
	rt.EndDate = &same
	assert.NoError(t, rt.Validate())
}
