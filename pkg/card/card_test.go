package card

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCard_Validate(t *testing.T) {
	negative := decimal.NewFromInt(-1)
	limit := decimal.NewFromInt(5000)

	assert.NoError(t, Card{Name: "Nubank", Type: Credit, Limit: &limit, LastDigits: "1234"}.Validate())
	assert.NoError(t, Card{Name: "Carteira", Type: Cash}.Validate())
	assert.Error(t, Card{Name: "", Type: Debit}.Validate())
	assert.Error(t, Card{Name: "Inter", Type: "prepaid"}.Validate())
	assert.Error(t, Card{Name: "Inter", Type: Credit, Limit: &negative}.Validate())
	assert.Error(t, Card{Name: "Inter", Type: Debit, LastDigits: "12a4"}.Validate())
	assert.Error(t, Card{Name: "Inter", Type: Debit, LastDigits: "12345"}.Validate())
}
