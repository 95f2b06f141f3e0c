package category

import (
	"testing"

	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/stretchr/testify/assert"
)

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantErr  bool
	}{
		{"valid expense", Category{Name: "Mercado", Type: Expense}, false},
		{"valid income", Category{Name: "Salário", Type: Income}, false},
		{"blank name", Category{Name: "  ", Type: Expense}, true},
		{"unknown type", Category{Name: "Outros", Type: "transfer"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if tt.wantErr {
				assert.True(t, validation.Is(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
