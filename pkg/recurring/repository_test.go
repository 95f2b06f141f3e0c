package recurring

import (
	"os"
	"testing"

	"github.com/Thucosta0/financepro-sub000/internal/test_utils"
	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

func TestRepositoryImpl_ListDue(t *testing.T) {
	// given
	ctx, u := test_utils.CreateTestUser(t, db)
	cat, err := category.NewRepository(db).Create(ctx, u.Id, category.Category{Name: "Moradia", Type: category.Expense})
	require.NoError(t, err)
	c, err := card.NewRepository(db).Create(ctx, u.Id, card.Card{Name: "Conta", Type: card.Debit, IsActive: true})
	require.NoError(t, err)
	repo := NewRepository(db)

	base := RecurringTransaction{
		Amount:     decimal.NewFromInt(1500),
		Type:       Expense,
		CategoryId: cat.Id,
		CardId:     c.Id,
		Frequency:  Monthly,
		IsActive:   true,
	}
	due := base
	due.Description = "Aluguel"
	due.StartDate = date(2024, 3, 5)
	due, err = repo.Create(ctx, u.Id, due)
	require.NoError(t, err)

	future := base
	future.Description = "Seguro"
	future.StartDate = date(2024, 4, 5)
	_, err = repo.Create(ctx, u.Id, future)
	require.NoError(t, err)

	ended := base
	ended.Description = "Academia"
	ended.StartDate = date(2024, 1, 5)
	end := date(2024, 2, 28)
	ended.EndDate = &end
	ended.NextExecutionDate = date(2024, 3, 5)
	_, err = repo.Create(ctx, u.Id, ended)
	require.NoError(t, err)

	inactive := base
	inactive.Description = "Streaming"
	inactive.StartDate = date(2024, 3, 1)
	inactive.IsActive = false
	_, err = repo.Create(ctx, u.Id, inactive)
	require.NoError(t, err)

	// when
	result, err := repo.ListDue(ctx, date(2024, 3, 10))

	// then
	require.NoError(t, err)
	var ids []string
	for _, rt := range result {
		if rt.UserId == u.Id {
			ids = append(ids, rt.Id)
		}
	}
	assert.Equal(t, []string{due.Id}, ids)
	assert.Equal(t, date(2024, 3, 5), result[0].NextExecutionDate.UTC())
}

func TestRepositoryImpl_RejectsCategoryOfAnotherUser(t *testing.T) {
	// given
	ownerCtx, owner := test_utils.CreateTestUser(t, db)
	foreign, err := category.NewRepository(db).Create(ownerCtx, owner.Id, category.Category{Name: "Salário", Type: category.Income})
	require.NoError(t, err)
	ctx, u := test_utils.CreateTestUser(t, db)
	c, err := card.NewRepository(db).Create(ctx, u.Id, card.Card{Name: "Conta", Type: card.Debit, IsActive: true})
	require.NoError(t, err)

	// when
	_, err = NewRepository(db).Create(ctx, u.Id, RecurringTransaction{
		Description: "Salário",
		Amount:      decimal.NewFromInt(5000),
		Type:        Income,
		CategoryId:  foreign.Id,
		CardId:      c.Id,
		Frequency:   Monthly,
		StartDate:   date(2024, 3, 5),
		IsActive:    true,
	})

	// then
	var validationErr *validation.Error
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "categoryId", validationErr.Field)
}
