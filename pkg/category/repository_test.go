package category

import (
	"os"
	"testing"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/test_utils"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
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

func TestRepositoryImpl_CreateAndList(t *testing.T) {
	// given
	ctx, u := test_utils.CreateTestUser(t, db)
	repo := NewRepository(db)

	// when
	created, err := repo.Create(ctx, u.Id, Category{Name: "Salário", Type: Income, Icon: "wallet", Color: "#00aa00"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, u.Id, Category{Name: "Alimentação", Type: Expense})
	require.NoError(t, err)

	// then
	categories, err := repo.List(ctx, u.Id)
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.False(t, created.CreatedAt.IsZero())
	require.Len(t, categories, 2)
	assert.Equal(t, "Alimentação", categories[0].Name)
	assert.Equal(t, created, categories[1])
}

func TestRepositoryImpl_ListIsScopedToUser(t *testing.T) {
	ctx, owner := test_utils.CreateTestUser(t, db)
	_, other := test_utils.CreateTestUser(t, db)
	repo := NewRepository(db)
	_, err := repo.Create(ctx, owner.Id, Category{Name: "Lazer", Type: Expense})
	require.NoError(t, err)

	categories, err := repo.List(ctx, other.Id)

	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestRepositoryImpl_Update(t *testing.T) {
	ctx, u := test_utils.CreateTestUser(t, db)
	_, other := test_utils.CreateTestUser(t, db)
	repo := NewRepository(db)
	created, err := repo.Create(ctx, u.Id, Category{Name: "Lazer", Type: Expense})
	require.NoError(t, err)

	created.Name = "Entretenimento"
	updated, err := repo.Update(ctx, u.Id, created)
	require.NoError(t, err)
	assert.Equal(t, "Entretenimento", updated.Name)

	_, err = repo.Update(ctx, other.Id, created)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestRepositoryImpl_DeleteReferencedCategoryFails(t *testing.T) {
	// given
	ctx, u := test_utils.CreateTestUser(t, db)
	repo := NewRepository(db)
	used, err := repo.Create(ctx, u.Id, Category{Name: "Mercado", Type: Expense})
	require.NoError(t, err)
	unused, err := repo.Create(ctx, u.Id, Category{Name: "Viagem", Type: Expense})
	require.NoError(t, err)
	c, err := card.NewRepository(db).Create(ctx, u.Id, card.Card{Name: "Débito", Type: card.Debit, IsActive: true})
	require.NoError(t, err)
	_, err = transaction.NewRepository(db).Create(ctx, u.Id, transaction.Transaction{
		Description:     "Compras",
		Amount:          decimal.RequireFromString("89.90"),
		Type:            transaction.Expense,
		CategoryId:      used.Id,
		CardId:          c.Id,
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	// when
	err = repo.Delete(ctx, u.Id, used.Id)

	// then
	assert.ErrorIs(t, err, ErrCategoryInUse)
	assert.NoError(t, repo.Delete(ctx, u.Id, unused.Id))
	assert.ErrorIs(t, repo.Delete(ctx, u.Id, unused.Id), ErrCategoryNotFound)

	categories, err := repo.List(ctx, u.Id)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
