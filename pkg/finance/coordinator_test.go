package finance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/internal/event_bus"
	"github.com/Thucosta0/financepro-sub000/internal/prefetch"
	"github.com/Thucosta0/financepro-sub000/internal/utils"
	"github.com/Thucosta0/financepro-sub000/internal/validation"
	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userId = 7

var now = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	coordinator  *Coordinator
	cache        *cache.Cache
	clock        *utils.MockClock
	advisor      *prefetch.Advisor
	categories   *category.RepositoryStub
	cards        *card.RepositoryStub
	transactions *transaction.RepositoryStub
	recurring    *recurring.RepositoryStub
	budgets      *budget.StubBudgetRepo
	ctx          context.Context
}

func setup(t *testing.T) *fixture {
	t.Helper()
	clock := utils.NewMockClock(now)
	c := cache.New(cache.WithClock(clock))
	bus := event_bus.NewEventBus()
	NewInvalidator(c).Subscribe(bus)
	advisor := prefetch.NewAdvisor(c, prefetch.WithDelay(time.Hour))

	f := &fixture{
		cache:        c,
		clock:        clock,
		advisor:      advisor,
		categories:   category.NewRepositoryStub(),
		cards:        card.NewRepositoryStub(),
		transactions: transaction.NewRepositoryStub(),
		recurring:    recurring.NewRepositoryStub(),
		budgets:      budget.NewStubBudgetRepo(),
		ctx:          user.WithUser(context.Background(), user.User{Id: userId, CreatedAt: now}),
	}
	f.categories.InUse = func(id string) bool {
		return f.transactions.ReferencesCategory(id) || f.recurring.ReferencesCategory(id) || f.budgets.ReferencesCategory(id)
	}
	f.cards.InUse = func(id string) bool {
		return f.transactions.ReferencesCard(id) || f.recurring.ReferencesCard(id)
	}
	references := func(userId int, categoryId, cardId string) error {
		if f.categories.OwnedByAnotherUser(categoryId, userId) {
			return validation.New("categoryId", "does not reference a record of the user")
		}
		if f.cards.OwnedByAnotherUser(cardId, userId) {
			return validation.New("cardId", "does not reference a record of the user")
		}
		return nil
	}
	f.transactions.CheckReferences = references
	f.recurring.CheckReferences = references
	f.budgets.CheckCategory = func(userId int, categoryId string) error {
		return references(userId, categoryId, "")
	}
	f.coordinator = NewCoordinator(Repositories{
		Categories:   f.categories,
		Cards:        f.cards,
		Transactions: f.transactions,
		Recurring:    f.recurring,
		Budgets:      f.budgets,
	}, c, advisor, bus, clock)
	advisor.SetWarmer(f.coordinator)
	t.Cleanup(func() {
		advisor.Stop()
		f.coordinator.Wait()
	})
	return f
}

func (f *fixture) seedCategory(name string, typ category.Type) category.Category {
	c := category.Category{Id: "cat-" + name, UserId: userId, Name: name, Type: typ}
	f.categories.Put(c)
	return c
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCoordinator_LoadFetchesMissingCollections(t *testing.T) {
	// given
	f := setup(t)
	f.seedCategory("Salário", category.Income)
	f.cards.Put(card.Card{Id: "card-1", UserId: userId, Name: "Nubank", Type: card.Credit})

	// when
	err := f.coordinator.Load(f.ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, 1, f.categories.Calls())
	assert.Equal(t, 1, f.cards.Calls())
	assert.Equal(t, 1, f.transactions.Calls())
	assert.Equal(t, 1, f.recurring.Calls())
	assert.Equal(t, 1, f.budgets.Calls())
	for _, name := range []string{CategoriesCollection, CardsCollection, TransactionsCollection, RecurringCollection, BudgetsCollection} {
		assert.True(t, f.cache.Has(CacheKey(name, userId)), "%s should be cached", name)
	}

	categories, err := f.coordinator.Categories(f.ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, 1, f.categories.Calls(), "second read is served from cache")
	assert.Equal(t, 3, f.advisor.Pending(), "dashboard neighbours are queued for prefetch")
}

func TestCoordinator_LoadRevalidatesCachedCollections(t *testing.T) {
	// given
	f := setup(t)
	stale := []category.Category{{Id: "cat-old", UserId: userId, Name: "Antiga", Type: category.Expense}}
	cache.Set(f.cache, cache.NewKey[[]category.Category](CacheKey(CategoriesCollection, userId)), stale, CategoriesTTL)
	cache.Set(f.cache, cache.NewKey[[]budget.Budget](CacheKey(BudgetsCollection, userId)), []budget.Budget{}, BudgetsTTL)
	fresh := f.seedCategory("Nova", category.Expense)

	// when
	require.NoError(t, f.coordinator.Load(f.ctx))
	f.coordinator.Wait()

	// then
	assert.Equal(t, 1, f.categories.Calls(), "cached categories are fetched once in the background")
	assert.Equal(t, 0, f.budgets.Calls(), "cached budgets are not revalidated")
	categories, err := f.coordinator.Categories(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []category.Category{fresh}, categories)
}

func TestCoordinator_RevalidationKeepsEqualValue(t *testing.T) {
	f := setup(t)
	stored := f.seedCategory("Mercado", category.Expense)
	key := cache.NewKey[[]category.Category](CacheKey(CategoriesCollection, userId))
	cache.Set(f.cache, key, []category.Category{stored}, CategoriesTTL)
	f.clock.Advance(time.Minute)

	require.NoError(t, f.coordinator.Load(f.ctx))
	f.coordinator.Wait()

	// an unchanged value is not rewritten, so it still expires relative to the first write
	f.clock.Advance(CategoriesTTL - time.Minute + time.Second)
	assert.False(t, f.cache.Has(key.String()))
}

func TestCoordinator_ReadFailureYieldsEmptyCollection(t *testing.T) {
	f := setup(t)
	f.transactions.SetErr(errors.New("connection refused"))

	require.NoError(t, f.coordinator.Load(f.ctx))
	transactions, err := f.coordinator.Transactions(f.ctx)

	require.NoError(t, err)
	assert.Empty(t, transactions)
	assert.False(t, f.cache.Has(CacheKey(TransactionsCollection, userId)))
}

func TestCoordinator_RequiresUser(t *testing.T) {
	f := setup(t)

	err := f.coordinator.Load(context.Background())
	assert.ErrorIs(t, err, user.ErrNoUser)

	_, err = f.coordinator.AddCategory(context.Background(), category.Category{Name: "x", Type: category.Income})
	assert.ErrorIs(t, err, user.ErrNoUser)
}

func TestCoordinator_AddValidatesBeforeWriting(t *testing.T) {
	f := setup(t)

	_, err := f.coordinator.AddTransaction(f.ctx, transaction.Transaction{Description: "Sem valor", Type: transaction.Expense})

	assert.True(t, validation.Is(err))
	transactions, _ := f.transactions.List(f.ctx, userId)
	assert.Empty(t, transactions)
}

func TestCoordinator_RejectsReferencesOwnedByAnotherUser(t *testing.T) {
	// given
	f := setup(t)
	foreign := category.Category{Id: "cat-foreign", UserId: userId + 1, Name: "Alheia", Type: category.Expense}
	f.categories.Put(foreign)
	f.cards.Put(card.Card{Id: "card-foreign", UserId: userId + 1, Name: "Alheio", Type: card.Debit})
	require.NoError(t, f.coordinator.Load(f.ctx))
	entry := transaction.Transaction{
		Description:     "Mercado",
		Amount:          money("80"),
		Type:            transaction.Expense,
		CategoryId:      foreign.Id,
		CardId:          "card-1",
		TransactionDate: day(2024, 3, 10),
	}

	// when
	_, categoryErr := f.coordinator.AddTransaction(f.ctx, entry)
	entry.CategoryId, entry.CardId = "cat-own", "card-foreign"
	_, cardErr := f.coordinator.AddTransaction(f.ctx, entry)
	month := 3
	_, budgetErr := f.coordinator.AddBudget(f.ctx, budget.Budget{CategoryId: foreign.Id, LimitAmount: money("500"), Period: budget.Monthly, Year: 2024, Month: &month})

	// then
	var rejected *validation.Error
	require.ErrorAs(t, categoryErr, &rejected)
	assert.Equal(t, "categoryId", rejected.Field)
	require.ErrorAs(t, cardErr, &rejected)
	assert.Equal(t, "cardId", rejected.Field)
	assert.True(t, validation.Is(budgetErr))
	transactions, err := f.coordinator.Transactions(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, transactions)
	assert.False(t, f.transactions.ReferencesCategory(foreign.Id))
	assert.False(t, f.budgets.ReferencesCategory(foreign.Id))
}

func TestCoordinator_FailedWriteLeavesStateUntouched(t *testing.T) {
	// given
	f := setup(t)
	existing := f.seedCategory("Lazer", category.Expense)
	require.NoError(t, f.coordinator.Load(f.ctx))
	f.categories.SetErr(errors.New("permission denied"))

	// when
	_, err := f.coordinator.AddCategory(f.ctx, category.Category{Name: "Viagem", Type: category.Expense})

	// then
	assert.Error(t, err)
	assert.True(t, f.cache.Has(CacheKey(CategoriesCollection, userId)), "nothing is invalidated")
	f.categories.SetErr(nil)
	categories, err := f.coordinator.Categories(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []category.Category{existing}, categories)
}

func TestCoordinator_UpdateAndDeleteApplyToSession(t *testing.T) {
	f := setup(t)
	existing := f.seedCategory("Lazer", category.Expense)
	require.NoError(t, f.coordinator.Load(f.ctx))

	existing.Name = "Entretenimento"
	updated, err := f.coordinator.UpdateCategory(f.ctx, existing)
	require.NoError(t, err)
	assert.Equal(t, "Entretenimento", updated.Name)
	s := f.coordinator.session(f.ctx, userId)
	assert.Equal(t, "Entretenimento", snapshot(s, f.coordinator.cols.categories)[0].Name)

	require.NoError(t, f.coordinator.DeleteCategory(f.ctx, existing.Id))
	assert.Empty(t, snapshot(s, f.coordinator.cols.categories))

	_, err = f.coordinator.UpdateCategory(f.ctx, existing)
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
	assert.ErrorIs(t, f.coordinator.DeleteCategory(f.ctx, existing.Id), category.ErrCategoryNotFound)
}

func TestCoordinator_InvalidationCompleteness(t *testing.T) {
	tests := []struct {
		kind   event_bus.EntityKind
		mutate func(f *fixture) error
	}{
		{event_bus.TransactionEntity, func(f *fixture) error {
			_, err := f.coordinator.AddTransaction(f.ctx, transaction.Transaction{
				Description: "Café", Amount: money("8.50"), Type: transaction.Expense,
				CategoryId: "cat-Lazer", CardId: "card-1", TransactionDate: day(2024, 3, 15),
			})
			return err
		}},
		{event_bus.CategoryEntity, func(f *fixture) error {
			_, err := f.coordinator.AddCategory(f.ctx, category.Category{Name: "Saúde", Type: category.Expense})
			return err
		}},
		{event_bus.CardEntity, func(f *fixture) error {
			_, err := f.coordinator.AddCard(f.ctx, card.Card{Name: "Inter", Type: card.Debit})
			return err
		}},
		{event_bus.RecurringEntity, func(f *fixture) error {
			_, err := f.coordinator.AddRecurringTransaction(f.ctx, recurring.RecurringTransaction{
				Description: "Academia", Amount: money("99.90"), Type: recurring.Expense, CategoryId: "cat-Lazer",
				CardId: "card-1", Frequency: recurring.Monthly, StartDate: day(2024, 3, 1), IsActive: true,
			})
			return err
		}},
		{event_bus.BudgetEntity, func(f *fixture) error {
			month := 3
			_, err := f.coordinator.AddBudget(f.ctx, budget.Budget{
				CategoryId: "cat-Lazer", LimitAmount: money("500"), Period: budget.Monthly, Year: 2024, Month: &month,
			})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			// given
			f := setup(t)
			f.seedCategory("Lazer", category.Expense)
			f.cards.Put(card.Card{Id: "card-1", UserId: userId, Name: "Nubank", Type: card.Credit})
			require.NoError(t, f.coordinator.Load(f.ctx))
			_, err := f.coordinator.GetFinancialSummary(f.ctx)
			require.NoError(t, err)

			// when
			require.NoError(t, tt.mutate(f))

			// then
			cleared := Invalidates(tt.kind)
			require.NotEmpty(t, cleared)
			for _, name := range userCollections {
				key := CacheKey(name, userId)
				if contains(cleared, name) {
					assert.False(t, f.cache.Has(key), "%s should be invalidated", key)
				} else {
					assert.True(t, f.cache.Has(key), "%s should be kept", key)
				}
			}
		})
	}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func TestCoordinator_EndToEndDeleteOrder(t *testing.T) {
	// given
	f := setup(t)
	require.NoError(t, f.coordinator.Load(f.ctx))
	c, err := f.coordinator.AddCategory(f.ctx, category.Category{Name: "Mercado", Type: category.Expense})
	require.NoError(t, err)
	k, err := f.coordinator.AddCard(f.ctx, card.Card{Name: "Débito", Type: card.Debit, IsActive: true})
	require.NoError(t, err)
	tr, err := f.coordinator.AddTransaction(f.ctx, transaction.Transaction{
		Description:     "Compras",
		Amount:          money("50"),
		Type:            transaction.Expense,
		CategoryId:      c.Id,
		CardId:          k.Id,
		TransactionDate: day(2024, 3, 15),
	})
	require.NoError(t, err)

	// when deleting the category first
	err = f.coordinator.DeleteCategory(f.ctx, c.Id)

	// then
	assert.ErrorIs(t, err, category.ErrCategoryInUse)
	categories, _ := f.coordinator.Categories(f.ctx)
	assert.Len(t, categories, 1)

	// when deleting in dependency order
	require.NoError(t, f.coordinator.DeleteTransaction(f.ctx, tr.Id))
	require.NoError(t, f.coordinator.DeleteCategory(f.ctx, c.Id))

	// then
	assert.False(t, f.cache.Has(CacheKey(CategoriesCollection, userId)))
	assert.False(t, f.cache.Has(CacheKey(TransactionsCollection, userId)))
	assert.False(t, f.cache.Has(CacheKey(SummaryCollection, userId)))
}

func TestCoordinator_GetFinancialSummary(t *testing.T) {
	// given
	f := setup(t)
	f.transactions.Put(transaction.Transaction{Id: "t1", UserId: userId, Type: transaction.Income, Amount: money("100"), CategoryId: "salario", TransactionDate: day(2024, 3, 1)})
	f.transactions.Put(transaction.Transaction{Id: "t2", UserId: userId, Type: transaction.Expense, Amount: money("40"), CategoryId: "mercado", TransactionDate: day(2024, 3, 2)})
	f.transactions.Put(transaction.Transaction{Id: "t3", UserId: userId, Type: transaction.Income, Amount: money("20"), CategoryId: "salario", TransactionDate: day(2024, 3, 3)})

	// when
	summary, err := f.coordinator.GetFinancialSummary(f.ctx)

	// then
	require.NoError(t, err)
	assert.True(t, money("120").Equal(summary.Receitas))
	assert.True(t, money("40").Equal(summary.Despesas))
	assert.True(t, money("80").Equal(summary.Saldo))
	assert.Equal(t, 2, summary.CategoryCount)
	assert.True(t, f.cache.Has(CacheKey(SummaryCollection, userId)))

	f.clock.Advance(SummaryTTL + time.Second)
	assert.False(t, f.cache.Has(CacheKey(SummaryCollection, userId)), "summary lives for one minute")
}

func TestCoordinator_SummaryFollowsMutations(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.coordinator.Load(f.ctx))
	_, err := f.coordinator.GetFinancialSummary(f.ctx)
	require.NoError(t, err)

	_, err = f.coordinator.AddTransaction(f.ctx, transaction.Transaction{
		Description: "Salário", Amount: money("3000"), Type: transaction.Income,
		CategoryId: "salario", CardId: "conta", TransactionDate: day(2024, 3, 5),
	})
	require.NoError(t, err)
	summary, err := f.coordinator.GetFinancialSummary(f.ctx)

	require.NoError(t, err)
	assert.True(t, money("3000").Equal(summary.Saldo))
}

func TestCoordinator_ExecuteRecurringTransaction(t *testing.T) {
	// given
	f := setup(t)
	f.recurring.Put(recurring.RecurringTransaction{
		Id:                "rec-1",
		UserId:            userId,
		Description:       "Aluguel",
		Amount:            money("1500"),
		Type:              recurring.Expense,
		CategoryId:        "moradia",
		CardId:            "conta",
		Frequency:         recurring.Monthly,
		StartDate:         day(2023, 10, 31),
		NextExecutionDate: day(2024, 1, 31),
		IsActive:          true,
	})
	require.NoError(t, f.coordinator.Load(f.ctx))

	// when
	created, executed, err := f.coordinator.ExecuteRecurringTransaction(f.ctx, "rec-1")

	// then
	require.NoError(t, err)
	assert.True(t, executed)
	assert.Equal(t, day(2024, 3, 15), created.TransactionDate)
	assert.True(t, created.IsRecurring)
	require.NotNil(t, created.RecurringTransactionId)
	assert.Equal(t, "rec-1", *created.RecurringTransactionId)
	assert.True(t, money("1500").Equal(created.Amount))
	assert.Equal(t, transaction.Expense, created.Type)

	stored, ok := f.recurring.Get("rec-1")
	require.True(t, ok)
	assert.Equal(t, day(2024, 2, 29), stored.NextExecutionDate)

	transactions, err := f.coordinator.Transactions(f.ctx)
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
}

func TestCoordinator_ExecuteUnknownRecurringIsNoop(t *testing.T) {
	f := setup(t)

	_, executed, err := f.coordinator.ExecuteRecurringTransaction(f.ctx, "missing")

	require.NoError(t, err)
	assert.False(t, executed)
	transactions, _ := f.transactions.List(f.ctx, userId)
	assert.Empty(t, transactions)
}

func TestCoordinator_Teardown(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.coordinator.Load(f.ctx))
	_, err := f.coordinator.GetFinancialSummary(f.ctx)
	require.NoError(t, err)
	other := user.WithUser(context.Background(), user.User{Id: userId + 1})
	require.NoError(t, f.coordinator.Load(other))

	require.NoError(t, f.coordinator.Teardown(f.ctx))

	assert.False(t, f.coordinator.HasSession(userId))
	for _, name := range userCollections {
		assert.False(t, f.cache.Has(CacheKey(name, userId)), "%s should be cleared", name)
	}
	assert.True(t, f.coordinator.HasSession(userId+1))
	assert.True(t, f.cache.Has(CacheKey(CategoriesCollection, userId+1)))
}

func TestCoordinator_TeardownDropsQueuedPrefetches(t *testing.T) {
	// given
	f := setup(t)
	require.NoError(t, f.coordinator.Load(f.ctx))
	require.Positive(t, f.advisor.Pending())

	// when
	require.NoError(t, f.coordinator.Teardown(f.ctx))
	f.advisor.Flush()

	// then
	assert.Equal(t, 0, f.advisor.Pending())
	assert.False(t, f.coordinator.HasSession(userId), "session is not recreated")
	for _, name := range userCollections {
		assert.False(t, f.cache.Has(CacheKey(name, userId)), "%s is not repopulated", name)
	}
}

func TestCoordinator_WarmAfterTeardownWritesNothing(t *testing.T) {
	// given
	f := setup(t)
	require.NoError(t, f.coordinator.Load(f.ctx))
	require.NoError(t, f.coordinator.Teardown(f.ctx))

	// when
	err := f.coordinator.WarmRoute(f.ctx, prefetch.Dashboard)

	// then
	require.NoError(t, err)
	assert.False(t, f.coordinator.HasSession(userId))
	assert.False(t, f.cache.Has(CacheKey(TransactionsCollection, userId)))
	assert.False(t, f.cache.Has(CacheKey(SummaryCollection, userId)))
}

func TestCoordinator_RevalidationAfterTeardownWritesNothing(t *testing.T) {
	// given
	f := setup(t)
	stale := []category.Category{{Id: "cat-old", UserId: userId, Name: "Antiga", Type: category.Expense}}
	cache.Set(f.cache, cache.NewKey[[]category.Category](CacheKey(CategoriesCollection, userId)), stale, CategoriesTTL)
	fresh := f.seedCategory("Nova", category.Expense)
	require.NoError(t, f.coordinator.Load(f.ctx))
	f.coordinator.Wait()
	s := f.coordinator.session(f.ctx, userId)
	require.NoError(t, f.coordinator.Teardown(f.ctx))
	f.seedCategory("Outra", category.Expense)

	// when
	revalidate(f.ctx, f.coordinator, s, f.coordinator.cols.categories, snapshot(s, f.coordinator.cols.categories))

	// then
	assert.False(t, f.cache.Has(CacheKey(CategoriesCollection, userId)))
	assert.Equal(t, []category.Category{fresh}, snapshot(s, f.coordinator.cols.categories), "closed session keeps its last state")
	assert.False(t, f.coordinator.HasSession(userId))
}

func TestCoordinator_WithSessionLeavesNoSessionBehind(t *testing.T) {
	// given
	f := setup(t)
	f.recurring.Put(recurring.RecurringTransaction{
		Id:                "rec-1",
		UserId:            userId,
		Description:       "Academia",
		Amount:            money("120"),
		Type:              recurring.Expense,
		CategoryId:        "saude",
		CardId:            "conta",
		Frequency:         recurring.Monthly,
		StartDate:         day(2024, 1, 15),
		NextExecutionDate: day(2024, 3, 15),
		IsActive:          true,
	})

	// when
	ctx, err := f.coordinator.WithSession(f.ctx)
	require.NoError(t, err)
	_, executed, err := f.coordinator.ExecuteRecurringTransaction(ctx, "rec-1")

	// then
	require.NoError(t, err)
	assert.True(t, executed)
	assert.False(t, f.coordinator.HasSession(userId))
	transactions, _ := f.transactions.List(f.ctx, userId)
	assert.Len(t, transactions, 1)
}

func TestCoordinator_WithSessionUsesActiveSession(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.coordinator.Load(f.ctx))

	ctx, err := f.coordinator.WithSession(f.ctx)
	require.NoError(t, err)

	assert.Same(t, f.coordinator.session(f.ctx, userId), f.coordinator.session(ctx, userId))
}

func TestCoordinator_ReadReturnsCopy(t *testing.T) {
	// given
	f := setup(t)
	f.seedCategory("Lazer", category.Expense)
	first, err := f.coordinator.Categories(f.ctx)
	require.NoError(t, err)
	second, err := f.coordinator.Categories(f.ctx)
	require.NoError(t, err)

	// when
	first[0].Name = "Alterada"
	second[0].Name = "Alterada"

	// then
	third, err := f.coordinator.Categories(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lazer", third[0].Name)
	assert.Equal(t, 1, f.categories.Calls(), "reads were served from the cache")
}

func TestCoordinator_Refresh(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.coordinator.Load(f.ctx))
	f.seedCategory("Nova", category.Income)

	require.NoError(t, f.coordinator.Refresh(f.ctx))
	f.coordinator.Wait()

	assert.Equal(t, 2, f.categories.Calls())
	categories, err := f.coordinator.Categories(f.ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestCoordinator_PrefetchRelatedData(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.coordinator.PrefetchRelatedData(f.ctx))

	assert.True(t, f.cache.Has(CacheKey(RecurringCollection, userId)))
	assert.True(t, f.cache.Has(CacheKey(BudgetsCollection, userId)))
	assert.Equal(t, 0, f.categories.Calls())

	_, err := f.coordinator.Budgets(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.budgets.Calls(), "prefetched budgets are served from cache")
}

func TestCoordinator_WarmRouteThroughAdvisor(t *testing.T) {
	f := setup(t)
	_, err := f.coordinator.RecurringTransactions(f.ctx)
	require.NoError(t, err)

	f.advisor.Navigated(f.ctx, prefetch.Dashboard)
	f.advisor.Flush()

	assert.True(t, f.cache.Has(CacheKey(TransactionsCollection, userId)))
	assert.True(t, f.cache.Has(CacheKey(CategoriesCollection, userId)))
	assert.True(t, f.cache.Has(CacheKey(CardsCollection, userId)))
	assert.False(t, f.cache.Has(CacheKey(BudgetsCollection, userId)))
}

func TestCoordinator_WarmRouteWithoutSessionIsSkipped(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.coordinator.WarmRoute(f.ctx, prefetch.Transactions))

	assert.False(t, f.coordinator.HasSession(userId))
	assert.Equal(t, 0, f.transactions.Calls())
}
