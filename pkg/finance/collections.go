package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/internal/event_bus"
	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
)

// Collection names, also used as cache key prefixes.
const (
	CategoriesCollection   = "categories"
	CardsCollection        = "cards"
	TransactionsCollection = "transactions"
	RecurringCollection    = "recurring"
	BudgetsCollection      = "budgets"
	SummaryCollection      = "summary"
)

var userCollections = []string{
	CategoriesCollection,
	CardsCollection,
	TransactionsCollection,
	RecurringCollection,
	BudgetsCollection,
	SummaryCollection,
}

const (
	CategoriesTTL   = 10 * time.Minute
	CardsTTL        = 10 * time.Minute
	TransactionsTTL = 2 * time.Minute
	RecurringTTL    = 5 * time.Minute
	BudgetsTTL      = 5 * time.Minute
	SummaryTTL      = time.Minute
)

// CacheKey returns the per-user cache key of a collection, e.g. "categories_7".
func CacheKey(collection string, userId int) string {
	return fmt.Sprintf("%s_%d", collection, userId)
}

func summaryKey(userId int) cache.Key[Summary] {
	return cache.NewKey[Summary](CacheKey(SummaryCollection, userId))
}

// collection describes how one entity list is fetched, cached and kept in a Session.
type collection[T any] struct {
	name         string
	kind         event_bus.EntityKind
	ttl          time.Duration
	revalidate   bool
	id           func(T) string
	state        func(s *Session) *[]T
	list         func(ctx context.Context, userId int) ([]T, error)
	notFoundErr  error
	prependNewer bool
}

func (col *collection[T]) key(userId int) cache.Key[[]T] {
	return cache.NewKey[[]T](CacheKey(col.name, userId))
}

type collections struct {
	categories   *collection[category.Category]
	cards        *collection[card.Card]
	transactions *collection[transaction.Transaction]
	recurring    *collection[recurring.RecurringTransaction]
	budgets      *collection[budget.Budget]
}

func newCollections(repos Repositories) collections {
	return collections{
		categories: &collection[category.Category]{
			name:        CategoriesCollection,
			kind:        event_bus.CategoryEntity,
			ttl:         CategoriesTTL,
			revalidate:  true,
			id:          func(c category.Category) string { return c.Id },
			state:       func(s *Session) *[]category.Category { return &s.categories },
			list:        repos.Categories.List,
			notFoundErr: category.ErrCategoryNotFound,
		},
		cards: &collection[card.Card]{
			name:        CardsCollection,
			kind:        event_bus.CardEntity,
			ttl:         CardsTTL,
			revalidate:  true,
			id:          func(c card.Card) string { return c.Id },
			state:       func(s *Session) *[]card.Card { return &s.cards },
			list:        repos.Cards.List,
			notFoundErr: card.ErrCardNotFound,
		},
		transactions: &collection[transaction.Transaction]{
			name:         TransactionsCollection,
			kind:         event_bus.TransactionEntity,
			ttl:          TransactionsTTL,
			revalidate:   true,
			id:           func(t transaction.Transaction) string { return t.Id },
			state:        func(s *Session) *[]transaction.Transaction { return &s.transactions },
			list:         repos.Transactions.List,
			notFoundErr:  transaction.ErrTransactionNotFound,
			prependNewer: true,
		},
		recurring: &collection[recurring.RecurringTransaction]{
			name:        RecurringCollection,
			kind:        event_bus.RecurringEntity,
			ttl:         RecurringTTL,
			id:          func(r recurring.RecurringTransaction) string { return r.Id },
			state:       func(s *Session) *[]recurring.RecurringTransaction { return &s.recurring },
			list:        repos.Recurring.List,
			notFoundErr: recurring.ErrRecurringNotFound,
		},
		budgets: &collection[budget.Budget]{
			name:        BudgetsCollection,
			kind:        event_bus.BudgetEntity,
			ttl:         BudgetsTTL,
			id:          func(b budget.Budget) string { return b.Id },
			state:       func(s *Session) *[]budget.Budget { return &s.budgets },
			list:        repos.Budgets.GetAll,
			notFoundErr: budget.ErrBudgetNotFound,
		},
	}
}
