package finance

import (
	"context"
	"fmt"
	"slices"

	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/internal/event_bus"
	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	log "github.com/sirupsen/logrus"
)

type validatable interface {
	Validate() error
}

type storeFunc[T any] func(ctx context.Context, userId int, entity T) (T, error)

func (c *Coordinator) AddCategory(ctx context.Context, entity category.Category) (category.Category, error) {
	return add(ctx, c, c.cols.categories, entity, c.repos.Categories.Create)
}

func (c *Coordinator) UpdateCategory(ctx context.Context, entity category.Category) (category.Category, error) {
	return update(ctx, c, c.cols.categories, entity, c.repos.Categories.Update)
}

// DeleteCategory fails with category.ErrCategoryInUse while other records reference it.
func (c *Coordinator) DeleteCategory(ctx context.Context, id string) error {
	return remove(ctx, c, c.cols.categories, id, c.repos.Categories.Delete)
}

func (c *Coordinator) AddCard(ctx context.Context, entity card.Card) (card.Card, error) {
	return add(ctx, c, c.cols.cards, entity, c.repos.Cards.Create)
}

func (c *Coordinator) UpdateCard(ctx context.Context, entity card.Card) (card.Card, error) {
	return update(ctx, c, c.cols.cards, entity, c.repos.Cards.Update)
}

func (c *Coordinator) DeleteCard(ctx context.Context, id string) error {
	return remove(ctx, c, c.cols.cards, id, c.repos.Cards.Delete)
}

func (c *Coordinator) AddTransaction(ctx context.Context, entity transaction.Transaction) (transaction.Transaction, error) {
	return add(ctx, c, c.cols.transactions, entity, c.repos.Transactions.Create)
}

func (c *Coordinator) UpdateTransaction(ctx context.Context, entity transaction.Transaction) (transaction.Transaction, error) {
	return update(ctx, c, c.cols.transactions, entity, c.repos.Transactions.Update)
}

func (c *Coordinator) DeleteTransaction(ctx context.Context, id string) error {
	return remove(ctx, c, c.cols.transactions, id, c.repos.Transactions.Delete)
}

func (c *Coordinator) AddRecurringTransaction(ctx context.Context, entity recurring.RecurringTransaction) (recurring.RecurringTransaction, error) {
	if entity.NextExecutionDate.IsZero() {
		entity.NextExecutionDate = entity.StartDate
	}
	return add(ctx, c, c.cols.recurring, entity, c.repos.Recurring.Create)
}

func (c *Coordinator) UpdateRecurringTransaction(ctx context.Context, entity recurring.RecurringTransaction) (recurring.RecurringTransaction, error) {
	if entity.NextExecutionDate.IsZero() {
		entity.NextExecutionDate = entity.StartDate
	}
	return update(ctx, c, c.cols.recurring, entity, c.repos.Recurring.Update)
}

func (c *Coordinator) DeleteRecurringTransaction(ctx context.Context, id string) error {
	return remove(ctx, c, c.cols.recurring, id, c.repos.Recurring.Delete)
}

func (c *Coordinator) AddBudget(ctx context.Context, entity budget.Budget) (budget.Budget, error) {
	return add(ctx, c, c.cols.budgets, entity, c.repos.Budgets.Store)
}

func (c *Coordinator) UpdateBudget(ctx context.Context, entity budget.Budget) (budget.Budget, error) {
	return update(ctx, c, c.cols.budgets, entity, c.repos.Budgets.Update)
}

func (c *Coordinator) DeleteBudget(ctx context.Context, id string) error {
	return remove(ctx, c, c.cols.budgets, id, c.repos.Budgets.Delete)
}

func add[T validatable](ctx context.Context, c *Coordinator, col *collection[T], entity T, store storeFunc[T]) (T, error) {
	var zero T
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := entity.Validate(); err != nil {
		return zero, err
	}

	created, err := store(ctx, userId, entity)
	if err != nil {
		return zero, fmt.Errorf("failed to create %s entry: %w", col.name, err)
	}

	s := c.session(ctx, userId)
	s.mu.Lock()
	state := col.state(s)
	if col.prependNewer {
		*state = append([]T{created}, *state...)
	} else {
		*state = append(*state, created)
	}
	s.mu.Unlock()

	c.afterWrite(ctx, s, col, event_bus.Created, col.id(created))
	return created, nil
}

func update[T validatable](ctx context.Context, c *Coordinator, col *collection[T], entity T, store storeFunc[T]) (T, error) {
	var zero T
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to get current user: %w", err)
	}
	if col.id(entity) == "" {
		return zero, col.notFoundErr
	}
	if err := entity.Validate(); err != nil {
		return zero, err
	}

	updated, err := store(ctx, userId, entity)
	if err != nil {
		return zero, fmt.Errorf("failed to update %s entry: %w", col.name, err)
	}

	s := c.session(ctx, userId)
	s.mu.Lock()
	state := col.state(s)
	replaced := false
	for i, existing := range *state {
		if col.id(existing) == col.id(updated) {
			(*state)[i] = updated
			replaced = true
			break
		}
	}
	if !replaced {
		*state = append(*state, updated)
	}
	s.mu.Unlock()

	c.afterWrite(ctx, s, col, event_bus.Updated, col.id(updated))
	return updated, nil
}

func remove[T any](ctx context.Context, c *Coordinator, col *collection[T], id string, del func(ctx context.Context, userId int, id string) error) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	if err := del(ctx, userId, id); err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", col.name, err)
	}

	s := c.session(ctx, userId)
	s.mu.Lock()
	state := col.state(s)
	kept := make([]T, 0, len(*state))
	for _, existing := range *state {
		if col.id(existing) != id {
			kept = append(kept, existing)
		}
	}
	*state = kept
	s.mu.Unlock()

	c.afterWrite(ctx, s, col, event_bus.Deleted, id)
	return nil
}

// afterWrite stores the updated collection and announces the mutation so
// derived cache entries get invalidated.
func (c *Coordinator) afterWrite(ctx context.Context, s *Session, col collectionInfo, op event_bus.Operation, entityId string) {
	col.store(c, s)

	event := event_bus.NewEvent(ctx, event_bus.EntityMutatedEvent, event_bus.EntityMutated{
		Kind:      col.entityKind(),
		Operation: op,
		UserId:    s.userId,
		EntityId:  entityId,
	})
	if err := c.bus.Publish(event); err != nil {
		log.Errorf("failed to publish %s mutation of user %d: %v", col.entityKind(), s.userId, err)
	}
}

// collectionInfo is the non-generic view of a collection used after writes.
type collectionInfo interface {
	entityKind() event_bus.EntityKind
	store(c *Coordinator, s *Session)
}

func (col *collection[T]) entityKind() event_bus.EntityKind {
	return col.kind
}

func (col *collection[T]) store(c *Coordinator, s *Session) {
	s.whileOpen(func() {
		cache.Set(c.cache, col.key(s.userId), slices.Clone(*col.state(s)), col.ttl)
	})
}
