package finance

import (
	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/internal/event_bus"
	log "github.com/sirupsen/logrus"
)

// invalidations lists the cached collections derived from each entity kind.
var invalidations = map[event_bus.EntityKind][]string{
	event_bus.TransactionEntity: {TransactionsCollection, BudgetsCollection, SummaryCollection},
	event_bus.CategoryEntity:    {CategoriesCollection, TransactionsCollection, BudgetsCollection, SummaryCollection},
	event_bus.CardEntity:        {CardsCollection, TransactionsCollection, SummaryCollection},
	event_bus.RecurringEntity:   {RecurringCollection},
	event_bus.BudgetEntity:      {BudgetsCollection},
}

// Invalidates returns the collections cleared when an entity of kind changes.
func Invalidates(kind event_bus.EntityKind) []string {
	return append([]string(nil), invalidations[kind]...)
}

// Invalidator removes cache entries made stale by entity mutations.
type Invalidator struct {
	cache *cache.Cache
}

func NewInvalidator(c *cache.Cache) *Invalidator {
	return &Invalidator{cache: c}
}

// Subscribe attaches the invalidator to bus and returns a function detaching it.
func (i *Invalidator) Subscribe(bus *event_bus.EventBus) func() {
	return event_bus.SubscribeTyped(bus, event_bus.EntityMutatedEvent, func(e event_bus.EventT[event_bus.EntityMutated]) error {
		i.Invalidate(e.Data)
		return nil
	})
}

func (i *Invalidator) Invalidate(mutation event_bus.EntityMutated) {
	collections := invalidations[mutation.Kind]
	keys := make([]string, 0, len(collections))
	for _, name := range collections {
		keys = append(keys, CacheKey(name, mutation.UserId))
	}
	if len(keys) == 0 {
		log.Warnf("no invalidation rule for %s", mutation.Kind)
		return
	}
	i.cache.Clear(keys...)
	log.Tracef("%s %s by user %d invalidated %v", mutation.Kind, mutation.Operation, mutation.UserId, keys)
}
