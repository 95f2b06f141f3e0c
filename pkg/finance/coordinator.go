package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/internal/event_bus"
	"github.com/Thucosta0/financepro-sub000/internal/prefetch"
	"github.com/Thucosta0/financepro-sub000/internal/utils"
	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Repositories struct {
	Categories   category.Repository
	Cards        card.Repository
	Transactions transaction.Repository
	Recurring    recurring.Repository
	Budgets      budget.BudgetRepo
}

// Coordinator keeps the per-user entity collections, the cache and the
// entity store consistent with each other.
type Coordinator struct {
	repos   Repositories
	cols    collections
	cache   *cache.Cache
	advisor *prefetch.Advisor
	bus     *event_bus.EventBus
	clock   utils.Clock

	mu       sync.Mutex
	sessions map[int]*Session

	background sync.WaitGroup
}

func NewCoordinator(repos Repositories, c *cache.Cache, advisor *prefetch.Advisor, bus *event_bus.EventBus, clock utils.Clock) *Coordinator {
	return &Coordinator{
		repos:    repos,
		cols:     newCollections(repos),
		cache:    c,
		advisor:  advisor,
		bus:      bus,
		clock:    clock,
		sessions: make(map[int]*Session),
	}
}

type sessionKey struct{}

// session returns the session bound to ctx, or else the registered session of
// the user, creating it on first use.
func (c *Coordinator) session(ctx context.Context, userId int) *Session {
	if s, ok := ctx.Value(sessionKey{}).(*Session); ok && s.userId == userId {
		return s
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userId]
	if !ok {
		s = newSession(userId)
		c.sessions[userId] = s
	}
	return s
}

func (c *Coordinator) registered(userId int) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[userId]
	return s, ok
}

// WithSession binds ctx to the active session of the current user. A user
// without one gets a session that is never registered, so background work
// such as the scheduler leaves no session behind.
func (c *Coordinator) WithSession(ctx context.Context) (context.Context, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	s, ok := c.registered(userId)
	if !ok {
		s = newSession(userId)
	}
	return context.WithValue(ctx, sessionKey{}, s), nil
}

// HasSession reports whether the user has an active session.
func (c *Coordinator) HasSession(userId int) bool {
	_, ok := c.registered(userId)
	return ok
}

func (c *Coordinator) CacheStats() cache.Stats {
	return c.cache.Stats()
}

// Load starts the session of the current user. Cached collections are served
// right away and revalidated in the background where they change often,
// missing ones are fetched synchronously.
func (c *Coordinator) Load(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	log.Debugf("loading financial data of user %d", userId)
	s := c.session(ctx, userId)

	load(ctx, c, s, c.cols.categories)
	load(ctx, c, s, c.cols.cards)
	load(ctx, c, s, c.cols.transactions)
	load(ctx, c, s, c.cols.recurring)
	load(ctx, c, s, c.cols.budgets)

	c.advisor.Navigated(ctx, prefetch.Dashboard)
	return nil
}

// Refresh drops every cached collection of the current user and loads them again.
func (c *Coordinator) Refresh(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	c.clearUser(userId)
	return c.Load(ctx)
}

// PrefetchRelatedData warms the collections not needed for the first screen.
func (c *Coordinator) PrefetchRelatedData(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	prefetch.Prefetch(ctx, c.advisor, c.cols.recurring.key(userId), func(ctx context.Context) ([]recurring.RecurringTransaction, error) {
		return c.repos.Recurring.List(ctx, userId)
	}, RecurringTTL)
	prefetch.Prefetch(ctx, c.advisor, c.cols.budgets.key(userId), func(ctx context.Context) ([]budget.Budget, error) {
		return c.repos.Budgets.GetAll(ctx, userId)
	}, BudgetsTTL)
	return nil
}

// Teardown ends the session of the current user, dropping its state, its
// queued prefetches and its cache entries. Revalidations still running for the
// session no longer write back.
func (c *Coordinator) Teardown(ctx context.Context) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	c.mu.Lock()
	s, ok := c.sessions[userId]
	delete(c.sessions, userId)
	c.mu.Unlock()
	if ok {
		s.close()
	}
	c.advisor.Forget(userId)
	c.clearUser(userId)
	log.Debugf("session of user %d torn down", userId)
	return nil
}

func (c *Coordinator) clearUser(userId int) {
	keys := make([]string, 0, len(userCollections))
	for _, name := range userCollections {
		keys = append(keys, CacheKey(name, userId))
	}
	c.cache.Clear(keys...)
}

// Wait blocks until running background revalidations finish.
func (c *Coordinator) Wait() {
	c.background.Wait()
}

func (c *Coordinator) Categories(ctx context.Context) ([]category.Category, error) {
	return read(ctx, c, c.cols.categories)
}

func (c *Coordinator) Cards(ctx context.Context) ([]card.Card, error) {
	return read(ctx, c, c.cols.cards)
}

func (c *Coordinator) Transactions(ctx context.Context) ([]transaction.Transaction, error) {
	return read(ctx, c, c.cols.transactions)
}

func (c *Coordinator) RecurringTransactions(ctx context.Context) ([]recurring.RecurringTransaction, error) {
	return read(ctx, c, c.cols.recurring)
}

func (c *Coordinator) Budgets(ctx context.Context) ([]budget.Budget, error) {
	return read(ctx, c, c.cols.budgets)
}

// WarmRoute performs the reads of route so they are served from the cache
// later. Users without an active session are skipped.
func (c *Coordinator) WarmRoute(ctx context.Context, route prefetch.Route) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	s, ok := c.registered(userId)
	if !ok {
		log.Debugf("user %d has no session, not warming route %s", userId, route)
		return nil
	}
	ctx = context.WithValue(ctx, sessionKey{}, s)

	switch route {
	case prefetch.Dashboard:
		_, err = c.GetFinancialSummary(ctx)
	case prefetch.Transactions:
		_, err = c.Transactions(ctx)
	case prefetch.Categories:
		_, err = c.Categories(ctx)
	case prefetch.Cards:
		_, err = c.Cards(ctx)
	case prefetch.Recurring:
		_, err = c.RecurringTransactions(ctx)
	case prefetch.Budgets:
		_, err = c.Budgets(ctx)
	default:
		log.Debugf("nothing to warm for route %s", route)
	}
	return err
}

// read serves a collection from the cache, falling back to the store. A store
// failure is logged and yields an empty collection.
func read[T any](ctx context.Context, c *Coordinator, col *collection[T]) ([]T, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	s := c.session(ctx, userId)

	if cached, ok := cache.Get(c.cache, col.key(userId)); ok {
		setState(s, col, cached)
		return slices.Clone(cached), nil
	}

	fetched, err := col.list(ctx, userId)
	if err != nil {
		log.Errorf("failed to read %s of user %d: %v", col.name, userId, err)
		return []T{}, nil
	}
	keep(c, s, col, fetched)
	return slices.Clone(fetched), nil
}

func load[T any](ctx context.Context, c *Coordinator, s *Session, col *collection[T]) {
	cached, ok := cache.Get(c.cache, col.key(s.userId))
	if !ok {
		fetched, err := col.list(ctx, s.userId)
		if err != nil {
			log.Errorf("failed to load %s of user %d: %v", col.name, s.userId, err)
			setState(s, col, []T{})
			return
		}
		keep(c, s, col, fetched)
		return
	}

	setState(s, col, cached)
	if !col.revalidate {
		return
	}
	c.background.Add(1)
	go func(ctx context.Context) {
		defer c.background.Done()
		revalidate(ctx, c, s, col, cached)
	}(context.WithoutCancel(ctx))
}

func revalidate[T any](ctx context.Context, c *Coordinator, s *Session, col *collection[T], cached []T) {
	fresh, err := col.list(ctx, s.userId)
	if err != nil {
		log.Warnf("background refresh of %s for user %d failed: %v", col.name, s.userId, err)
		return
	}
	if sameJSON(cached, fresh) {
		return
	}
	if !keep(c, s, col, fresh) {
		log.Debugf("session of user %d ended, dropping refreshed %s", s.userId, col.name)
		return
	}
	log.Debugf("%s of user %d changed, replaced cached value", col.name, s.userId)
}

// keep caches values and makes them the session state unless the session was
// torn down.
func keep[T any](c *Coordinator, s *Session, col *collection[T], values []T) bool {
	return s.whileOpen(func() {
		cache.Set(c.cache, col.key(s.userId), values, col.ttl)
		*col.state(s) = slices.Clone(values)
		s.loaded[col.name] = true
	})
}

func sameJSON(a, b any) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(left) == string(right)
}

func setState[T any](s *Session, col *collection[T], values []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	*col.state(s) = slices.Clone(values)
	s.loaded[col.name] = true
}

func snapshot[T any](s *Session, col *collection[T]) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(*col.state(s))
}
