package prefetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	log "github.com/sirupsen/logrus"
)

const DefaultDelay = 100 * time.Millisecond

// RouteWarmer loads the data of a route so later reads hit the cache.
type RouteWarmer interface {
	WarmRoute(ctx context.Context, route Route) error
}

type request struct {
	userId int
	route  Route
}

type queued struct {
	ctx   context.Context
	route Route
}

// Advisor collects routes the user is likely to open next and warms them in
// one batch once no new route was requested for the debounce delay.
type Advisor struct {
	mu     sync.Mutex
	cache  *cache.Cache
	warmer RouteWarmer
	delay  time.Duration
	order  []request
	queue  map[request]queued
	timer  *time.Timer
	wg     sync.WaitGroup
}

type Option func(*Advisor)

func WithDelay(delay time.Duration) Option {
	return func(a *Advisor) {
		a.delay = delay
	}
}

func NewAdvisor(c *cache.Cache, opts ...Option) *Advisor {
	a := &Advisor{
		cache: c,
		delay: DefaultDelay,
		queue: make(map[request]queued),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetWarmer sets the component that performs route reads. The coordinator
// depends on the advisor, so it is attached after construction.
func (a *Advisor) SetWarmer(warmer RouteWarmer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.warmer = warmer
}

// PrefetchRoute queues route for the user in ctx and restarts the debounce timer.
// A route already queued for the same user is not queued twice.
func (a *Advisor) PrefetchRoute(ctx context.Context, route Route) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		log.Debugf("prefetch of %s skipped: %v", route, err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	req := request{userId: userId, route: route}
	if _, exists := a.queue[req]; !exists {
		a.order = append(a.order, req)
	}
	a.queue[req] = queued{ctx: context.WithoutCancel(ctx), route: route}

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.Flush)
}

// Navigated queues every route related to the one the user just opened.
func (a *Advisor) Navigated(ctx context.Context, route Route) {
	for _, next := range related[route] {
		a.PrefetchRoute(ctx, next)
	}
}

// Flush warms every queued route now and empties the queue.
func (a *Advisor) Flush() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	order := a.order
	queue := a.queue
	warmer := a.warmer
	a.order = nil
	a.queue = make(map[request]queued)
	a.wg.Add(1)
	a.mu.Unlock()
	defer a.wg.Done()

	if warmer == nil {
		if len(order) > 0 {
			log.Warnf("prefetch: no route warmer set, dropping %d routes", len(order))
		}
		return
	}
	for _, req := range order {
		q := queue[req]
		if err := warmer.WarmRoute(q.ctx, q.route); err != nil {
			log.Warnf("prefetch of route %s for user %d failed: %v", q.route, req.userId, err)
		}
	}
}

// Forget drops the routes queued for userId. The debounce timer is cancelled
// when nothing else is queued.
func (a *Advisor) Forget(userId int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	kept := a.order[:0]
	for _, req := range a.order {
		if req.userId == userId {
			delete(a.queue, req)
			continue
		}
		kept = append(kept, req)
	}
	a.order = kept
	if len(a.order) == 0 && a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Pending returns the number of queued routes.
func (a *Advisor) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.order)
}

// Stop cancels a pending flush and waits for a running one to finish.
func (a *Advisor) Stop() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.order = nil
	a.queue = make(map[request]queued)
	a.mu.Unlock()
	a.wg.Wait()
}

// PrefetchData fills key with the result of fetch unless the cache already
// holds it. Failures are only logged.
func (a *Advisor) PrefetchData(ctx context.Context, key string, fetch func(ctx context.Context) (any, error), ttl time.Duration) {
	if a.cache.Has(key) {
		return
	}
	value, err := fetch(ctx)
	if err != nil {
		log.Warnf("prefetch of %s failed: %v", key, err)
		return
	}
	a.cache.Set(key, value, ttl)
}

// Prefetch is the typed form of PrefetchData.
func Prefetch[T any](ctx context.Context, a *Advisor, key cache.Key[T], fetch func(ctx context.Context) (T, error), ttl time.Duration) {
	a.PrefetchData(ctx, key.String(), func(ctx context.Context) (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", key, err)
		}
		return value, nil
	}, ttl)
}
