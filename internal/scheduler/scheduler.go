package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Thucosta0/financepro-sub000/internal/utils"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type Sweeper interface {
	Sweep() int
}

type DueLister interface {
	ListDue(ctx context.Context, day time.Time) ([]recurring.RecurringTransaction, error)
}

type UserGetter interface {
	GetUser(ctx context.Context, id int) (user.User, error)
}

// Executor books recurring transactions. WithSession prepares the context of
// one owner before their definitions are executed.
type Executor interface {
	WithSession(ctx context.Context) (context.Context, error)
	ExecuteRecurringTransaction(ctx context.Context, id string) (transaction.Transaction, bool, error)
}

type Config struct {
	SweepInterval time.Duration
	RecurringSpec string
}

// Scheduler runs the periodic cache sweep and books due recurring transactions.
type Scheduler struct {
	cron     *cron.Cron
	cfg      Config
	cache    Sweeper
	due      DueLister
	users    UserGetter
	executor Executor
	clock    utils.Clock
}

func New(cfg Config, cache Sweeper, due DueLister, users UserGetter, executor Executor, clock utils.Clock) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		cache:    cache,
		due:      due,
		users:    users,
		executor: executor,
		clock:    clock,
	}
}

func (s *Scheduler) Start() error {
	if s.cfg.SweepInterval > 0 {
		spec := fmt.Sprintf("@every %s", s.cfg.SweepInterval)
		if _, err := s.cron.AddFunc(spec, func() { s.SweepCache() }); err != nil {
			return fmt.Errorf("invalid cache sweep schedule %q: %w", spec, err)
		}
	}
	if s.cfg.RecurringSpec != "" {
		_, err := s.cron.AddFunc(s.cfg.RecurringSpec, func() {
			executed, err := s.ExecuteDueRecurring(context.Background())
			if err != nil {
				log.Errorf("Error executing due recurring transactions: %v", err)
				return
			}
			log.Infof("Executed %d due recurring transactions", executed)
		})
		if err != nil {
			return fmt.Errorf("invalid recurring schedule %q: %w", s.cfg.RecurringSpec, err)
		}
	}
	s.cron.Start()
	log.Info("Scheduler started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info("Scheduler stopped")
}

func (s *Scheduler) SweepCache() int {
	removed := s.cache.Sweep()
	if removed > 0 {
		log.Debugf("cache sweep removed %d expired entries", removed)
	}
	return removed
}

// ExecuteDueRecurring books one occurrence of every definition due today,
// acting as the owner of each. Failures for one definition do not stop the
// others.
func (s *Scheduler) ExecuteDueRecurring(ctx context.Context) (int, error) {
	today := utils.StartOfDay(s.clock.Now())
	due, err := s.due.ListDue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list due recurring transactions: %w", err)
	}

	executed := 0
	owners := map[int]context.Context{}
	for _, definition := range due {
		ownerCtx, ok := owners[definition.UserId]
		if !ok {
			ownerCtx, err = s.ownerContext(ctx, definition.UserId)
			if err != nil {
				log.Errorf("Error preparing owner %d of recurring transaction %s: %v", definition.UserId, definition.Id, err)
				continue
			}
			owners[definition.UserId] = ownerCtx
		}

		_, booked, err := s.executor.ExecuteRecurringTransaction(ownerCtx, definition.Id)
		if err != nil {
			log.Errorf("Error executing recurring transaction %s: %v", definition.Id, err)
			continue
		}
		if booked {
			executed++
		}
	}
	return executed, nil
}

func (s *Scheduler) ownerContext(ctx context.Context, userId int) (context.Context, error) {
	owner, err := s.users.GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	return s.executor.WithSession(user.WithUser(ctx, owner))
}
