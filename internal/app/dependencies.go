package app

import (
	"github.com/Thucosta0/financepro-sub000/internal/cache"
	"github.com/Thucosta0/financepro-sub000/internal/config"
	"github.com/Thucosta0/financepro-sub000/internal/event_bus"
	"github.com/Thucosta0/financepro-sub000/internal/prefetch"
	"github.com/Thucosta0/financepro-sub000/internal/scheduler"
	"github.com/Thucosta0/financepro-sub000/internal/utils"
	"github.com/Thucosta0/financepro-sub000/pkg/budget"
	"github.com/Thucosta0/financepro-sub000/pkg/card"
	"github.com/Thucosta0/financepro-sub000/pkg/category"
	"github.com/Thucosta0/financepro-sub000/pkg/finance"
	"github.com/Thucosta0/financepro-sub000/pkg/recurring"
	"github.com/Thucosta0/financepro-sub000/pkg/report"
	"github.com/Thucosta0/financepro-sub000/pkg/subscription"
	"github.com/Thucosta0/financepro-sub000/pkg/transaction"
	"github.com/Thucosta0/financepro-sub000/pkg/user"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	Cache    *cache.Cache
	EventBus *event_bus.EventBus

	UserService user.Service
	UserHandler *user.Handler

	Repositories finance.Repositories
	Invalidator  *finance.Invalidator
	Advisor      *prefetch.Advisor
	Coordinator  *finance.Coordinator
	Handler      *finance.Handler

	Evaluator           *subscription.Evaluator
	SubscriptionRecords subscription.Repository
	SubscriptionHandler *subscription.Handler

	ReportRenderer *report.CsvReportRendererImpl
	ReportHandler  *report.Handler

	Scheduler *scheduler.Scheduler

	unsubscribeInvalidator func()
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Cache = cache.New(
		cache.WithCapacity(cfg.Cache.Capacity),
		cache.WithDefaultTTL(cfg.Cache.DefaultTTL),
		cache.WithClock(deps.Clock),
	)
	deps.EventBus = event_bus.NewEventBus()

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.Repositories = finance.Repositories{
		Categories:   category.NewRepository(db),
		Cards:        card.NewRepository(db),
		Transactions: transaction.NewRepository(db),
		Recurring:    recurring.NewRepository(db),
		Budgets:      budget.NewBudgetRepo(db),
	}
	deps.Invalidator = finance.NewInvalidator(deps.Cache)
	deps.unsubscribeInvalidator = deps.Invalidator.Subscribe(deps.EventBus)
	deps.Advisor = prefetch.NewAdvisor(deps.Cache)
	deps.Coordinator = finance.NewCoordinator(deps.Repositories, deps.Cache, deps.Advisor, deps.EventBus, deps.Clock)
	deps.Advisor.SetWarmer(deps.Coordinator)
	deps.Handler = finance.NewHandler(deps.Coordinator)

	deps.Evaluator = subscription.NewEvaluator(deps.Clock, cfg.Subscription.TrialDays)
	deps.SubscriptionRecords = subscription.NewRepository(db)
	deps.SubscriptionHandler = subscription.NewHandler(deps.Evaluator, deps.SubscriptionRecords, deps.UserService)

	deps.ReportRenderer = report.NewCsvReportRenderer()
	deps.ReportHandler = report.NewHandler(deps.Coordinator, deps.ReportRenderer)

	deps.Scheduler = scheduler.New(
		scheduler.Config{SweepInterval: cfg.Cache.SweepInterval, RecurringSpec: cfg.Scheduler.RecurringSpec},
		deps.Cache,
		deps.Repositories.Recurring,
		deps.UserService,
		deps.Coordinator,
		deps.Clock,
	)

	return deps
}
