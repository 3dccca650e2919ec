package app

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/smartspend/smartspend/internal/cache"
	"github.com/smartspend/smartspend/internal/config"
	"github.com/smartspend/smartspend/internal/event_bus"
	"github.com/smartspend/smartspend/internal/utils"
	"github.com/smartspend/smartspend/pkg/category"
	"github.com/smartspend/smartspend/pkg/excel"
	"github.com/smartspend/smartspend/pkg/fixedexpense"
	"github.com/smartspend/smartspend/pkg/google"
	"github.com/smartspend/smartspend/pkg/ledger"
	budgetsync "github.com/smartspend/smartspend/pkg/sync"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus   *event_bus.EventBus
	Clock utils.Clock

	LedgerStore   *ledger.Store
	LedgerService ledger.Service
	LedgerHandler *ledger.Handler

	CategoryRegistry *category.Registry
	CategoryService  category.Service
	CategoryHandler  *category.Handler

	TemplateStore       *fixedexpense.TemplateStore
	FixedExpenseEngine  *fixedexpense.Engine
	FixedExpenseService fixedexpense.Service
	FixedExpenseHandler *fixedexpense.Handler

	ExcelService excel.Service
	ExcelHandler *excel.Handler

	RemoteStore budgetsync.RemoteStore
	Coordinator *budgetsync.Coordinator
	SyncHandler *budgetsync.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, cacheStore *cache.Store, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = utils.SystemClock{}
	deps.Bus = event_bus.NewEventBus()

	deps.LedgerStore = ledger.NewStore()
	deps.CategoryRegistry = category.NewRegistry(deps.LedgerStore)
	deps.TemplateStore = fixedexpense.NewTemplateStore(deps.Clock)

	if cfg.Remote.UserID != "" && cfg.Remote.ProjectID != "" {
		remote, err := google.NewFirestoreStore(ctx, cfg.Remote.ProjectID, cfg.Remote.Token, cfg.Sync.PollInterval)
		if err != nil {
			return nil, err
		}
		deps.RemoteStore = remote
	} else if cfg.Remote.UserID != "" {
		log.Warn("remote.userid is set but remote.projectid is missing, running in local-cache-only mode")
	}

	deps.Coordinator = budgetsync.NewCoordinator(
		deps.LedgerStore,
		deps.CategoryRegistry,
		deps.TemplateStore,
		cacheStore,
		deps.RemoteStore,
		deps.Bus,
		deps.Clock,
		cfg.Remote.UserID,
		cfg.Sync.GraceWindow,
	)
	deps.SyncHandler = budgetsync.NewHandler(deps.Coordinator)

	deps.LedgerService = ledger.NewServiceImpl(deps.LedgerStore, deps.Bus, deps.Clock)
	deps.LedgerHandler = ledger.NewHandler(deps.LedgerService)

	deps.CategoryService = category.NewServiceImpl(deps.CategoryRegistry, deps.Bus)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	stamps := budgetsync.NewStamps(cacheStore)
	deps.FixedExpenseEngine = fixedexpense.NewEngine(deps.TemplateStore, deps.LedgerStore, stamps, deps.Coordinator, deps.Clock)
	deps.FixedExpenseService = fixedexpense.NewServiceImpl(deps.TemplateStore, deps.FixedExpenseEngine, deps.Bus)
	deps.FixedExpenseHandler = fixedexpense.NewHandler(deps.FixedExpenseService)

	exporter := excel.NewExporter(deps.LedgerStore)
	importer := excel.NewImporter(deps.LedgerStore, deps.CategoryRegistry)
	deps.ExcelService = excel.NewServiceImpl(exporter, importer, deps.Bus)
	deps.ExcelHandler = excel.NewHandler(deps.ExcelService, deps.Clock)

	return deps, nil
}
