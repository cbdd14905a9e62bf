package league

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/bakeoff-league/app/eventbus"
	leagueservice "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/application"
	leaguehandlers "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/handlers"
	leaguemcp "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/mcp"
	leaguequeue "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/queue"
	leaguedb "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/repositories"
	leaguerouter "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/router"
	"github.com/Black-And-White-Club/bakeoff-league/app/observability"
	"github.com/Black-And-White-Club/bakeoff-league/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the league module.
type Module struct {
	LeagueService *leagueservice.LeagueService
	LeagueRouter  *leaguerouter.LeagueRouter
	HTTPHandlers  *leaguehandlers.HTTPHandlers
	MCPHandler    http.Handler
	queue         leaguequeue.QueueService
	cancelFunc    context.CancelFunc
	logger        *slog.Logger
}

// NewLeagueModule creates and initializes a new league module. Leagues are
// hydrated from the database before the module is returned.
func NewLeagueModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "league.NewLeagueModule initializing")

	// 1. Initialize Repository
	repo := leaguedb.NewRepository(db)

	// 2. Optionally route saves through the River queue
	var store leagueservice.Store = repo
	var queue leaguequeue.QueueService
	if cfg.Queue.Enabled {
		q, err := leaguequeue.NewService(ctx, repo, cfg.Database.DSN, logger, obs.Metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create league queue: %w", err)
		}
		queue = q
		store = q
	}

	// 3. Initialize Service
	service := leagueservice.NewLeagueService(store, eventBus, logger, obs.Metrics, tracer, leagueservice.Config{
		DraftRounds: cfg.League.DraftRounds,
		SeedPreview: cfg.SeedPreview(),
	})
	if err := service.Hydrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to hydrate leagues: %w", err)
	}

	// 4. Initialize Handlers
	handlers := leaguehandlers.NewLeagueHandlers(service, logger, tracer)

	// 5. Initialize Router
	leagueRouter := leaguerouter.NewLeagueRouter(logger, router, eventBus, eventBus, tracer, obs.Registry)
	if err := leagueRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure league router: %w", err)
	}

	return &Module{
		LeagueService: service,
		LeagueRouter:  leagueRouter,
		HTTPHandlers:  leaguehandlers.NewHTTPHandlers(service, logger, tracer),
		MCPHandler:    leaguemcp.NewHTTPHandler(service, logger),
		queue:         queue,
		logger:        logger,
	}, nil
}

// Routes mounts the REST API and the MCP endpoint.
func (m *Module) Routes(r chi.Router) {
	m.HTTPHandlers.Routes(r)
	r.Handle("/mcp", m.MCPHandler)
}

// Run starts the league module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting league module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start league queue", slog.String("error", err.Error()))
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "League module goroutine stopped")
}

// Close shuts down the league module.
func (m *Module) Close() error {
	m.logger.Info("Stopping league module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		if err := m.queue.Stop(context.Background()); err != nil {
			m.logger.Error("Error stopping league queue", "error", err)
			return fmt.Errorf("error stopping league queue: %w", err)
		}
	}

	if m.LeagueRouter != nil {
		if err := m.LeagueRouter.Close(); err != nil {
			m.logger.Error("Error closing LeagueRouter from module", "error", err)
			return fmt.Errorf("error closing LeagueRouter: %w", err)
		}
	}

	m.logger.Info("League module stopped")
	return nil
}
