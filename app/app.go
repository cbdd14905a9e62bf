package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/bakeoff-league/app/database"
	"github.com/Black-And-White-Club/bakeoff-league/app/eventbus"
	"github.com/Black-And-White-Club/bakeoff-league/app/modules/auth"
	"github.com/Black-And-White-Club/bakeoff-league/app/modules/league"
	leaguemigrations "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/bakeoff-league/app/observability"
	"github.com/Black-And-White-Club/bakeoff-league/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	"github.com/uptrace/bun"
)

const shutdownTimeout = 10 * time.Second

// App wires configuration, storage, the event bus and the modules together.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	AuthModule    *auth.Module
	LeagueModule  *league.Module

	wg sync.WaitGroup
}

// NewApp initializes every dependency from cfg. Nothing is served until Run.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	obs, err := observability.Init(ctx, cfg.Observability)
	if err != nil {
		return nil, err
	}
	logger := obs.Logger

	db, err := database.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(ctx, db, leaguemigrations.Migrations); err != nil {
		_ = db.Close()
		return nil, err
	}

	var fanOut message.Publisher
	if cfg.NATS.URL != "" {
		fanOut, err = eventbus.NewNATSPublisher(eventbus.NATSConfig{
			URL:      cfg.NATS.URL,
			NKeySeed: cfg.NATS.NKeySeed,
			Name:     cfg.Observability.ServiceName,
		}, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.InfoContext(ctx, "NATS fan-out enabled", slog.String("url", cfg.NATS.URL))
	}
	bus := eventbus.NewEventBus(logger, fanOut)

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		Router:        router,
	}

	leagueModule, err := league.NewLeagueModule(ctx, cfg, obs, bus, router, ctx, db)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("failed to initialize league module: %w", err)
	}
	app.LeagueModule = leagueModule
	app.AuthModule = auth.NewModule(ctx, cfg, logger, leagueModule.LeagueService)

	return app, nil
}

// Handler builds the HTTP surface: health, metrics, the REST API and MCP.
func (app *App) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	c := corslib.New(corslib.Options{
		AllowedOrigins:   app.Config.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
		ExposedHeaders:   []string{"Content-Disposition", "Mcp-Session-Id"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := app.DB.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if app.Config.Observability.MetricsAddress == "" {
		r.Handle("/metrics", app.Observability.MetricsHandler())
	}

	r.Group(func(r chi.Router) {
		r.Use(app.AuthModule.Middleware()...)
		app.LeagueModule.Routes(r)
	})

	return r
}

// Run starts the message router, the modules and the HTTP listeners, then
// blocks until ctx is canceled or a listener fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- app.Router.Run(ctx)
	}()
	select {
	case <-app.Router.Running():
	case err := <-routerErr:
		return fmt.Errorf("message router stopped: %w", err)
	}

	app.wg.Add(1)
	go app.LeagueModule.Run(ctx, &app.wg)

	servers := []*http.Server{{
		Addr:              app.Config.HTTP.Addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if addr := app.Config.Observability.MetricsAddress; addr != "" {
		servers = append(servers, &http.Server{
			Addr:              addr,
			Handler:           app.Observability.MetricsHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	serveErr := make(chan error, len(servers))
	for _, srv := range servers {
		logger.InfoContext(ctx, "HTTP server listening", slog.String("addr", srv.Addr))
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- fmt.Errorf("listener %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down application...")
	case runErr = <-serveErr:
		logger.Error("HTTP server failed", slog.String("error", runErr.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		}
	}
	return runErr
}

// Close stops the modules and releases the bus and database.
func (app *App) Close() error {
	var errs []error
	if app.LeagueModule != nil {
		errs = append(errs, app.LeagueModule.Close())
	} else if app.Router != nil {
		errs = append(errs, app.Router.Close())
	}
	app.wg.Wait()
	if app.EventBus != nil {
		errs = append(errs, app.EventBus.Close())
	}
	if app.DB != nil {
		errs = append(errs, app.DB.Close())
	}
	return errors.Join(errs...)
}
