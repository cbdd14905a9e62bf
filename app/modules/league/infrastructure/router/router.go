package leaguerouter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/bakeoff-league/app/eventbus"
	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
	leaguehandlers "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/infrastructure/handlers"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// PoisonTopicV1 receives messages whose handler kept failing after retries.
const PoisonTopicV1 = "league.poison.v1"

type LeagueRouter struct {
	logger         *slog.Logger
	Router         *message.Router
	subscriber     message.Subscriber
	publisher      message.Publisher
	tracer         trace.Tracer
	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewLeagueRouter wraps router. registry may be nil to skip router metrics.
func NewLeagueRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	registry prometheus.Registerer,
) *LeagueRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &builder
	}

	return &LeagueRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure installs middleware and registers the league handlers.
func (r *LeagueRouter) Configure(routerCtx context.Context, handlers leaguehandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for League")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	poisonQueue, err := middleware.PoisonQueue(r.publisher, PoisonTopicV1)
	if err != nil {
		return fmt.Errorf("failed to create poison queue middleware: %w", err)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		poisonQueue,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
		middleware.Recoverer,
	)

	return r.RegisterHandlers(routerCtx, handlers)
}

type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
}

func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]eventbus.Result, error),
) {
	handlerName := "league." + topic
	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		eventbus.WrapTyped(handlerName, deps.logger, deps.tracer, handler),
	)
}

// RegisterHandlers subscribes the standings recompute to every score-changing event.
func (r *LeagueRouter) RegisterHandlers(ctx context.Context, handlers leaguehandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering League Event Handlers")

	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, leagueevents.DraftCompletedV1, handlers.HandleDraftCompleted)
	registerHandler(deps, leagueevents.TradeCompletedV1, handlers.HandleTradeCompleted)
	registerHandler(deps, leagueevents.DropAddCompletedV1, handlers.HandleDropAddCompleted)
	registerHandler(deps, leagueevents.WeekSubmittedV1, handlers.HandleWeekSubmitted)

	return nil
}

func (r *LeagueRouter) Close() error {
	return r.Router.Close()
}
