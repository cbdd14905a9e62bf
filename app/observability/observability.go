// Package observability builds the process logger, tracer and metrics registry.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	leaguemetrics "github.com/Black-And-White-Club/bakeoff-league/app/observability/metrics/league"
	"github.com/Black-And-White-Club/bakeoff-league/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Observability bundles the telemetry handles every module receives.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Registry *prometheus.Registry
	Metrics  leaguemetrics.LeagueMetrics
}

// Init builds the logger from cfg, a tracer from the global provider and a
// fresh prometheus registry with runtime collectors.
func Init(ctx context.Context, cfg config.ObservabilityConfig) (Observability, error) {
	logger := NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics, err := leaguemetrics.NewPrometheus(registry, strings.ReplaceAll(cfg.ServiceName, "-", "_"))
	if err != nil {
		return Observability{}, fmt.Errorf("failed to register league metrics: %w", err)
	}

	logger.InfoContext(ctx, "Observability initialized",
		slog.String("log_level", cfg.LogLevel),
		slog.String("log_format", cfg.LogFormat),
	)

	return Observability{
		Logger:   logger,
		Tracer:   otel.Tracer(cfg.ServiceName),
		Registry: registry,
		Metrics:  metrics,
	}, nil
}

// NewLogger returns a text or JSON slog logger at the named level. Unknown
// levels fall back to info.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// MetricsHandler serves the registry in the prometheus exposition format.
func (o Observability) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(o.Registry, promhttp.HandlerOpts{Registry: o.Registry})
}
