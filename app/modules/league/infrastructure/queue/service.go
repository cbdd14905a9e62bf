package leaguequeue

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
)

const queueName = "league"

// Metrics interface (satisfied by leaguemetrics.LeagueMetrics)
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// Store is the durable store the queue writes through to.
type Store interface {
	Load(ctx context.Context) ([]leaguetypes.League, error)
	Save(ctx context.Context, leagues []leaguetypes.League) error
}

// QueueService defines the contract for the asynchronous league store.
type QueueService interface {
	Store
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	// Start starts the queue service
	Start(ctx context.Context) error
	// Stop stops the queue service
	Stop(ctx context.Context) error
}

// Ensure Service implements QueueService
var _ QueueService = (*Service)(nil)

// Service is a league store whose Save enqueues a River job instead of
// writing directly. Load still reads straight from the inner store.
type Service struct {
	client   *river.Client[pgx.Tx]
	pool     *pgxpool.Pool
	inner    Store
	logger   *slog.Logger
	metrics  Metrics
	sequence atomic.Int64
}

// NewService connects to Postgres, applies River's own schema migrations and
// builds a client with a single-worker league queue.
func NewService(ctx context.Context, inner Store, dsn string, logger *slog.Logger, metrics Metrics) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_league_queue_service"),
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing league queue service")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", slog.String("error", err.Error()))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", slog.String("error", err.Error()))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", slog.String("error", err.Error()))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		pool.Close()
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to run River migrations", slog.String("error", err.Error()))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to run River migrations: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewLeagueSaveWorker(ctxLogger, inner))

	// One worker keeps snapshots applied in insertion order.
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 5},
			queueName:          {MaxWorkers: 1},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", slog.String("error", err.Error()))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	service := &Service{
		client:  riverClient,
		pool:    pool,
		inner:   inner,
		logger:  ctxLogger,
		metrics: metrics,
	}
	service.sequence.Store(time.Now().UnixNano())

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("League queue service initialized successfully")
	return service, nil
}

// Start starts the River queue service
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", slog.String("error", err.Error()))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.metrics.RecordOperationDuration(ctx, "start_service", "river", time.Since(start))
	s.logger.Info("League queue service started")
	return nil
}

// Stop drains in-flight jobs and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", slog.String("error", err.Error()))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.metrics.RecordOperationDuration(ctx, "stop_service", "river", time.Since(start))
	s.logger.Info("League queue service stopped")
	return nil
}

// Load reads directly from the inner store.
func (s *Service) Load(ctx context.Context) ([]leaguetypes.League, error) {
	return s.inner.Load(ctx)
}

// Save enqueues the snapshot for the save worker.
func (s *Service) Save(ctx context.Context, leagues []leaguetypes.League) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_league_save", "river")

	job := LeagueSaveJob{
		Sequence: s.sequence.Add(1),
		Leagues:  leagues,
	}

	res, err := s.client.Insert(ctx, job, &river.InsertOpts{Queue: queueName})
	if err != nil {
		s.logger.Error("Failed to enqueue league save", slog.String("error", err.Error()))
		s.metrics.RecordOperationFailure(ctx, "enqueue_league_save", "river")
		return fmt.Errorf("failed to enqueue league save: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "enqueue_league_save", "river")
	s.metrics.RecordOperationDuration(ctx, "enqueue_league_save", "river", time.Since(start))
	s.logger.Debug("League save enqueued",
		slog.Int64("job_id", res.Job.ID),
		slog.Int64("sequence", job.Sequence))
	return nil
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "health_check", "river")

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "health_check", "river")
		return fmt.Errorf("river client is nil")
	}

	var pending int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM river_job WHERE kind = $1 AND state IN ('available', 'retryable')",
		LeagueSaveJob{}.Kind(),
	).Scan(&pending)
	if err != nil {
		s.logger.Error("Queue service health check failed", slog.String("error", err.Error()))
		s.metrics.RecordOperationFailure(ctx, "health_check", "river")
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "health_check", "river")
	s.metrics.RecordOperationDuration(ctx, "health_check", "river", time.Since(start))
	s.logger.Debug("Queue service health check passed", slog.Int("pending_saves", pending))
	return nil
}
