package leagueservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	draftdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/draft/domain"
	weeklylogdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/weeklylog/domain"
	leaguemetrics "github.com/Black-And-White-Club/bakeoff-league/app/observability/metrics/league"
	"github.com/Black-And-White-Club/bakeoff-league/app/shared/results"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "LeagueService"

// Config tunes a LeagueService. Zero values fall back to the season defaults.
type Config struct {
	DraftRounds int
	// SeedPreview keeps the preview league listed next to real leagues.
	SeedPreview bool
	Bakers      []leaguetypes.Baker
	Players     []leaguetypes.Player
	Shuffle     draftdomain.Shuffler
	NewID       func() leaguetypes.LeagueID
}

var _ Service = (*LeagueService)(nil)

// LeagueService owns all league state for the process. Every read-modify-write
// cycle runs under mu, so the domain packages can stay lock-free.
type LeagueService struct {
	mu       sync.Mutex
	leagues  map[leaguetypes.LeagueID]leaguetypes.League
	order    []leaguetypes.LeagueID
	statuses map[leaguetypes.LeagueID][]leaguetypes.Baker
	players  map[leaguetypes.PlayerID]leaguetypes.Player

	bakers      []leaguetypes.Baker
	rounds      int
	seedPreview bool
	shuffle     draftdomain.Shuffler
	newID       func() leaguetypes.LeagueID

	store     Store
	publisher message.Publisher
	logger    *slog.Logger
	metrics   leaguemetrics.LeagueMetrics
	tracer    trace.Tracer
}

// NewLeagueService creates a LeagueService holding only the preview league
// until Hydrate is called.
func NewLeagueService(
	store Store,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics leaguemetrics.LeagueMetrics,
	tracer trace.Tracer,
	cfg Config,
) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = leaguemetrics.NewNoop()
	}
	if cfg.DraftRounds <= 0 {
		cfg.DraftRounds = leaguetypes.DefaultDraftRounds
	}
	if cfg.Bakers == nil {
		cfg.Bakers = leaguetypes.DefaultBakers()
	}
	if cfg.Players == nil {
		cfg.Players = leaguetypes.DefaultPlayers()
	}
	if cfg.Shuffle == nil {
		cfg.Shuffle = draftdomain.RandomShuffle
	}

	s := &LeagueService{
		leagues:     make(map[leaguetypes.LeagueID]leaguetypes.League),
		statuses:    make(map[leaguetypes.LeagueID][]leaguetypes.Baker),
		players:     make(map[leaguetypes.PlayerID]leaguetypes.Player),
		bakers:      cfg.Bakers,
		rounds:      cfg.DraftRounds,
		seedPreview: cfg.SeedPreview,
		shuffle:     cfg.Shuffle,
		newID:       cfg.NewID,
		store:       store,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
	}
	if s.newID == nil {
		s.newID = NewInviteCode
	}
	for _, p := range cfg.Players {
		s.players[p.ID] = p
	}
	s.replaceAll([]leaguetypes.League{s.previewLeague()})
	return s
}

func (s *LeagueService) previewLeague() leaguetypes.League {
	return leaguetypes.PreviewLeague(s.shuffle)
}

// replaceAll swaps the whole state. Callers hold mu or own s exclusively.
func (s *LeagueService) replaceAll(leagues []leaguetypes.League) {
	s.leagues = make(map[leaguetypes.LeagueID]leaguetypes.League, len(leagues))
	s.statuses = make(map[leaguetypes.LeagueID][]leaguetypes.Baker, len(leagues))
	s.order = s.order[:0]
	for _, l := range leagues {
		s.put(l)
	}
}

// put stores a league and re-derives its baker statuses from the logs.
func (s *LeagueService) put(league leaguetypes.League) {
	if _, exists := s.leagues[league.ID]; !exists {
		s.order = append(s.order, league.ID)
	}
	s.leagues[league.ID] = league
	s.statuses[league.ID] = weeklylogdomain.DeriveStatuses(s.bakers, league.WeeklyLogs)
}

// snapshot returns every league that should reach the store.
func (s *LeagueService) snapshot() []leaguetypes.League {
	out := make([]leaguetypes.League, 0, len(s.order))
	for _, id := range s.order {
		l := s.leagues[id]
		if l.IsPreview {
			continue
		}
		out = append(out, l.Clone())
	}
	return out
}

// outbound is an event queued by a mutation, published once the new state is
// committed.
type outbound struct {
	topic   string
	payload any
}

// mutate is the single update path for league state. apply gets a private
// copy of the league; if it returns an error the stored league is untouched
// and the error becomes the failure result.
func (s *LeagueService) mutate(
	ctx context.Context,
	operation string,
	leagueID leaguetypes.LeagueID,
	apply func(leaguetypes.League) (leaguetypes.League, []outbound, error),
) (LeagueResult, error) {
	if err := ctx.Err(); err != nil {
		return LeagueResult{}, err
	}

	s.mu.Lock()
	current, ok := s.leagues[leagueID]
	if !ok {
		s.mu.Unlock()
		return s.reject(ctx, operation, fmt.Errorf("%w: %s", ErrLeagueNotFound, leagueID)), nil
	}

	next, events, err := apply(current.Clone())
	if err != nil {
		s.mu.Unlock()
		return s.reject(ctx, operation, err), nil
	}

	s.put(next)
	s.persistLocked(ctx, operation)
	s.mu.Unlock()

	s.publishAll(ctx, events)

	out := next.Clone()
	return results.SuccessResult[*leaguetypes.League, error](&out), nil
}

func (s *LeagueService) reject(ctx context.Context, operation string, err error) LeagueResult {
	s.metrics.RecordRejection(ctx, operation, RejectionReason(err))
	return results.FailureResult[*leaguetypes.League, error](err)
}

// persistLocked writes the current snapshot through to the store. Failures are
// logged and counted; the committed in-memory state stands.
func (s *LeagueService) persistLocked(ctx context.Context, operation string) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, s.snapshot()); err != nil {
		s.metrics.RecordPersistenceFailure(ctx, operation)
		s.logger.ErrorContext(ctx, "Failed to persist league state",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	}
}

func (s *LeagueService) publishAll(ctx context.Context, events []outbound) {
	if s.publisher == nil {
		return
	}
	for _, e := range events {
		payload, err := json.Marshal(e.payload)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to marshal league event",
				slog.String("topic", e.topic),
				slog.String("error", err.Error()),
			)
			continue
		}
		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.SetContext(ctx)
		msg.Metadata.Set("topic", e.topic)
		if err := s.publisher.Publish(e.topic, msg); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish league event",
				slog.String("topic", e.topic),
				slog.String("error", err.Error()),
			)
		}
	}
}

// view returns a private copy of the league.
func (s *LeagueService) view(leagueID leaguetypes.LeagueID) (leaguetypes.League, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leagues[leagueID]
	if !ok {
		return leaguetypes.League{}, false
	}
	return l.Clone(), true
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *LeagueService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				slog.String("identifier", identifier),
				slog.String("error", err.Error()),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.String("error", wrappedErr.Error()),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
			slog.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			slog.String("operation", operationName),
			slog.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}
