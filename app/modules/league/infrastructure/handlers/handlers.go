package leaguehandlers

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/bakeoff-league/app/eventbus"
	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
	leagueservice "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/application"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"go.opentelemetry.io/otel/trace"
)

// StandingsSource is the part of the league service the event handlers need.
type StandingsSource interface {
	Standings(ctx context.Context, leagueID leaguetypes.LeagueID) []leagueservice.StandingView
}

// LeagueHandlers implements the Handlers interface.
type LeagueHandlers struct {
	service StandingsSource
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewLeagueHandlers creates a new LeagueHandlers instance.
func NewLeagueHandlers(service StandingsSource, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &LeagueHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (h *LeagueHandlers) HandleDraftCompleted(ctx context.Context, payload *leagueevents.DraftCompletedPayloadV1) ([]eventbus.Result, error) {
	return h.standingsUpdated(ctx, "LeagueHandlers.HandleDraftCompleted", payload.LeagueID, leagueevents.DraftCompletedV1)
}

func (h *LeagueHandlers) HandleTradeCompleted(ctx context.Context, payload *leagueevents.TradeCompletedPayloadV1) ([]eventbus.Result, error) {
	return h.standingsUpdated(ctx, "LeagueHandlers.HandleTradeCompleted", payload.LeagueID, leagueevents.TradeCompletedV1)
}

func (h *LeagueHandlers) HandleDropAddCompleted(ctx context.Context, payload *leagueevents.DropAddCompletedPayloadV1) ([]eventbus.Result, error) {
	return h.standingsUpdated(ctx, "LeagueHandlers.HandleDropAddCompleted", payload.LeagueID, leagueevents.DropAddCompletedV1)
}

// HandleWeekSubmitted republishes standings after a week changes the scores.
func (h *LeagueHandlers) HandleWeekSubmitted(ctx context.Context, payload *leagueevents.WeekSubmittedPayloadV1) ([]eventbus.Result, error) {
	return h.standingsUpdated(ctx, "LeagueHandlers.HandleWeekSubmitted", payload.LeagueID, leagueevents.WeekSubmittedV1)
}

// standingsUpdated recomputes standings for the league. A league that no
// longer exists produces no event.
func (h *LeagueHandlers) standingsUpdated(ctx context.Context, spanName string, leagueID leaguetypes.LeagueID, trigger string) ([]eventbus.Result, error) {
	ctx, span := h.tracer.Start(ctx, spanName)
	defer span.End()

	rows := h.service.Standings(ctx, leagueID)
	if rows == nil {
		h.logger.WarnContext(ctx, "Standings requested for unknown league",
			slog.String("league_id", string(leagueID)),
			slog.String("trigger", trigger),
		)
		return nil, nil
	}

	standings := make([]leagueevents.StandingsRowV1, len(rows))
	for i, r := range rows {
		standings[i] = leagueevents.StandingsRowV1{
			Rank:       r.Rank,
			PlayerID:   r.PlayerID,
			PlayerName: r.PlayerName,
			Score:      r.Score,
		}
	}

	h.logger.InfoContext(ctx, "Standings recomputed",
		slog.String("league_id", string(leagueID)),
		slog.String("trigger", trigger),
		slog.Int("teams", len(standings)),
	)

	return []eventbus.Result{{
		Topic: leagueevents.StandingsUpdatedV1,
		Payload: &leagueevents.StandingsUpdatedPayloadV1{
			LeagueID:  leagueID,
			Trigger:   trigger,
			Standings: standings,
		},
		Metadata: map[string]string{"league_id": string(leagueID)},
	}}, nil
}
