package leagueservice

import (
	"context"

	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
	draftdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/draft/domain"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// DraftStatusView summarizes the draft for display.
type DraftStatusView struct {
	LeagueID        leaguetypes.LeagueID   `json:"leagueId"`
	Phase           draftdomain.Phase      `json:"phase"`
	Round           int                    `json:"round"`
	TotalRounds     int                    `json:"totalRounds"`
	CurrentPlayerID leaguetypes.PlayerID   `json:"currentPlayerId,omitempty"`
	PickOrder       []leaguetypes.PlayerID `json:"pickOrder"`
	AvailableBakers []leaguetypes.BakerID  `json:"availableBakers"`
	PicksMade       int                    `json:"picksMade"`
	TotalPicks      int                    `json:"totalPicks"`
}

// SubmitPick drafts bakerID onto playerID's team if it is their turn.
func (s *LeagueService) SubmitPick(ctx context.Context, leagueID leaguetypes.LeagueID, playerID leaguetypes.PlayerID, bakerID leaguetypes.BakerID) (LeagueResult, error) {
	return withTelemetry(s, ctx, "SubmitPick", string(leagueID), func(ctx context.Context) (LeagueResult, error) {
		return s.mutate(ctx, "SubmitPick", leagueID, func(l leaguetypes.League) (leaguetypes.League, []outbound, error) {
			round := l.DraftState.Round
			next, err := draftdomain.SubmitPick(l, playerID, bakerID, s.rounds, s.shuffle)
			if err != nil {
				return l, nil, err
			}

			events := []outbound{{
				topic: leagueevents.DraftPickMadeV1,
				payload: leagueevents.DraftPickMadePayloadV1{
					LeagueID: next.ID,
					PlayerID: playerID,
					BakerID:  bakerID,
					Round:    round,
				},
			}}
			if next.DraftState.IsDraftComplete {
				events = append(events, outbound{
					topic: leagueevents.DraftCompletedV1,
					payload: leagueevents.DraftCompletedPayloadV1{
						LeagueID: next.ID,
						Teams:    next.Teams,
					},
				})
			}
			return next, events, nil
		})
	})
}

// DraftStatus reports whose turn it is and how far the draft has come.
func (s *LeagueService) DraftStatus(_ context.Context, leagueID leaguetypes.LeagueID) (DraftStatusView, bool) {
	l, ok := s.view(leagueID)
	if !ok {
		return DraftStatusView{}, false
	}

	picks := 0
	for _, t := range l.Teams {
		picks += len(t.BakerIDs)
	}
	current, _ := draftdomain.CurrentPicker(l.DraftState)

	return DraftStatusView{
		LeagueID:        l.ID,
		Phase:           draftdomain.PhaseOf(l.DraftState, s.rounds),
		Round:           l.DraftState.Round,
		TotalRounds:     s.rounds,
		CurrentPlayerID: current,
		PickOrder:       l.DraftState.PickOrder,
		AvailableBakers: l.DraftState.AvailableBakers,
		PicksMade:       picks,
		TotalPicks:      draftdomain.TotalPicks(s.rounds, len(l.Players)),
	}, true
}
