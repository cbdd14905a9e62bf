package leagueservice

import (
	"context"
	"slices"

	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
	weeklylogdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/weeklylog/domain"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// SubmitWeek records or replaces the log for sub.Week. Baker statuses for the
// league are re-derived from the full history as part of the commit.
func (s *LeagueService) SubmitWeek(ctx context.Context, leagueID leaguetypes.LeagueID, sub weeklylogdomain.Submission) (LeagueResult, error) {
	return withTelemetry(s, ctx, "SubmitWeek", string(leagueID), func(ctx context.Context) (LeagueResult, error) {
		return s.mutate(ctx, "SubmitWeek", leagueID, func(l leaguetypes.League) (leaguetypes.League, []outbound, error) {
			next, err := weeklylogdomain.SubmitWeek(l, sub)
			if err != nil {
				return l, nil, err
			}
			return next, []outbound{{
				topic: leagueevents.WeekSubmittedV1,
				payload: leagueevents.WeekSubmittedPayloadV1{
					LeagueID:          next.ID,
					Week:              sub.Week,
					EventCount:        len(sub.Events),
					EliminatedBakerID: sub.EliminatedBakerID,
				},
			}}, nil
		})
	})
}

// Bakers returns the season's bakers with status derived from the league's
// logs. Unknown leagues yield nil.
func (s *LeagueService) Bakers(_ context.Context, leagueID leaguetypes.LeagueID) []leaguetypes.Baker {
	s.mu.Lock()
	defer s.mu.Unlock()
	statuses, ok := s.statuses[leagueID]
	if !ok {
		return nil
	}
	return slices.Clone(statuses)
}

// GetBaker looks up one baker within a league.
func (s *LeagueService) GetBaker(ctx context.Context, leagueID leaguetypes.LeagueID, bakerID leaguetypes.BakerID) (leaguetypes.Baker, bool) {
	for _, b := range s.Bakers(ctx, leagueID) {
		if b.ID == bakerID {
			return b, true
		}
	}
	return leaguetypes.Baker{}, false
}
