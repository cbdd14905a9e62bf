package leagueservice

import (
	"context"

	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
	rosterdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/roster/domain"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// Trade swaps one baker between two teams.
func (s *LeagueService) Trade(
	ctx context.Context,
	leagueID leaguetypes.LeagueID,
	playerA leaguetypes.PlayerID,
	bakerA leaguetypes.BakerID,
	playerB leaguetypes.PlayerID,
	bakerB leaguetypes.BakerID,
) (LeagueResult, error) {
	return withTelemetry(s, ctx, "Trade", string(leagueID), func(ctx context.Context) (LeagueResult, error) {
		return s.mutate(ctx, "Trade", leagueID, func(l leaguetypes.League) (leaguetypes.League, []outbound, error) {
			next, err := rosterdomain.Trade(l, playerA, bakerA, playerB, bakerB)
			if err != nil {
				return l, nil, err
			}
			return next, []outbound{{
				topic: leagueevents.TradeCompletedV1,
				payload: leagueevents.TradeCompletedPayloadV1{
					LeagueID: next.ID,
					PlayerA:  playerA,
					BakerA:   bakerA,
					PlayerB:  playerB,
					BakerB:   bakerB,
				},
			}}, nil
		})
	})
}

// DropAndAdd replaces one baker on a team with an unclaimed one.
func (s *LeagueService) DropAndAdd(
	ctx context.Context,
	leagueID leaguetypes.LeagueID,
	playerID leaguetypes.PlayerID,
	drop, add leaguetypes.BakerID,
) (LeagueResult, error) {
	return withTelemetry(s, ctx, "DropAndAdd", string(leagueID), func(ctx context.Context) (LeagueResult, error) {
		return s.mutate(ctx, "DropAndAdd", leagueID, func(l leaguetypes.League) (leaguetypes.League, []outbound, error) {
			next, err := rosterdomain.DropAndAdd(l, playerID, drop, add)
			if err != nil {
				return l, nil, err
			}
			return next, []outbound{{
				topic: leagueevents.DropAddCompletedV1,
				payload: leagueevents.DropAddCompletedPayloadV1{
					LeagueID: next.ID,
					PlayerID: playerID,
					Dropped:  drop,
					Added:    add,
				},
			}}, nil
		})
	})
}

// FreeAgents lists season bakers no team in the league holds.
func (s *LeagueService) FreeAgents(_ context.Context, leagueID leaguetypes.LeagueID) []leaguetypes.BakerID {
	l, ok := s.view(leagueID)
	if !ok {
		return nil
	}
	return rosterdomain.FreeAgents(l, leaguetypes.BakerIDs(s.bakers))
}
