package leaguehandlers

import (
	"context"

	leagueservice "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/application"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// FakeStandingsSource records which leagues were asked for.
type FakeStandingsSource struct {
	trace []leaguetypes.LeagueID

	StandingsFunc func(ctx context.Context, leagueID leaguetypes.LeagueID) []leagueservice.StandingView
}

func (f *FakeStandingsSource) Standings(ctx context.Context, leagueID leaguetypes.LeagueID) []leagueservice.StandingView {
	f.trace = append(f.trace, leagueID)
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx, leagueID)
	}
	return nil
}

var _ StandingsSource = (*FakeStandingsSource)(nil)
