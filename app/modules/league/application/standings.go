package leagueservice

import (
	"context"

	scoringdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/scoring/domain"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// StandingView is a standings row with the player's display name resolved.
type StandingView struct {
	Rank       int                   `json:"rank"`
	PlayerID   leaguetypes.PlayerID  `json:"playerId"`
	PlayerName string                `json:"playerName"`
	BakerIDs   []leaguetypes.BakerID `json:"bakerIds"`
	Score      int                   `json:"score"`
}

// WeekPointsView is one week of a baker's scoring history.
type WeekPointsView = scoringdomain.WeekPoints

// CumulativeView is a team's running total per logged week.
type CumulativeView struct {
	PlayerID   leaguetypes.PlayerID `json:"playerId"`
	PlayerName string               `json:"playerName"`
	Weeks      []int                `json:"weeks"`
	Totals     []int                `json:"totals"`
}

// Standings ranks the league's teams. Scores are always recomputed from the
// logs. Unknown leagues yield nil.
func (s *LeagueService) Standings(_ context.Context, leagueID leaguetypes.LeagueID) []StandingView {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leagues[leagueID]
	if !ok {
		return nil
	}

	rows := scoringdomain.Standings(l)
	out := make([]StandingView, len(rows))
	for i, r := range rows {
		out[i] = StandingView{
			Rank:       r.Rank,
			PlayerID:   r.PlayerID,
			PlayerName: s.playerLocked(r.PlayerID).Name,
			BakerIDs:   r.BakerIDs,
			Score:      r.Score,
		}
	}
	return out
}

// TeamScore is the player's total in the league, 0 if either is unknown.
func (s *LeagueService) TeamScore(_ context.Context, leagueID leaguetypes.LeagueID, playerID leaguetypes.PlayerID) int {
	l, ok := s.view(leagueID)
	if !ok {
		return 0
	}
	team, _ := l.TeamFor(playerID)
	return scoringdomain.ScoreOfTeam(team, l.WeeklyLogs)
}

// BakerScore is the baker's total in the league, 0 if either is unknown.
func (s *LeagueService) BakerScore(_ context.Context, leagueID leaguetypes.LeagueID, bakerID leaguetypes.BakerID) int {
	l, ok := s.view(leagueID)
	if !ok {
		return 0
	}
	return scoringdomain.ScoreOfBaker(bakerID, l.WeeklyLogs)
}

func (s *LeagueService) BakerBreakdown(_ context.Context, leagueID leaguetypes.LeagueID, bakerID leaguetypes.BakerID) []WeekPointsView {
	l, ok := s.view(leagueID)
	if !ok {
		return nil
	}
	return scoringdomain.BakerBreakdown(bakerID, l.WeeklyLogs)
}

func (s *LeagueService) CumulativeScores(_ context.Context, leagueID leaguetypes.LeagueID) []CumulativeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.leagues[leagueID]
	if !ok {
		return nil
	}

	series := scoringdomain.CumulativeScores(l)
	out := make([]CumulativeView, len(series))
	for i, c := range series {
		out[i] = CumulativeView{
			PlayerID:   c.PlayerID,
			PlayerName: s.playerLocked(c.PlayerID).Name,
			Weeks:      c.Weeks,
			Totals:     c.Totals,
		}
	}
	return out
}
