package scoringdomain

import (
	"cmp"
	"slices"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// ScoreOfBaker sums the points of every event credited to the baker across
// all logs. Unknown bakers score 0. Elimination never zeroes earned points.
func ScoreOfBaker(bakerID leaguetypes.BakerID, logs []leaguetypes.WeeklyLog) int {
	score := 0
	for _, log := range logs {
		for _, event := range log.Events {
			if event.BakerID == bakerID {
				score += event.Type.Points()
			}
		}
	}
	return score
}

// ScoreOfTeam sums ScoreOfBaker over the team's roster.
func ScoreOfTeam(team leaguetypes.Team, logs []leaguetypes.WeeklyLog) int {
	total := 0
	for _, bakerID := range team.BakerIDs {
		total += ScoreOfBaker(bakerID, logs)
	}
	return total
}

// Standing is one row of a league table.
type Standing struct {
	Rank     int                   `json:"rank"`
	PlayerID leaguetypes.PlayerID  `json:"playerId"`
	BakerIDs []leaguetypes.BakerID `json:"bakerIds"`
	Score    int                   `json:"score"`
}

// Standings ranks the league's players by team score, highest first. Ties
// keep membership order and share a rank.
func Standings(league leaguetypes.League) []Standing {
	rows := make([]Standing, 0, len(league.Players))
	for _, playerID := range league.Players {
		row := Standing{PlayerID: playerID, BakerIDs: []leaguetypes.BakerID{}}
		if team, ok := league.TeamFor(playerID); ok {
			row.BakerIDs = team.BakerIDs
			row.Score = ScoreOfTeam(team, league.WeeklyLogs)
		}
		rows = append(rows, row)
	}

	slices.SortStableFunc(rows, func(a, b Standing) int {
		return cmp.Compare(b.Score, a.Score)
	})

	for i := range rows {
		if i > 0 && rows[i].Score == rows[i-1].Score {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}
	return rows
}

// WeekPoints is a baker's haul for a single week.
type WeekPoints struct {
	Week   int                     `json:"week"`
	Points int                     `json:"points"`
	Events []leaguetypes.EventType `json:"events"`
}

// BakerBreakdown lists the baker's points week by week, in log order. Weeks
// without events for the baker are included with zero points.
func BakerBreakdown(bakerID leaguetypes.BakerID, logs []leaguetypes.WeeklyLog) []WeekPoints {
	out := make([]WeekPoints, 0, len(logs))
	for _, log := range logs {
		wp := WeekPoints{Week: log.Week, Events: []leaguetypes.EventType{}}
		for _, event := range log.Events {
			if event.BakerID == bakerID {
				wp.Points += event.Type.Points()
				wp.Events = append(wp.Events, event.Type)
			}
		}
		out = append(out, wp)
	}
	return out
}

// CumulativeSeries is a team's running total after each logged week.
type CumulativeSeries struct {
	PlayerID leaguetypes.PlayerID `json:"playerId"`
	Weeks    []int                `json:"weeks"`
	Totals   []int                `json:"totals"`
}

// CumulativeScores builds one running-total series per league player. Logs
// are expected sorted by week, which the weekly log manager guarantees.
func CumulativeScores(league leaguetypes.League) []CumulativeSeries {
	out := make([]CumulativeSeries, 0, len(league.Players))
	for _, playerID := range league.Players {
		team, _ := league.TeamFor(playerID)
		series := CumulativeSeries{
			PlayerID: playerID,
			Weeks:    make([]int, 0, len(league.WeeklyLogs)),
			Totals:   make([]int, 0, len(league.WeeklyLogs)),
		}
		running := 0
		for _, log := range league.WeeklyLogs {
			running += ScoreOfTeam(team, []leaguetypes.WeeklyLog{log})
			series.Weeks = append(series.Weeks, log.Week)
			series.Totals = append(series.Totals, running)
		}
		out = append(out, series)
	}
	return out
}
