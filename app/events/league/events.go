package leagueevents

import (
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// Topics published after a league mutation succeeds.
const (
	LeagueCreatedV1    = "league.created.v1"
	PlayerJoinedV1     = "league.player.joined.v1"
	DraftPickMadeV1    = "league.draft.pick.made.v1"
	DraftCompletedV1   = "league.draft.completed.v1"
	TradeCompletedV1   = "league.roster.trade.completed.v1"
	DropAddCompletedV1 = "league.roster.dropadd.completed.v1"
	WeekSubmittedV1    = "league.week.submitted.v1"
	StandingsUpdatedV1 = "league.standings.updated.v1"
)

// AllTopics lists every topic this service publishes.
var AllTopics = []string{
	LeagueCreatedV1,
	PlayerJoinedV1,
	DraftPickMadeV1,
	DraftCompletedV1,
	TradeCompletedV1,
	DropAddCompletedV1,
	WeekSubmittedV1,
	StandingsUpdatedV1,
}

type LeagueCreatedPayloadV1 struct {
	LeagueID leaguetypes.LeagueID `json:"league_id"`
	Name     string               `json:"name"`
	OwnerID  leaguetypes.PlayerID `json:"owner_id"`
}

type PlayerJoinedPayloadV1 struct {
	LeagueID  leaguetypes.LeagueID   `json:"league_id"`
	PlayerID  leaguetypes.PlayerID   `json:"player_id"`
	PickOrder []leaguetypes.PlayerID `json:"pick_order"`
}

type DraftPickMadePayloadV1 struct {
	LeagueID leaguetypes.LeagueID `json:"league_id"`
	PlayerID leaguetypes.PlayerID `json:"player_id"`
	BakerID  leaguetypes.BakerID  `json:"baker_id"`
	Round    int                  `json:"round"`
}

type DraftCompletedPayloadV1 struct {
	LeagueID leaguetypes.LeagueID `json:"league_id"`
	Teams    []leaguetypes.Team   `json:"teams"`
}

type TradeCompletedPayloadV1 struct {
	LeagueID leaguetypes.LeagueID `json:"league_id"`
	PlayerA  leaguetypes.PlayerID `json:"player_a"`
	BakerA   leaguetypes.BakerID  `json:"baker_a"`
	PlayerB  leaguetypes.PlayerID `json:"player_b"`
	BakerB   leaguetypes.BakerID  `json:"baker_b"`
}

type DropAddCompletedPayloadV1 struct {
	LeagueID leaguetypes.LeagueID `json:"league_id"`
	PlayerID leaguetypes.PlayerID `json:"player_id"`
	Dropped  leaguetypes.BakerID  `json:"dropped"`
	Added    leaguetypes.BakerID  `json:"added"`
}

type WeekSubmittedPayloadV1 struct {
	LeagueID          leaguetypes.LeagueID `json:"league_id"`
	Week              int                  `json:"week"`
	EventCount        int                  `json:"event_count"`
	EliminatedBakerID leaguetypes.BakerID  `json:"eliminated_baker_id,omitempty"`
}

// StandingsRowV1 is one ranked team in a standings update.
type StandingsRowV1 struct {
	Rank       int                  `json:"rank"`
	PlayerID   leaguetypes.PlayerID `json:"player_id"`
	PlayerName string               `json:"player_name"`
	Score      int                  `json:"score"`
}

type StandingsUpdatedPayloadV1 struct {
	LeagueID  leaguetypes.LeagueID `json:"league_id"`
	Trigger   string               `json:"trigger"`
	Standings []StandingsRowV1     `json:"standings"`
}
