package leagueservice

import (
	"context"

	weeklylogdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/weeklylog/domain"
	"github.com/Black-And-White-Club/bakeoff-league/app/shared/results"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// LeagueResult is returned by every mutation. A failure result means the
// league was left unchanged; callers that only care about the silent no-op
// behavior can ignore it.
type LeagueResult = results.OperationResult[*leaguetypes.League, error]

// Store is the persistence collaborator. Save receives every persistable
// league each time.
type Store interface {
	Load(ctx context.Context) ([]leaguetypes.League, error)
	Save(ctx context.Context, leagues []leaguetypes.League) error
}

// Service is the facade the HTTP, MCP and event surfaces call.
type Service interface {
	// Hydrate loads persisted leagues, falling back to the preview league.
	Hydrate(ctx context.Context) error

	CreateLeague(ctx context.Context, name string, ownerID leaguetypes.PlayerID) (LeagueResult, error)
	JoinLeague(ctx context.Context, leagueID leaguetypes.LeagueID, playerID leaguetypes.PlayerID) (LeagueResult, error)
	RegisterPlayer(ctx context.Context, player leaguetypes.Player)

	SubmitPick(ctx context.Context, leagueID leaguetypes.LeagueID, playerID leaguetypes.PlayerID, bakerID leaguetypes.BakerID) (LeagueResult, error)
	Trade(ctx context.Context, leagueID leaguetypes.LeagueID, playerA leaguetypes.PlayerID, bakerA leaguetypes.BakerID, playerB leaguetypes.PlayerID, bakerB leaguetypes.BakerID) (LeagueResult, error)
	DropAndAdd(ctx context.Context, leagueID leaguetypes.LeagueID, playerID leaguetypes.PlayerID, drop, add leaguetypes.BakerID) (LeagueResult, error)
	SubmitWeek(ctx context.Context, leagueID leaguetypes.LeagueID, sub weeklylogdomain.Submission) (LeagueResult, error)

	GetLeague(ctx context.Context, leagueID leaguetypes.LeagueID) (leaguetypes.League, bool)
	ListLeagues(ctx context.Context) []leaguetypes.League
	Player(ctx context.Context, playerID leaguetypes.PlayerID) leaguetypes.Player
	Bakers(ctx context.Context, leagueID leaguetypes.LeagueID) []leaguetypes.Baker
	GetBaker(ctx context.Context, leagueID leaguetypes.LeagueID, bakerID leaguetypes.BakerID) (leaguetypes.Baker, bool)
	FreeAgents(ctx context.Context, leagueID leaguetypes.LeagueID) []leaguetypes.BakerID
	DraftStatus(ctx context.Context, leagueID leaguetypes.LeagueID) (DraftStatusView, bool)

	TeamScore(ctx context.Context, leagueID leaguetypes.LeagueID, playerID leaguetypes.PlayerID) int
	BakerScore(ctx context.Context, leagueID leaguetypes.LeagueID, bakerID leaguetypes.BakerID) int
	Standings(ctx context.Context, leagueID leaguetypes.LeagueID) []StandingView
	BakerBreakdown(ctx context.Context, leagueID leaguetypes.LeagueID, bakerID leaguetypes.BakerID) []WeekPointsView
	CumulativeScores(ctx context.Context, leagueID leaguetypes.LeagueID) []CumulativeView

	ExportWorkbook(ctx context.Context, leagueID leaguetypes.LeagueID) ([]byte, error)
	StandingsChart(ctx context.Context, leagueID leaguetypes.LeagueID) ([]byte, error)
}
