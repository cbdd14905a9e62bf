package leaguemcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	authhandlers "github.com/Black-And-White-Club/bakeoff-league/app/modules/auth/infrastructure/handlers"
	leagueservice "github.com/Black-And-White-Club/bakeoff-league/app/modules/league/application"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "bakeoff-league"
	serverVersion = "1.0.0"
)

// LeagueArgs selects a league.
type LeagueArgs struct {
	LeagueID string `json:"league_id" jsonschema:"League id (the invite code)"`
}

// BakerArgs selects a baker within a league.
type BakerArgs struct {
	LeagueID string `json:"league_id" jsonschema:"League id (the invite code)"`
	BakerID  string `json:"baker_id" jsonschema:"Baker id, e.g. b3"`
}

// PickArgs drafts a baker for the calling player.
type PickArgs struct {
	LeagueID string `json:"league_id" jsonschema:"League id (the invite code)"`
	BakerID  string `json:"baker_id" jsonschema:"Baker to draft"`
}

// NoArgs is the input of tools without parameters.
type NoArgs struct{}

type leagueSummary struct {
	ID        leaguetypes.LeagueID `json:"id"`
	Name      string               `json:"name"`
	OwnerID   leaguetypes.PlayerID `json:"owner_id"`
	Players   int                  `json:"players"`
	Weeks     int                  `json:"weeks_logged"`
	IsPreview bool                 `json:"is_preview,omitempty"`
}

type bakerReport struct {
	Baker  leaguetypes.Baker              `json:"baker"`
	Total  int                            `json:"total"`
	Weeks  []leagueservice.WeekPointsView `json:"weeks"`
	Holder leaguetypes.PlayerID           `json:"holder,omitempty"`
}

// NewServer builds an MCP server whose mutating tools act as player. An empty
// player gets read-only behavior: mutating tools answer with an error.
func NewServer(service leagueservice.Service, player leaguetypes.PlayerID, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "event_types",
		Description: "Scoring table: every weekly event type with its points",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
		type row struct {
			Type        leaguetypes.EventType `json:"type"`
			Points      int                   `json:"points"`
			Description string                `json:"description"`
		}
		out := make([]row, 0, len(leaguetypes.AllEventTypes))
		for _, t := range leaguetypes.AllEventTypes {
			out = append(out, row{Type: t, Points: t.Points(), Description: t.Description()})
		}
		return toolJSON(out)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_leagues",
		Description: "All leagues with member and logged week counts",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
		leagues := service.ListLeagues(ctx)
		out := make([]leagueSummary, 0, len(leagues))
		for _, l := range leagues {
			out = append(out, leagueSummary{
				ID:        l.ID,
				Name:      l.Name,
				OwnerID:   l.OwnerID,
				Players:   len(l.Players),
				Weeks:     len(l.WeeklyLogs),
				IsPreview: l.IsPreview,
			})
		}
		return toolJSON(out)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_league",
		Description: "Full league state: members, teams, weekly logs and draft",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		l, ok := service.GetLeague(ctx, leaguetypes.LeagueID(args.LeagueID))
		if !ok {
			return toolError(unknownLeague(args.LeagueID)), nil, nil
		}
		return toolJSON(l)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "standings",
		Description: "Teams ranked by total points",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		rows := service.Standings(ctx, leaguetypes.LeagueID(args.LeagueID))
		if rows == nil {
			return toolError(unknownLeague(args.LeagueID)), nil, nil
		}
		return toolJSON(rows)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "draft_status",
		Description: "Whose turn it is, the round, and the bakers still available",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		status, ok := service.DraftStatus(ctx, leaguetypes.LeagueID(args.LeagueID))
		if !ok {
			return toolError(unknownLeague(args.LeagueID)), nil, nil
		}
		return toolJSON(status)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "free_agents",
		Description: "Active bakers not on any team",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		id := leaguetypes.LeagueID(args.LeagueID)
		if _, ok := service.GetLeague(ctx, id); !ok {
			return toolError(unknownLeague(args.LeagueID)), nil, nil
		}
		return toolJSON(service.FreeAgents(ctx, id))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "baker_report",
		Description: "A baker's status, holder and points per week",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args BakerArgs) (*mcp.CallToolResult, any, error) {
		id := leaguetypes.LeagueID(args.LeagueID)
		bakerID := leaguetypes.BakerID(args.BakerID)
		l, ok := service.GetLeague(ctx, id)
		if !ok {
			return toolError(unknownLeague(args.LeagueID)), nil, nil
		}
		baker, ok := service.GetBaker(ctx, id, bakerID)
		if !ok {
			return toolError(fmt.Errorf("baker %q not found", args.BakerID)), nil, nil
		}
		report := bakerReport{
			Baker: baker,
			Total: service.BakerScore(ctx, id, bakerID),
			Weeks: service.BakerBreakdown(ctx, id, bakerID),
		}
		for _, t := range l.Teams {
			if t.Holds(bakerID) {
				report.Holder = t.PlayerID
				break
			}
		}
		return toolJSON(report)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "join_league",
		Description: "Join a league as the signed-in player",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LeagueArgs) (*mcp.CallToolResult, any, error) {
		if player == "" {
			return toolError(errSignInRequired), nil, nil
		}
		result, err := service.JoinLeague(ctx, leaguetypes.LeagueID(args.LeagueID), player)
		return mutationResult(ctx, logger, "join_league", result, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_pick",
		Description: "Draft a baker for the signed-in player when it is their turn",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args PickArgs) (*mcp.CallToolResult, any, error) {
		if player == "" {
			return toolError(errSignInRequired), nil, nil
		}
		result, err := service.SubmitPick(ctx, leaguetypes.LeagueID(args.LeagueID), player, leaguetypes.BakerID(args.BakerID))
		return mutationResult(ctx, logger, "submit_pick", result, err)
	})

	return server
}

// NewHTTPHandler serves MCP over streamable HTTP. Each request gets a server
// bound to the player the identity middleware put on its context.
func NewHTTPHandler(service leagueservice.Service, logger *slog.Logger) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		player, _ := authhandlers.PlayerFromContext(r.Context())
		return NewServer(service, player, logger)
	}, &mcp.StreamableHTTPOptions{JSONResponse: true, Stateless: true})
}

var errSignInRequired = errors.New("sign in required: call with a bearer token")

func unknownLeague(id string) error {
	return fmt.Errorf("league %q not found", id)
}

func mutationResult(ctx context.Context, logger *slog.Logger, tool string, result leagueservice.LeagueResult, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		logger.ErrorContext(ctx, "MCP tool failed",
			slog.String("tool", tool),
			slog.String("error", err.Error()),
		)
		return toolError(errors.New("internal error")), nil, nil
	}
	if result.IsFailure() {
		failure := *result.Failure
		return toolError(fmt.Errorf("%s: %w", leagueservice.RejectionReason(failure), failure)), nil, nil
	}
	return toolJSON(*result.Success)
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
