package leagueservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	leagueevents "github.com/Black-And-White-Club/bakeoff-league/app/events/league"
	draftdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/draft/domain"
	"github.com/Black-And-White-Club/bakeoff-league/app/shared/results"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// Hydrate replaces in-memory state with the store's contents. A failed load,
// an empty store or a malformed record all fall back to the preview league.
func (s *LeagueService) Hydrate(ctx context.Context) error {
	_, err := withTelemetry(s, ctx, "Hydrate", "store", func(ctx context.Context) (results.OperationResult[int, error], error) {
		if err := ctx.Err(); err != nil {
			return results.OperationResult[int, error]{}, err
		}

		leagues, reason := s.loadLeagues(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()

		if reason != "" {
			s.logger.WarnContext(ctx, "Falling back to preview league",
				slog.String("reason", reason),
			)
			s.replaceAll([]leaguetypes.League{s.previewLeague()})
			return results.SuccessResult[int, error](0), nil
		}

		if s.seedPreview && !containsLeague(leagues, leaguetypes.PreviewLeagueID) {
			leagues = append([]leaguetypes.League{s.previewLeague()}, leagues...)
		}
		s.replaceAll(leagues)
		return results.SuccessResult[int, error](len(leagues)), nil
	})
	return err
}

// loadLeagues returns the stored leagues, or a non-empty reason when they
// cannot be used.
func (s *LeagueService) loadLeagues(ctx context.Context) ([]leaguetypes.League, string) {
	if s.store == nil {
		return nil, "no store configured"
	}
	leagues, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Sprintf("load failed: %v", err)
	}
	if len(leagues) == 0 {
		return nil, "store is empty"
	}
	seen := make(map[leaguetypes.LeagueID]bool, len(leagues))
	for _, l := range leagues {
		if l.ID == "" {
			return nil, "stored league without id"
		}
		if seen[l.ID] {
			return nil, fmt.Sprintf("duplicate stored league %s", l.ID)
		}
		seen[l.ID] = true
	}
	return leagues, ""
}

func containsLeague(leagues []leaguetypes.League, id leaguetypes.LeagueID) bool {
	for _, l := range leagues {
		if l.ID == id {
			return true
		}
	}
	return false
}

// CreateLeague starts a league with the owner as its only member and a fresh
// draft over the full baker pool.
func (s *LeagueService) CreateLeague(ctx context.Context, name string, ownerID leaguetypes.PlayerID) (LeagueResult, error) {
	name = strings.TrimSpace(name)
	return withTelemetry(s, ctx, "CreateLeague", string(ownerID), func(ctx context.Context) (LeagueResult, error) {
		if err := ctx.Err(); err != nil {
			return LeagueResult{}, err
		}
		if name == "" {
			return s.reject(ctx, "CreateLeague", ErrLeagueNameRequired), nil
		}
		if ownerID == "" {
			return s.reject(ctx, "CreateLeague", ErrPlayerRequired), nil
		}

		s.mu.Lock()
		id, err := s.allocateIDLocked()
		if err != nil {
			s.mu.Unlock()
			return LeagueResult{}, err
		}

		players := []leaguetypes.PlayerID{ownerID}
		league := leaguetypes.League{
			ID:      id,
			Name:    name,
			OwnerID: ownerID,
			Players: players,
			Teams: []leaguetypes.Team{
				{PlayerID: ownerID, BakerIDs: []leaguetypes.BakerID{}},
			},
			WeeklyLogs: []leaguetypes.WeeklyLog{},
			DraftState: draftdomain.NewDraftState(players, leaguetypes.BakerIDs(s.bakers), s.shuffle),
		}
		s.put(league)
		s.persistLocked(ctx, "CreateLeague")
		s.mu.Unlock()

		s.publishAll(ctx, []outbound{{
			topic: leagueevents.LeagueCreatedV1,
			payload: leagueevents.LeagueCreatedPayloadV1{
				LeagueID: id,
				Name:     name,
				OwnerID:  ownerID,
			},
		}})

		out := league.Clone()
		return results.SuccessResult[*leaguetypes.League, error](&out), nil
	})
}

// JoinLeague adds the player with an empty team and re-randomizes the whole
// pick order, mid-draft included. Joining twice is a rejected no-op.
func (s *LeagueService) JoinLeague(ctx context.Context, leagueID leaguetypes.LeagueID, playerID leaguetypes.PlayerID) (LeagueResult, error) {
	return withTelemetry(s, ctx, "JoinLeague", string(leagueID), func(ctx context.Context) (LeagueResult, error) {
		return s.mutate(ctx, "JoinLeague", leagueID, func(l leaguetypes.League) (leaguetypes.League, []outbound, error) {
			if playerID == "" {
				return l, nil, ErrPlayerRequired
			}
			if l.HasPlayer(playerID) {
				return l, nil, fmt.Errorf("%w: %s", ErrAlreadyMember, playerID)
			}
			l.Players = append(l.Players, playerID)
			if l.TeamIndex(playerID) < 0 {
				l.Teams = append(l.Teams, leaguetypes.Team{PlayerID: playerID, BakerIDs: []leaguetypes.BakerID{}})
			}
			l = draftdomain.ReshufflePickOrder(l, s.shuffle)

			return l, []outbound{{
				topic: leagueevents.PlayerJoinedV1,
				payload: leagueevents.PlayerJoinedPayloadV1{
					LeagueID:  l.ID,
					PlayerID:  playerID,
					PickOrder: l.DraftState.PickOrder,
				},
			}}, nil
		})
	})
}

// RegisterPlayer records the display name the identity provider supplied.
func (s *LeagueService) RegisterPlayer(_ context.Context, player leaguetypes.Player) {
	if player.ID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.players[player.ID]; ok && player.Name == "" {
		player.Name = existing.Name
	}
	s.players[player.ID] = player
}

// Player resolves a display name, echoing the id for unknown players.
func (s *LeagueService) Player(_ context.Context, playerID leaguetypes.PlayerID) leaguetypes.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playerLocked(playerID)
}

func (s *LeagueService) playerLocked(playerID leaguetypes.PlayerID) leaguetypes.Player {
	if p, ok := s.players[playerID]; ok && p.Name != "" {
		return p
	}
	return leaguetypes.Player{ID: playerID, Name: string(playerID)}
}

// GetLeague returns a copy of the league, or false when it does not exist.
func (s *LeagueService) GetLeague(_ context.Context, leagueID leaguetypes.LeagueID) (leaguetypes.League, bool) {
	return s.view(leagueID)
}

// ListLeagues returns copies of every league in creation order.
func (s *LeagueService) ListLeagues(_ context.Context) []leaguetypes.League {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]leaguetypes.League, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.leagues[id].Clone())
	}
	return out
}
