package rosterdomain

import (
	"errors"
	"fmt"
	"slices"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

var (
	ErrTeamNotFound   = errors.New("player has no team in this league")
	ErrBakerNotOwned  = errors.New("team does not hold the named baker")
	ErrBakerClaimed   = errors.New("baker is already on a team in this league")
	ErrSelfTrade      = errors.New("a player cannot trade with themselves")
	ErrDuplicateClaim = errors.New("baker is rostered by more than one team")
)

// Trade swaps bakerA (held by playerA) for bakerB (held by playerB). Both
// moves happen or neither does; the input league is never modified.
func Trade(
	league leaguetypes.League,
	playerA leaguetypes.PlayerID,
	bakerA leaguetypes.BakerID,
	playerB leaguetypes.PlayerID,
	bakerB leaguetypes.BakerID,
) (leaguetypes.League, error) {
	if playerA == playerB {
		return league, ErrSelfTrade
	}
	idxA := league.TeamIndex(playerA)
	idxB := league.TeamIndex(playerB)
	if idxA < 0 || idxB < 0 {
		return league, ErrTeamNotFound
	}
	if !league.Teams[idxA].Holds(bakerA) {
		return league, fmt.Errorf("%w: %s does not hold %s", ErrBakerNotOwned, playerA, bakerA)
	}
	if !league.Teams[idxB].Holds(bakerB) {
		return league, fmt.Errorf("%w: %s does not hold %s", ErrBakerNotOwned, playerB, bakerB)
	}

	teamA := league.Teams[idxA].Clone()
	teamB := league.Teams[idxB].Clone()
	teamA.BakerIDs = append(without(teamA.BakerIDs, bakerA), bakerB)
	teamB.BakerIDs = append(without(teamB.BakerIDs, bakerB), bakerA)

	next := league.Clone()
	next.Teams[idxA] = teamA
	next.Teams[idxB] = teamB
	return next, nil
}

// DropAndAdd releases drop from the player's team and signs add, which must
// not be rostered anywhere in the league, the player's own team included.
func DropAndAdd(
	league leaguetypes.League,
	playerID leaguetypes.PlayerID,
	drop leaguetypes.BakerID,
	add leaguetypes.BakerID,
) (leaguetypes.League, error) {
	if owner, claimed := league.OwnerOf(add); claimed {
		return league, fmt.Errorf("%w: %s is on %s's team", ErrBakerClaimed, add, owner)
	}
	idx := league.TeamIndex(playerID)
	if idx < 0 {
		return league, ErrTeamNotFound
	}
	if !league.Teams[idx].Holds(drop) {
		return league, fmt.Errorf("%w: %s does not hold %s", ErrBakerNotOwned, playerID, drop)
	}

	team := league.Teams[idx].Clone()
	team.BakerIDs = append(without(team.BakerIDs, drop), add)

	next := league.Clone()
	next.Teams[idx] = team
	return next, nil
}

// FreeAgents lists the given bakers that no team in the league rosters.
func FreeAgents(league leaguetypes.League, pool []leaguetypes.BakerID) []leaguetypes.BakerID {
	claimed := league.ClaimedBakers()
	out := make([]leaguetypes.BakerID, 0, len(pool))
	for _, id := range pool {
		if _, ok := claimed[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// ValidateUniqueness checks that every baker appears on at most one roster.
func ValidateUniqueness(league leaguetypes.League) error {
	seen := make(map[leaguetypes.BakerID]leaguetypes.PlayerID)
	for _, team := range league.Teams {
		for _, id := range team.BakerIDs {
			if other, ok := seen[id]; ok {
				return fmt.Errorf("%w: %s held by %s and %s", ErrDuplicateClaim, id, other, team.PlayerID)
			}
			seen[id] = team.PlayerID
		}
	}
	return nil
}

func without(ids []leaguetypes.BakerID, drop leaguetypes.BakerID) []leaguetypes.BakerID {
	return slices.DeleteFunc(ids, func(id leaguetypes.BakerID) bool { return id == drop })
}
