package draftdomain

import (
	"errors"
	"math/rand/v2"
	"slices"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

var (
	ErrDraftComplete    = errors.New("draft is already complete")
	ErrNotYourTurn      = errors.New("it is not this player's turn to pick")
	ErrBakerUnavailable = errors.New("baker is not available in the draft pool")
	ErrTeamNotFound     = errors.New("player has no team in this league")
)

// Phase is the externally visible draft state.
type Phase string

const (
	PhaseAwaitingPick Phase = "awaiting_pick"
	PhaseComplete     Phase = "complete"
)

// Shuffler returns a permutation of the given ids. Implementations must not
// modify the input slice.
type Shuffler func([]leaguetypes.PlayerID) []leaguetypes.PlayerID

// RandomShuffle permutes ids using the global random source.
func RandomShuffle(ids []leaguetypes.PlayerID) []leaguetypes.PlayerID {
	out := slices.Clone(ids)
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SeededShuffler returns a deterministic Shuffler, used by tests and replays.
func SeededShuffler(seed uint64) Shuffler {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(ids []leaguetypes.PlayerID) []leaguetypes.PlayerID {
		out := slices.Clone(ids)
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
}

// NewDraftState starts a draft in round 1 over the full baker pool.
func NewDraftState(players []leaguetypes.PlayerID, bakers []leaguetypes.BakerID, shuffle Shuffler) leaguetypes.DraftState {
	return leaguetypes.DraftState{
		Round:              1,
		CurrentPlayerIndex: 0,
		PickOrder:          shuffle(players),
		AvailableBakers:    slices.Clone(bakers),
		IsDraftComplete:    false,
	}
}

// PhaseOf reports whether the draft still takes picks.
func PhaseOf(state leaguetypes.DraftState, rounds int) Phase {
	if state.IsDraftComplete || state.Round > rounds {
		return PhaseComplete
	}
	return PhaseAwaitingPick
}

// CurrentPicker returns the player whose turn it is.
func CurrentPicker(state leaguetypes.DraftState) (leaguetypes.PlayerID, bool) {
	if state.IsDraftComplete || state.CurrentPlayerIndex < 0 || state.CurrentPlayerIndex >= len(state.PickOrder) {
		return "", false
	}
	return state.PickOrder[state.CurrentPlayerIndex], true
}

// SubmitPick applies one draft pick and returns the updated league. On any
// rejection the input league is returned untouched together with the reason.
//
// Each completed round re-randomizes the pick order rather than reversing it.
func SubmitPick(
	league leaguetypes.League,
	playerID leaguetypes.PlayerID,
	bakerID leaguetypes.BakerID,
	rounds int,
	shuffle Shuffler,
) (leaguetypes.League, error) {
	state := league.DraftState
	if state.IsDraftComplete {
		return league, ErrDraftComplete
	}
	current, ok := CurrentPicker(state)
	if !ok || current != playerID {
		return league, ErrNotYourTurn
	}
	if !slices.Contains(state.AvailableBakers, bakerID) {
		return league, ErrBakerUnavailable
	}
	teamIdx := league.TeamIndex(playerID)
	if teamIdx < 0 {
		return league, ErrTeamNotFound
	}

	next := league.Clone()
	next.Teams[teamIdx].BakerIDs = append(next.Teams[teamIdx].BakerIDs, bakerID)

	draft := next.DraftState
	draft.AvailableBakers = slices.DeleteFunc(draft.AvailableBakers, func(id leaguetypes.BakerID) bool {
		return id == bakerID
	})

	nextIndex := draft.CurrentPlayerIndex + 1
	if nextIndex >= len(draft.PickOrder) {
		draft.Round++
		if draft.Round > rounds {
			draft.IsDraftComplete = true
			next.DraftState = draft
			return next, nil
		}
		nextIndex = 0
		draft.PickOrder = shuffle(draft.PickOrder)
	}
	draft.CurrentPlayerIndex = nextIndex
	next.DraftState = draft

	return next, nil
}

// ReshufflePickOrder re-randomizes the pick order over the league's current
// players. It runs whenever membership changes, even mid-round; the current
// index is kept, so whose turn it is may change.
func ReshufflePickOrder(league leaguetypes.League, shuffle Shuffler) leaguetypes.League {
	next := league.Clone()
	next.DraftState.PickOrder = shuffle(next.Players)
	return next
}

// TotalPicks is the number of successful picks a full draft takes.
func TotalPicks(rounds, players int) int {
	return rounds * players
}
