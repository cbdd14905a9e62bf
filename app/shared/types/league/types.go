package leaguetypes

import "slices"

// BakerID identifies a contestant.
type BakerID string

// PlayerID identifies a participant. It is the opaque identifier handed to us
// by the identity provider.
type PlayerID string

// LeagueID identifies a league and doubles as its invite code.
type LeagueID string

// BakerStatus is derived from the weekly logs, never set directly.
type BakerStatus string

const (
	BakerStatusActive     BakerStatus = "active"
	BakerStatusEliminated BakerStatus = "eliminated"
)

// Baker is a contestant in the underlying competition.
type Baker struct {
	ID       BakerID     `json:"id"`
	Name     string      `json:"name"`
	ImageURL string      `json:"image"`
	Status   BakerStatus `json:"status"`
}

// Player is a participant in a fantasy league.
type Player struct {
	ID     PlayerID `json:"id"`
	Name   string   `json:"name"`
	IsUser bool     `json:"isUser,omitempty"`
}

// Team is one player's roster within one league.
type Team struct {
	PlayerID PlayerID  `json:"playerId"`
	BakerIDs []BakerID `json:"bakerIds"`
}

// Holds reports whether the team currently rosters the baker.
func (t Team) Holds(bakerID BakerID) bool {
	return slices.Contains(t.BakerIDs, bakerID)
}

// Clone returns a deep copy of the team.
func (t Team) Clone() Team {
	return Team{PlayerID: t.PlayerID, BakerIDs: cloneSlice(t.BakerIDs)}
}

// WeeklyEvent is a scored occurrence attributed to one baker in one week.
type WeeklyEvent struct {
	BakerID BakerID   `json:"bakerId"`
	Week    int       `json:"week"`
	Type    EventType `json:"type"`
}

// WeeklyLog is the full record of a week. EliminatedBakerID is empty when
// nobody left that week.
type WeeklyLog struct {
	Week              int           `json:"week"`
	Summary           string        `json:"summary,omitempty"`
	Events            []WeeklyEvent `json:"events"`
	EliminatedBakerID BakerID       `json:"eliminatedBakerId"`
}

// Clone returns a deep copy of the log.
func (l WeeklyLog) Clone() WeeklyLog {
	out := l
	out.Events = cloneSlice(l.Events)
	return out
}

// DraftState tracks the turn-based draft.
type DraftState struct {
	Round              int        `json:"round"`
	CurrentPlayerIndex int        `json:"currentPlayerIndex"`
	PickOrder          []PlayerID `json:"pickOrder"`
	AvailableBakers    []BakerID  `json:"availableBakers"`
	IsDraftComplete    bool       `json:"isDraftComplete"`
}

// Clone returns a deep copy of the draft state.
func (d DraftState) Clone() DraftState {
	out := d
	out.PickOrder = cloneSlice(d.PickOrder)
	out.AvailableBakers = cloneSlice(d.AvailableBakers)
	return out
}

// League is an isolated instance of the fantasy game.
type League struct {
	ID         LeagueID    `json:"id"`
	Name       string      `json:"name"`
	OwnerID    PlayerID    `json:"ownerId"`
	Players    []PlayerID  `json:"players"`
	Teams      []Team      `json:"teams"`
	WeeklyLogs []WeeklyLog `json:"weeklyLogs"`
	DraftState DraftState  `json:"draftState"`
	IsPreview  bool        `json:"isPreview,omitempty"`
}

// Clone returns a deep copy so mutations can be staged without touching the
// original.
func (l League) Clone() League {
	out := l
	out.Players = cloneSlice(l.Players)
	if l.Teams != nil {
		out.Teams = make([]Team, len(l.Teams))
		for i, t := range l.Teams {
			out.Teams[i] = t.Clone()
		}
	}
	if l.WeeklyLogs != nil {
		out.WeeklyLogs = make([]WeeklyLog, len(l.WeeklyLogs))
		for i, w := range l.WeeklyLogs {
			out.WeeklyLogs[i] = w.Clone()
		}
	}
	out.DraftState = l.DraftState.Clone()
	return out
}

// HasPlayer reports league membership.
func (l League) HasPlayer(playerID PlayerID) bool {
	return slices.Contains(l.Players, playerID)
}

// TeamIndex returns the index of the player's team, or -1.
func (l League) TeamIndex(playerID PlayerID) int {
	return slices.IndexFunc(l.Teams, func(t Team) bool { return t.PlayerID == playerID })
}

// TeamFor returns a copy of the player's team.
func (l League) TeamFor(playerID PlayerID) (Team, bool) {
	idx := l.TeamIndex(playerID)
	if idx < 0 {
		return Team{}, false
	}
	return l.Teams[idx].Clone(), true
}

// OwnerOf returns the player whose team rosters the baker.
func (l League) OwnerOf(bakerID BakerID) (PlayerID, bool) {
	for _, t := range l.Teams {
		if t.Holds(bakerID) {
			return t.PlayerID, true
		}
	}
	return "", false
}

// ClaimedBakers returns every baker rostered by any team in the league.
func (l League) ClaimedBakers() map[BakerID]PlayerID {
	claimed := make(map[BakerID]PlayerID)
	for _, t := range l.Teams {
		for _, id := range t.BakerIDs {
			claimed[id] = t.PlayerID
		}
	}
	return claimed
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
