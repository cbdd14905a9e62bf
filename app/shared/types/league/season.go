package leaguetypes

import "fmt"

// DefaultDraftRounds is the number of picks each player makes.
const DefaultDraftRounds = 3

// PreviewLeagueID is the id of the built-in sample league.
const PreviewLeagueID LeagueID = "preview-league"

var seasonBakers = []struct {
	id   BakerID
	name string
}{
	{"b1", "Aaron"},
	{"b2", "Hassan"},
	{"b3", "Iain"},
	{"b4", "Jasmine"},
	{"b5", "Jessika"},
	{"b6", "Leighton"},
	{"b7", "Lesley"},
	{"b8", "Nadia"},
	{"b9", "Nataliia"},
	{"b10", "Pui Man"},
	{"b11", "Toby"},
	{"b12", "Tom"},
}

// DefaultBakers returns the season's contestants, all active.
func DefaultBakers() []Baker {
	out := make([]Baker, len(seasonBakers))
	for i, b := range seasonBakers {
		out[i] = Baker{
			ID:       b.id,
			Name:     b.name,
			ImageURL: fmt.Sprintf("https://picsum.photos/400/400?random=%d", i+1),
			Status:   BakerStatusActive,
		}
	}
	return out
}

// DefaultPlayers returns the season's participants. p1 is the local user.
func DefaultPlayers() []Player {
	return []Player{
		{ID: "p1", Name: "You", IsUser: true},
		{ID: "p2", Name: "Mary B."},
		{ID: "p3", Name: "Paul H."},
		{ID: "p4", Name: "Noel F."},
	}
}

// BakerIDs extracts the ids of the given bakers, preserving order.
func BakerIDs(bakers []Baker) []BakerID {
	ids := make([]BakerID, len(bakers))
	for i, b := range bakers {
		ids[i] = b.ID
	}
	return ids
}

// PreviewLeague returns the sample league shown before any real league
// exists. The draft is already complete. order, when non-nil, arranges the
// stored pick order.
func PreviewLeague(order func([]PlayerID) []PlayerID) League {
	players := []PlayerID{"p1", "p2", "p3", "p4"}
	pickOrder := cloneSlice(players)
	if order != nil {
		pickOrder = order(pickOrder)
	}

	return League{
		ID:      PreviewLeagueID,
		Name:    "Bake Off Preview League",
		OwnerID: "p1",
		Players: players,
		Teams: []Team{
			{PlayerID: "p1", BakerIDs: []BakerID{"b1", "b2", "b3"}},
			{PlayerID: "p2", BakerIDs: []BakerID{"b4", "b6", "b7"}},
			{PlayerID: "p3", BakerIDs: []BakerID{"b8", "b9", "b11"}},
			{PlayerID: "p4", BakerIDs: []BakerID{"b12", "b5", "b10"}},
		},
		WeeklyLogs: []WeeklyLog{
			{
				Week:    1,
				Summary: "Cake Week kicked off the season with a signature drizzle cake, a tricky technical, and a gravity-defying showstopper. While some bakers rose to the occasion, others crumbled under the pressure, leading to the first emotional farewell.",
				Events: []WeeklyEvent{
					{BakerID: "b3", Week: 1, Type: EventStarBaker},
					{BakerID: "b7", Week: 1, Type: EventWinTechnical},
					{BakerID: "b1", Week: 1, Type: EventCrying},
					{BakerID: "b9", Week: 1, Type: EventLastTechnical},
				},
				EliminatedBakerID: "b5",
			},
			{
				Week:    2,
				Summary: "Biscuit Week was a snap! The bakers created marshmallow biscuits for the signature, a classic cookie for the technical, and an elaborate biscuit-based board game for the showstopper. A Hollywood Handshake made an early appearance, but one baker's game was over.",
				Events: []WeeklyEvent{
					{BakerID: "b1", Week: 2, Type: EventStarBaker},
					{BakerID: "b1", Week: 2, Type: EventHandshake},
					{BakerID: "b4", Week: 2, Type: EventWinTechnical},
					{BakerID: "b2", Week: 2, Type: EventHelpedBaker},
					{BakerID: "b8", Week: 2, Type: EventStartOver},
					{BakerID: "b6", Week: 2, Type: EventLastTechnical},
				},
				EliminatedBakerID: "b10",
			},
		},
		DraftState: DraftState{
			Round:              DefaultDraftRounds,
			CurrentPlayerIndex: len(pickOrder) - 1,
			PickOrder:          pickOrder,
			AvailableBakers:    []BakerID{},
			IsDraftComplete:    true,
		},
		IsPreview: true,
	}
}
