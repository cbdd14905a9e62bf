package leaguetypes

// EventType enumerates the scored in-show occurrences.
type EventType string

const (
	EventHandshake     EventType = "HANDSHAKE"
	EventStarBaker     EventType = "STAR_BAKER"
	EventWinTechnical  EventType = "WIN_TECHNICAL"
	EventHelpedBaker   EventType = "HELPED_BAKER"
	EventCrying        EventType = "CRYING"
	EventStartOver     EventType = "START_OVER"
	EventLastTechnical EventType = "LAST_TECHNICAL"
	EventSemiFinal     EventType = "SEMI_FINAL"
	EventFinal         EventType = "FINAL"
	EventWinner        EventType = "WINNER"
)

// EventDetail is the scoring rule for one event type.
type EventDetail struct {
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// EventDetails is the scoring table.
var EventDetails = map[EventType]EventDetail{
	EventHandshake:     {Points: 5, Description: "Handshake from Paul Hollywood"},
	EventStarBaker:     {Points: 5, Description: "Star Baker"},
	EventWinTechnical:  {Points: 3, Description: "Won the Technical Challenge"},
	EventHelpedBaker:   {Points: 2, Description: "Helped another baker"},
	EventCrying:        {Points: 1, Description: "Crying"},
	EventStartOver:     {Points: 1, Description: "Started over"},
	EventLastTechnical: {Points: -2, Description: "Last in the Technical"},
	EventSemiFinal:     {Points: 3, Description: "Made it to the semi-finals"},
	EventFinal:         {Points: 6, Description: "Made it to the final"},
	EventWinner:        {Points: 10, Description: "Season Winner"},
}

// AllEventTypes lists the event types in display order.
var AllEventTypes = []EventType{
	EventHandshake,
	EventStarBaker,
	EventWinTechnical,
	EventHelpedBaker,
	EventCrying,
	EventStartOver,
	EventLastTechnical,
	EventSemiFinal,
	EventFinal,
	EventWinner,
}

// Valid reports whether the event type is part of the scoring table.
func (e EventType) Valid() bool {
	_, ok := EventDetails[e]
	return ok
}

// Points returns the signed point value, 0 for unknown types.
func (e EventType) Points() int {
	return EventDetails[e].Points
}

// Description returns the human readable label.
func (e EventType) Description() string {
	return EventDetails[e].Description
}
