package weeklylogdomain

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

var (
	ErrInvalidWeek      = errors.New("week must be a positive number")
	ErrUnknownEventType = errors.New("unknown event type")
)

// Submission is one week's worth of input from the league administrator.
type Submission struct {
	Week              int
	Events            []leaguetypes.WeeklyEvent
	Summary           string
	EliminatedBakerID leaguetypes.BakerID
}

// SubmitWeek stores the submission as the log for its week, replacing any
// log already recorded for that week. Logs stay sorted by week. Events are
// not checked against the baker roster, and any number of events of any type
// is accepted per baker.
func SubmitWeek(league leaguetypes.League, sub Submission) (leaguetypes.League, error) {
	if sub.Week < 1 {
		return league, fmt.Errorf("%w: %d", ErrInvalidWeek, sub.Week)
	}

	events := make([]leaguetypes.WeeklyEvent, 0, len(sub.Events))
	for _, e := range sub.Events {
		if !e.Type.Valid() {
			return league, fmt.Errorf("%w: %q", ErrUnknownEventType, e.Type)
		}
		e.Week = sub.Week
		events = append(events, e)
	}

	entry := leaguetypes.WeeklyLog{
		Week:              sub.Week,
		Summary:           sub.Summary,
		Events:            events,
		EliminatedBakerID: sub.EliminatedBakerID,
	}

	next := league.Clone()
	if idx := slices.IndexFunc(next.WeeklyLogs, func(l leaguetypes.WeeklyLog) bool { return l.Week == sub.Week }); idx >= 0 {
		next.WeeklyLogs[idx] = entry
	} else {
		next.WeeklyLogs = append(next.WeeklyLogs, entry)
	}
	slices.SortStableFunc(next.WeeklyLogs, func(a, b leaguetypes.WeeklyLog) int {
		return cmp.Compare(a.Week, b.Week)
	})

	return next, nil
}

// LogFor returns the log recorded for week.
func LogFor(logs []leaguetypes.WeeklyLog, week int) (leaguetypes.WeeklyLog, bool) {
	idx := slices.IndexFunc(logs, func(l leaguetypes.WeeklyLog) bool { return l.Week == week })
	if idx < 0 {
		return leaguetypes.WeeklyLog{}, false
	}
	return logs[idx].Clone(), true
}

// EliminatedBakers collects every baker named as eliminated in any log.
func EliminatedBakers(logs []leaguetypes.WeeklyLog) map[leaguetypes.BakerID]int {
	out := make(map[leaguetypes.BakerID]int)
	for _, l := range logs {
		if l.EliminatedBakerID == "" {
			continue
		}
		if _, seen := out[l.EliminatedBakerID]; !seen {
			out[l.EliminatedBakerID] = l.Week
		}
	}
	return out
}

// DeriveStatuses recomputes every baker's status from the full log history.
// A baker is eliminated iff some log names them; status is never carried
// over from the input.
func DeriveStatuses(bakers []leaguetypes.Baker, logs []leaguetypes.WeeklyLog) []leaguetypes.Baker {
	eliminated := EliminatedBakers(logs)
	out := make([]leaguetypes.Baker, len(bakers))
	for i, b := range bakers {
		b.Status = leaguetypes.BakerStatusActive
		if _, ok := eliminated[b.ID]; ok {
			b.Status = leaguetypes.BakerStatusEliminated
		}
		out[i] = b
	}
	return out
}
