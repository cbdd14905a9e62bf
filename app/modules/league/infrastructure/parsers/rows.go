package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNoEvents        = errors.New("no weekly events found")
	ErrInvalidRow      = errors.New("invalid weekly event row")
)

// columns holds the zero-based positions of the three fields we read.
type columns struct {
	week, baker, event int
}

var defaultColumns = columns{week: 0, baker: 1, event: 2}

// parseRows turns sheet rows into events. The first row is treated as a
// header when its week cell is not a number; without a header the columns are
// week, baker id, event type in that order. Blank rows are skipped, any other
// malformed row fails the whole sheet.
func parseRows(rows [][]string) ([]leaguetypes.WeeklyEvent, error) {
	if len(rows) == 0 {
		return nil, ErrNoEvents
	}

	cols := defaultColumns
	start := 0
	if isHeader(rows[0]) {
		cols = headerColumns(rows[0])
		start = 1
	}

	var events []leaguetypes.WeeklyEvent
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}

		weekStr := cell(row, cols.week)
		week, err := strconv.Atoi(weekStr)
		if err != nil || week < 1 {
			return nil, fmt.Errorf("%w: row %d: week %q", ErrInvalidRow, i+1, weekStr)
		}

		bakerID := cell(row, cols.baker)
		if bakerID == "" {
			return nil, fmt.Errorf("%w: row %d: missing baker id", ErrInvalidRow, i+1)
		}

		eventType := normalizeEventType(cell(row, cols.event))
		if !eventType.Valid() {
			return nil, fmt.Errorf("%w: row %d: event type %q", ErrInvalidRow, i+1, cell(row, cols.event))
		}

		events = append(events, leaguetypes.WeeklyEvent{
			BakerID: leaguetypes.BakerID(bakerID),
			Week:    week,
			Type:    eventType,
		})
	}

	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	return events, nil
}

func isHeader(row []string) bool {
	if blank(row) {
		return false
	}
	_, err := strconv.Atoi(cell(row, 0))
	return err != nil
}

func headerColumns(header []string) columns {
	cols := columns{
		week:  findColumn(header, []string{"week", "episode"}),
		baker: findColumn(header, []string{"baker_id", "bakerid", "baker", "contestant"}),
		event: findColumn(header, []string{"event_type", "eventtype", "event", "type"}),
	}
	if cols.week < 0 {
		cols.week = defaultColumns.week
	}
	if cols.baker < 0 {
		cols.baker = defaultColumns.baker
	}
	if cols.event < 0 {
		cols.event = defaultColumns.event
	}
	return cols
}

// findColumn returns the index of the first header matching one of names,
// ignoring case, spaces and underscores.
func findColumn(header []string, names []string) int {
	for _, name := range names {
		want := normalizeHeader(name)
		for i, col := range header {
			if normalizeHeader(col) == want {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// normalizeEventType accepts "Star Baker", "star-baker" and "STAR_BAKER".
func normalizeEventType(s string) leaguetypes.EventType {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	return leaguetypes.EventType(s)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
