package parsers

import (
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// Parser reads an uploaded weekly event sheet.
type Parser interface {
	// Parse returns the events found in fileData in row order.
	// fileName is only used in error messages.
	Parse(fileData []byte, fileName string) ([]leaguetypes.WeeklyEvent, error)
}
