package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// CSVParser implements the Parser interface for CSV event sheets.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(fileData []byte, fileName string) ([]leaguetypes.WeeklyEvent, error) {
	reader := csv.NewReader(bytes.NewReader(fileData))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV %s: %w", fileName, err)
	}

	events, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return events, nil
}
