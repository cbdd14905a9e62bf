package parsers

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

// ================ XLSX Parser ================

type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse reads the first sheet of the workbook.
func (p *XLSXParser) Parse(fileData []byte, fileName string) ([]leaguetypes.WeeklyEvent, error) {
	events, err := ParseWeeklyEventsXLSX(bytes.NewReader(fileData))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return events, nil
}

// ParseWeeklyEventsXLSX reads week, baker id and event type columns from the
// first sheet. The header row is optional.
func ParseWeeklyEventsXLSX(r io.Reader) ([]leaguetypes.WeeklyEvent, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XLSX: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("XLSX file contains no sheets")
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	return parseRows(rows)
}
