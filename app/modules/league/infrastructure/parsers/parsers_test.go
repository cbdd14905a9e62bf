package parsers

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXParser_Parse(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]any
		want    []leaguetypes.WeeklyEvent
		wantErr error
	}{
		{
			name: "with header",
			rows: [][]any{
				{"Week", "Baker ID", "Event Type"},
				{1, "b1", "STAR_BAKER"},
				{1, "b5", "crying"},
			},
			want: []leaguetypes.WeeklyEvent{
				{BakerID: "b1", Week: 1, Type: leaguetypes.EventStarBaker},
				{BakerID: "b5", Week: 1, Type: leaguetypes.EventCrying},
			},
		},
		{
			name: "without header",
			rows: [][]any{
				{2, "b3", "Win Technical"},
			},
			want: []leaguetypes.WeeklyEvent{
				{BakerID: "b3", Week: 2, Type: leaguetypes.EventWinTechnical},
			},
		},
		{
			name: "header columns in any order",
			rows: [][]any{
				{"event", "baker", "week"},
				{"HANDSHAKE", "b2", 3},
			},
			want: []leaguetypes.WeeklyEvent{
				{BakerID: "b2", Week: 3, Type: leaguetypes.EventHandshake},
			},
		},
		{
			name: "blank rows skipped",
			rows: [][]any{
				{"week", "baker_id", "event_type"},
				{1, "b1", "START_OVER"},
				{"", "", ""},
				{1, "b2", "LAST_TECHNICAL"},
			},
			want: []leaguetypes.WeeklyEvent{
				{BakerID: "b1", Week: 1, Type: leaguetypes.EventStartOver},
				{BakerID: "b2", Week: 1, Type: leaguetypes.EventLastTechnical},
			},
		},
		{
			name: "unknown event type",
			rows: [][]any{
				{1, "b1", "BURNT_BOTTOM"},
			},
			wantErr: ErrInvalidRow,
		},
		{
			name: "non-positive week",
			rows: [][]any{
				{"week", "baker", "event"},
				{0, "b1", "CRYING"},
			},
			wantErr: ErrInvalidRow,
		},
		{
			name: "missing baker",
			rows: [][]any{
				{1, "", "CRYING"},
			},
			wantErr: ErrInvalidRow,
		},
		{
			name: "header only",
			rows: [][]any{
				{"week", "baker", "event"},
			},
			wantErr: ErrNoEvents,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewXLSXParser().Parse(buildWorkbook(t, tt.rows), "week.xlsx")
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWeeklyEventsXLSX_NotAWorkbook(t *testing.T) {
	_, err := NewXLSXParser().Parse([]byte("not a zip"), "bad.xlsx")
	require.Error(t, err)
}

func TestCSVParser_Parse(t *testing.T) {
	data := []byte("week,baker_id,event_type\n4,b7,SEMI_FINAL\n4,b8,helped baker\n")

	got, err := NewCSVParser().Parse(data, "week4.csv")
	require.NoError(t, err)

	want := []leaguetypes.WeeklyEvent{
		{BakerID: "b7", Week: 4, Type: leaguetypes.EventSemiFinal},
		{BakerID: "b8", Week: 4, Type: leaguetypes.EventHelpedBaker},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestFactory_GetParser(t *testing.T) {
	f := NewFactory()

	p, err := f.GetParser("Week1.CSV")
	require.NoError(t, err)
	require.IsType(t, &CSVParser{}, p)

	p, err = f.GetParser("week1.xlsx")
	require.NoError(t, err)
	require.IsType(t, &XLSXParser{}, p)

	_, err = f.GetParser("week1.pdf")
	require.ErrorIs(t, err, ErrUnsupportedFile)
}
