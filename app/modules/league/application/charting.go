package leagueservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Black-And-White-Club/bakeoff-league/app/shared/results"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors used for league charts.
type ChartPalette struct {
	Background drawing.Color
	TextColor  drawing.Color
	Lines      []drawing.Color
}

// DefaultChartPalette is a light theme with one line color per default player.
var DefaultChartPalette = ChartPalette{
	Background: drawing.ColorWhite,
	TextColor:  drawing.ColorFromHex("333333"),
	Lines: []drawing.Color{
		drawing.ColorFromHex("d9534f"),
		drawing.ColorFromHex("5bc0de"),
		drawing.ColorFromHex("f0ad4e"),
		drawing.ColorFromHex("5cb85c"),
		drawing.ColorFromHex("8e44ad"),
		drawing.ColorFromHex("34495e"),
	},
}

// StandingsChart renders cumulative team points per week as a PNG.
func (s *LeagueService) StandingsChart(ctx context.Context, leagueID leaguetypes.LeagueID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "StandingsChart", string(leagueID), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		if _, ok := s.view(leagueID); !ok {
			return results.FailureResult[[]byte, error](fmt.Errorf("%w: %s", ErrLeagueNotFound, leagueID)), nil
		}
		png, err := GenerateCumulativeChart(s.CumulativeScores(ctx, leagueID), DefaultChartPalette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// GenerateCumulativeChart draws one line per team from a week 0 origin. With
// no logged weeks it renders a placeholder instead.
func GenerateCumulativeChart(series []CumulativeView, palette ChartPalette) ([]byte, error) {
	lines := make([]chart.Series, 0, len(series))
	for i, c := range series {
		if len(c.Weeks) == 0 {
			continue
		}
		// Every line starts at a week 0 origin so a single logged week still
		// spans a non-zero x range.
		xValues := make([]float64, 1, len(c.Weeks)+1)
		yValues := make([]float64, 1, len(c.Totals)+1)
		for j := range c.Weeks {
			xValues = append(xValues, float64(c.Weeks[j]))
			yValues = append(yValues, float64(c.Totals[j]))
		}
		color := palette.Lines[i%len(palette.Lines)]
		lines = append(lines, chart.ContinuousSeries{
			Name:    c.PlayerName,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    color,
			},
		})
	}
	if len(lines) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name: "Week",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
			Style: chart.Style{FontColor: palette.TextColor},
		},
		YAxis: chart.YAxis{
			Name:  "Points",
			Style: chart.Style{FontColor: palette.TextColor},
		},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No weeks logged yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
