package leagueservice

import (
	"context"
	"fmt"
	"strings"

	scoringdomain "github.com/Black-And-White-Club/bakeoff-league/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/bakeoff-league/app/shared/results"
	leaguetypes "github.com/Black-And-White-Club/bakeoff-league/app/shared/types/league"
	"github.com/xuri/excelize/v2"
)

const (
	standingsSheet = "Standings"
	weeklyLogSheet = "Weekly Log"
	bakersSheet    = "Bakers"
)

// ExportWorkbook renders the league as an XLSX workbook with standings, the
// weekly event log and baker totals.
func (s *LeagueService) ExportWorkbook(ctx context.Context, leagueID leaguetypes.LeagueID) ([]byte, error) {
	result, err := withTelemetry(s, ctx, "ExportWorkbook", string(leagueID), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		l, ok := s.view(leagueID)
		if !ok {
			return results.FailureResult[[]byte, error](fmt.Errorf("%w: %s", ErrLeagueNotFound, leagueID)), nil
		}
		standings := s.Standings(ctx, leagueID)
		bakers := s.Bakers(ctx, leagueID)

		data, err := buildWorkbook(l, standings, bakers)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

func buildWorkbook(l leaguetypes.League, standings []StandingView, bakers []leaguetypes.Baker) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{weeklyLogSheet, bakersSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
	}

	names := make(map[leaguetypes.BakerID]string, len(bakers))
	for _, b := range bakers {
		names[b.ID] = b.Name
	}
	bakerNames := func(ids []leaguetypes.BakerID) string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = string(id)
			if n, ok := names[id]; ok {
				out[i] = n
			}
		}
		return strings.Join(out, ", ")
	}

	sheets := map[string][][]any{
		standingsSheet: {{"Rank", "Player", "Score", "Bakers"}},
		weeklyLogSheet: {{"Week", "Baker ID", "Baker", "Event", "Points", "Eliminated"}},
		bakersSheet:    {{"Baker ID", "Baker", "Status", "Points"}},
	}

	for _, row := range standings {
		sheets[standingsSheet] = append(sheets[standingsSheet], []any{row.Rank, row.PlayerName, row.Score, bakerNames(row.BakerIDs)})
	}
	for _, log := range l.WeeklyLogs {
		for _, e := range log.Events {
			sheets[weeklyLogSheet] = append(sheets[weeklyLogSheet], []any{
				log.Week, string(e.BakerID), names[e.BakerID], string(e.Type), e.Type.Points(), "",
			})
		}
		if log.EliminatedBakerID != "" {
			sheets[weeklyLogSheet] = append(sheets[weeklyLogSheet], []any{
				log.Week, string(log.EliminatedBakerID), names[log.EliminatedBakerID], "", 0, "yes",
			})
		}
	}
	for _, b := range bakers {
		sheets[bakersSheet] = append(sheets[bakersSheet], []any{
			string(b.ID), b.Name, string(b.Status), scoringdomain.ScoreOfBaker(b.ID, l.WeeklyLogs),
		})
	}

	for sheet, rows := range sheets {
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
