package sheetsclient

import (
	"context"
	"fmt"

	"github.com/rseventos/shiftboard/pkg/export"
)

// ReportsTab is the tab monthly closings are appended to
const ReportsTab = "Monthly Closings"

var reportHeader = []interface{}{"Report date", "Month", "Collaborators", "Published shifts", "Team", "Assignments"}

// PublishMonthlyReport appends one row per team (or a single totals row when
// there are no teams) to the reports tab, creating it with a header row first
// if needed
func (c *Client) PublishMonthlyReport(ctx context.Context, spreadsheetID string, report export.MonthlyReport) error {
	created, err := c.EnsureSheet(ctx, spreadsheetID, ReportsTab)
	if err != nil {
		return err
	}

	rows := reportRows(report)
	if created {
		rows = append([][]interface{}{reportHeader}, rows...)
	}

	if err := c.AppendRows(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1", ReportsTab), rows); err != nil {
		return fmt.Errorf("failed to publish monthly report: %w", err)
	}
	return nil
}

func reportRows(report export.MonthlyReport) [][]interface{} {
	date := report.GeneratedAt.Format("2006-01-02")
	month := report.GeneratedAt.Format("2006-01")

	if len(report.Teams) == 0 {
		return [][]interface{}{{date, month, report.TotalPeople, report.TotalShifts, "", 0}}
	}

	rows := make([][]interface{}, 0, len(report.Teams))
	for _, team := range report.Teams {
		rows = append(rows, []interface{}{date, month, report.TotalPeople, report.TotalShifts, team.Name, team.Assignments})
	}
	return rows
}
