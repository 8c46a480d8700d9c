package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/internal/config"
	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/export"
)

// TeamStat is the number of assignment rows over a team's shifts
type TeamStat struct {
	TeamID      string
	Name        string
	Assignments int
}

// TeamStats counts assignments per team, in team order
func TeamStats(ctx context.Context, store DocumentStore, session *Session) ([]TeamStat, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	return teamStats(doc), nil
}

func teamStats(doc *model.Document) []TeamStat {
	shiftTeam := make(map[string]string, len(doc.Shifts))
	for _, s := range doc.Shifts {
		shiftTeam[s.ID] = s.TeamID
	}
	counts := make(map[string]int)
	for _, a := range doc.Assignments {
		if teamID, ok := shiftTeam[a.ShiftID]; ok {
			counts[teamID]++
		}
	}

	stats := make([]TeamStat, 0, len(doc.Teams))
	for _, t := range doc.Teams {
		stats = append(stats, TeamStat{TeamID: t.ID, Name: t.Name, Assignments: counts[t.ID]})
	}
	return stats
}

// HistoryEntry is a change-log entry with the editor's name resolved
type HistoryEntry struct {
	ID          string
	ShiftID     string
	EditorName  string
	EditedAt    time.Time
	Description string
}

// History returns the change log, newest first
func History(ctx context.Context, store DocumentStore, session *Session) ([]HistoryEntry, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	entries := make([]HistoryEntry, 0, len(doc.History))
	for _, h := range doc.History {
		editor := "System"
		if u := findUser(doc, h.EditedBy); u != nil {
			editor = u.Name
		}
		entries = append(entries, HistoryEntry{
			ID:          h.ID,
			ShiftID:     h.ShiftID,
			EditorName:  editor,
			EditedAt:    h.EditedAt,
			Description: h.Description,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EditedAt.After(entries[j].EditedAt)
	})
	return entries, nil
}

// ReportPublisher mirrors the monthly closing somewhere outside the PDF.
// sheetsclient.Client implements it.
type ReportPublisher interface {
	PublishMonthlyReport(ctx context.Context, spreadsheetID string, report export.MonthlyReport) error
}

// ExportMonthlyReport writes the monthly closing PDF into cfg.ReportDir and
// returns its path. It is only available on cfg.ExportDay, in the configured
// time zone. When a report sheet is configured and publisher is non-nil the
// figures are also appended there; that step only logs on failure.
func ExportMonthlyReport(
	ctx context.Context,
	store DocumentStore,
	publisher ReportPublisher,
	cfg *config.Config,
	logger *zap.Logger,
	session *Session,
	now time.Time,
) (string, error) {
	if err := requireAdmin(session); err != nil {
		return "", err
	}

	local := now.In(cfg.Location())
	if local.Day() != cfg.ExportDay {
		return "", fmt.Errorf("%w: the monthly closing is only generated on day %d", ErrExportWindowClosed, cfg.ExportDay)
	}

	doc, err := store.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load document: %w", err)
	}
	stats := teamStats(doc)

	report := export.MonthlyReport{
		GeneratedAt: local,
		TotalPeople: len(doc.People),
		TotalShifts: len(doc.Shifts),
		Teams:       make([]export.TeamCount, 0, len(stats)),
	}
	for _, s := range stats {
		report.Teams = append(report.Teams, export.TeamCount{Name: s.Name, Assignments: s.Assignments})
	}

	path, err := writeReportFile(cfg.ReportDir, report)
	if err != nil {
		return "", err
	}
	logger.Info("Exported monthly report", zap.String("path", path), zap.Int("teams", len(report.Teams)))

	if publisher != nil && cfg.ReportSheetID != "" {
		if err := publisher.PublishMonthlyReport(ctx, cfg.ReportSheetID, report); err != nil {
			logger.Warn("Failed to publish monthly report to sheet", zap.Error(err))
		} else {
			logger.Info("Published monthly report to sheet", zap.String("spreadsheet_id", cfg.ReportSheetID))
		}
	}
	return path, nil
}

func writeReportFile(dir string, report export.MonthlyReport) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	target := filepath.Join(dir, export.FileName(report.GeneratedAt))

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close report file: %w", cerr)
		}
		if err != nil {
			err = errors.Join(err, removeIfExists(target))
			path = ""
		}
	}()

	if err := export.WritePDF(report, f); err != nil {
		return "", fmt.Errorf("failed to generate report: %w", err)
	}
	return target, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
