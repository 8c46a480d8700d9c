package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/internal/config"
	"github.com/rseventos/shiftboard/pkg/core/model"
	"github.com/rseventos/shiftboard/pkg/export"
)

type mockPublisher struct {
	spreadsheetID string
	reports       []export.MonthlyReport
	err           error
}

func (m *mockPublisher) PublishMonthlyReport(_ context.Context, spreadsheetID string, report export.MonthlyReport) error {
	m.spreadsheetID = spreadsheetID
	m.reports = append(m.reports, report)
	return m.err
}

func TestTeamStats(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)

	bar, err := SaveTeam(ctx, store, zap.NewNop(), admin, "Equipe Bar", "")
	require.NoError(t, err)
	_, err = PublishShift(ctx, store, zap.NewNop(), admin, kitchenShift("2026-10-16", "p1", "p2"), testNow)
	require.NoError(t, err)
	_, err = PublishShift(ctx, store, zap.NewNop(), admin, kitchenShift("2026-10-17", "p1"), testNow)
	require.NoError(t, err)

	stats, err := TeamStats(ctx, store, admin)
	require.NoError(t, err)
	assert.Equal(t, []TeamStat{
		{TeamID: "e1", Name: "Equipe Cozinha A", Assignments: 3},
		{TeamID: bar.ID, Name: "Equipe Bar", Assignments: 0},
	}, stats)

	lead := leadSession(t, store, "Paula", "paula@rseventos.com")
	_, err = TeamStats(ctx, store, lead)
	assert.ErrorIs(t, err, ErrAdminOnly)
}

func TestHistory_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)

	mutate(t, store, func(doc *model.Document) {
		doc.History = []model.ChangeLogEntry{
			{ID: "h1", EditedBy: "u1", EditedAt: testNow.Add(-time.Hour), Description: "older"},
			{ID: "h2", EditedBy: "gone", EditedAt: testNow, Description: "newer"},
		}
	})

	entries, err := History(ctx, store, admin)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "h2", entries[0].ID)
	assert.Equal(t, "System", entries[0].EditorName)
	assert.Equal(t, "Administrador", entries[1].EditorName)
}

func exportConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Timezone = "UTC"
	cfg.ReportDir = filepath.Join(t.TempDir(), "reports")
	return cfg
}

func TestExportMonthlyReport(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)
	cfg := exportConfig(t)

	_, err := PublishShift(ctx, store, zap.NewNop(), admin, kitchenShift("2026-10-16", "p1", "p2"), testNow)
	require.NoError(t, err)

	path, err := ExportMonthlyReport(ctx, store, nil, cfg, zap.NewNop(), admin, testNow)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.ReportDir, "Relatorio_RS_Eventos_10_2026.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, len(data) > 4 && string(data[:4]) == "%PDF")
}

func TestExportMonthlyReport_OutsideWindow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)
	cfg := exportConfig(t)

	_, err := ExportMonthlyReport(ctx, store, nil, cfg, zap.NewNop(), admin, testNow.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrExportWindowClosed)

	_, statErr := os.Stat(cfg.ReportDir)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "no file is written outside the window")
}

func TestExportMonthlyReport_AdminOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	lead := leadSession(t, store, "Paula", "paula@rseventos.com")

	_, err := ExportMonthlyReport(ctx, store, nil, exportConfig(t), zap.NewNop(), lead, testNow)
	assert.ErrorIs(t, err, ErrAdminOnly)
}

func TestExportMonthlyReport_PublishesToSheet(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	admin := adminSession(t, store)
	cfg := exportConfig(t)
	cfg.ReportSheetID = "sheet-123"

	publisher := &mockPublisher{err: errors.New("quota exceeded")}
	path, err := ExportMonthlyReport(ctx, store, publisher, cfg, zap.NewNop(), admin, testNow)
	require.NoError(t, err, "sheet failures do not fail the export")
	assert.FileExists(t, path)

	assert.Equal(t, "sheet-123", publisher.spreadsheetID)
	require.Len(t, publisher.reports, 1)
	report := publisher.reports[0]
	assert.Equal(t, 2, report.TotalPeople)
	assert.Equal(t, 0, report.TotalShifts)
	assert.Equal(t, []export.TeamCount{{Name: "Equipe Cozinha A", Assignments: 0}}, report.Teams)
}
