package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/internal/config"
	"github.com/rseventos/shiftboard/pkg/core/services"
	"github.com/rseventos/shiftboard/pkg/db"
	"github.com/rseventos/shiftboard/pkg/notify"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database *db.DB
	Prefs    *db.Prefs
	// Watcher reports changes made by other processes; nil disables them
	Watcher  db.Watcher
	Notifier notify.Notifier
	// Reports is nil unless a report spreadsheet is configured and authorised
	Reports services.ReportPublisher
	Session *services.Session
	Logger  *zap.Logger
	Ctx     context.Context
	// Clock overrides time.Now in tests
	Clock func() time.Time
}

var errLoginRequired = errors.New("you are not logged in, run 'login' first")

func (app *AppContext) now() time.Time {
	if app.Clock != nil {
		return app.Clock()
	}
	return time.Now()
}

// today is the current date in the configured time zone
func (app *AppContext) today() string {
	return app.now().In(app.Cfg.Location()).Format("2006-01-02")
}

func (app *AppContext) requireSession() error {
	if app.Session == nil {
		return errLoginRequired
	}
	return nil
}

// refreshSummary keeps the admin digest current after a change. Failures are
// logged only.
func (app *AppContext) refreshSummary() {
	outcome, err := services.RefreshDailySummary(
		app.Ctx, app.Database, app.Notifier, app.Cfg.Location(), app.Logger, app.Session, app.now())
	if err != nil {
		app.Logger.Warn("Failed to refresh daily summary", zap.Error(err))
		return
	}
	app.Logger.Debug("Daily summary refreshed", zap.Stringer("outcome", outcome))
}
