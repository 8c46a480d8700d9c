package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/pkg/core/services"
	"github.com/rseventos/shiftboard/pkg/db"
)

// WatchCmd creates the watch command
func WatchCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the daily summary current until interrupted",
		Long: `Watch for changes to the shared data, from this or any other process,
and refresh the daily pending summary after each one. The summary is also
refreshed on the configured digest schedule so it rolls over at midnight.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(cmd.OutOrStdout(), "👀 Watching for changes, press Ctrl+C to stop")
			return RunWatch(ctx, app, cmd.OutOrStdout())
		},
	}
}

// RunWatch runs the watch loop until ctx is done
func RunWatch(ctx context.Context, app *AppContext, out io.Writer) error {
	bus := app.Database.Bus()
	changes, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	if app.Watcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := app.Watcher.Watch(ctx, func(key string) {
				if key == db.DocumentKey {
					bus.Publish()
				}
			})
			if err != nil {
				app.Logger.Error("Storage watcher stopped", zap.Error(err))
			}
		}()
	}

	ticks := make(chan struct{}, 1)
	scheduler := cron.New(cron.WithLocation(app.Cfg.Location()))
	if _, err := scheduler.AddFunc(app.Cfg.DigestSchedule, func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}); err != nil {
		return fmt.Errorf("invalid digest schedule: %w", err)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	w := &watchLoop{app: app, out: out}
	w.refresh(ctx, "startup")

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			w.refresh(ctx, "change")
		case <-ticks:
			w.refresh(ctx, "schedule")
		}
	}
}

type watchLoop struct {
	app *AppContext
	out io.Writer
}

// refresh reloads the session, since another process may have logged in or
// out, then updates the digest. Storage calls stop when ctx is cancelled.
func (w *watchLoop) refresh(ctx context.Context, reason string) {
	app := w.app
	session, err := services.RestoreSession(ctx, app.Database)
	if err != nil {
		app.Logger.Warn("Failed to restore session", zap.Error(err))
		return
	}
	app.Session = session

	outcome, err := services.RefreshDailySummary(
		ctx, app.Database, app.Notifier, app.Cfg.Location(), app.Logger, session, app.now())
	if err != nil {
		app.Logger.Warn("Failed to refresh daily summary", zap.String("reason", reason), zap.Error(err))
		return
	}

	app.Logger.Debug("Watch refresh", zap.String("reason", reason), zap.Stringer("outcome", outcome))
	switch outcome {
	case services.SummaryCreated, services.SummaryUpdated, services.SummaryRemoved:
		fmt.Fprintf(w.out, "🔔 %s daily summary for %s\n", outcome, app.today())
	}
}
