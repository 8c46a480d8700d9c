package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rseventos/shiftboard/cmd/cli/commands"
	"github.com/rseventos/shiftboard/internal/config"
	"github.com/rseventos/shiftboard/pkg/clients/gmailclient"
	"github.com/rseventos/shiftboard/pkg/clients/sheetsclient"
	"github.com/rseventos/shiftboard/pkg/core/services"
	"github.com/rseventos/shiftboard/pkg/db"
	"github.com/rseventos/shiftboard/pkg/filestore"
	"github.com/rseventos/shiftboard/pkg/notify"
	"github.com/rseventos/shiftboard/pkg/postgres"
	"github.com/rseventos/shiftboard/pkg/utils"
	"github.com/rseventos/shiftboard/pkg/utils/logging"
)

var (
	env     string
	verbose bool
	app     = &commands.AppContext{Ctx: context.Background()}
	closers []func()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shiftboard",
		Short: "RS Eventos shift board - publish shifts and track who is pending",
		Long: `A CLI for RS Eventos staff scheduling: manage collaborators and teams,
publish shifts, follow the daily pending summary and export the monthly closing.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdown()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs on the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.All(app)...)

	if err := rootCmd.Execute(); err != nil {
		shutdown()
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

// initApp sets up logger, config, storage, notifiers and the stored session
func initApp() error {
	logger, err := logging.InitLogger(env, "logs", verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger = logger
	closers = append(closers, func() { _ = logger.Sync() })

	logger.Info("Starting application", zap.String("environment", env))

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Configuration loaded", zap.String("storage", app.Cfg.Storage))

	storage, err := openStorage()
	if err != nil {
		return err
	}

	app.Database = db.NewDB(storage, nil, logger)
	app.Prefs = db.NewPrefs(storage)

	app.Session, err = services.RestoreSession(app.Ctx, app.Database)
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	initGoogle()

	// Keep the digest current for an admin who stayed logged in
	if app.Session != nil && app.Session.IsAdmin() {
		outcome, err := services.RefreshDailySummary(
			app.Ctx, app.Database, app.Notifier, app.Cfg.Location(), logger, app.Session, time.Now())
		if err != nil {
			logger.Warn("Failed to refresh daily summary", zap.Error(err))
		} else {
			logger.Debug("Daily summary refreshed", zap.Stringer("outcome", outcome))
		}
	}

	return nil
}

func openStorage() (db.Storage, error) {
	logger := app.Logger

	switch app.Cfg.Storage {
	case config.StoragePostgres:
		logger.Info("Connecting to PostgreSQL")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.DatabaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		closers = append(closers, pg.Close)

		if err := pg.RunMigrations(app.Ctx); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Watcher = pg
		return pg, nil

	default:
		logger.Info("Opening data directory", zap.String("dir", app.Cfg.DataDir))
		fs, err := filestore.New(app.Cfg.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		app.Watcher = fs
		return fs, nil
	}
}

// initGoogle builds the Gmail notifier and the Sheets report publisher when
// configured. Without a usable token both fall back to logging.
func initGoogle() {
	logger := app.Logger
	logNotifier := notify.NewLogNotifier(logger)
	app.Notifier = logNotifier

	if !app.Cfg.UsesGoogle() {
		return
	}

	oauthCfg, err := config.LoadOAuthClient(app.Cfg, env)
	var clientErr *config.OAuthClientError
	switch {
	case errors.Is(err, config.ErrOAuthClientNotFound):
		logger.Warn("Google features disabled: no OAuth client file", zap.Error(err))
		return
	case errors.As(err, &clientErr):
		logger.Error("Google features disabled: unusable OAuth client file",
			zap.String("path", clientErr.Path), zap.String("reason", clientErr.Reason), zap.Error(err))
		return
	case err != nil:
		logger.Warn("Google features disabled", zap.Error(err))
		return
	}
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		logger.Warn("Google features disabled: invalid OAuth client configuration", zap.Error(err))
		return
	}
	token, err := utils.GetTokenWithFlow(app.Ctx, oauthConfig, env)
	if err != nil {
		logger.Warn("Google features disabled: permission was not granted", zap.Error(err))
		return
	}

	if app.Cfg.NotifyByEmail {
		gmail, err := gmailclient.NewClient(app.Ctx, oauthCfg, token, app.Cfg.GmailUserID, app.Cfg.GmailSender)
		if err != nil {
			logger.Warn("Failed to create gmail client", zap.Error(err))
		} else {
			app.Notifier = notify.Multi{logNotifier, notify.NewEmailNotifier(gmail, app.Cfg.NotifyEmails)}
			logger.Debug("Email notifications enabled", zap.Int("recipients", len(app.Cfg.NotifyEmails)))
		}
	}

	if app.Cfg.ReportSheetID != "" {
		sheets, err := sheetsclient.NewClient(app.Ctx, oauthCfg, token)
		if err != nil {
			logger.Warn("Failed to create sheets client", zap.Error(err))
		} else {
			app.Reports = sheets
		}
	}
}

func shutdown() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
