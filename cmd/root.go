// Package cmd defines the CLI commands of the court directory crawler.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/court-directory-crawler/internal/app"
	"github.com/JakeFAU/court-directory-crawler/internal/config"
	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
	"github.com/JakeFAU/court-directory-crawler/internal/logging"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

const shutdownTimeout = 10 * time.Second

// App defines the services the commands use, so tests can inject a fake.
type App interface {
	Logger() *zap.Logger
	SourceURLs(ctx context.Context) ([]string, error)
	Crawl(ctx context.Context) (crawler.Report, error)
	Close(ctx context.Context) error
}

// newApp is the application factory. It is a variable so tests can replace
// it.
var newApp = func(ctx context.Context, cfgFile string) (App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, err
	}
	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logging.Sync(logger)
		return nil, err
	}
	return a, nil
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "courtcrawler",
		Short: "Harvests judicial facility names from court directory sites.",
		Long: `courtcrawler fetches court directory pages one at a time, extracts
facility names (and address/phone records from table layouts), and writes a
sorted, deduplicated list per source plus a combined list.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			appInstance, ok := cmd.Context().Value(appKey).(App)
			if !ok || appInstance == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			logger := appInstance.Logger()
			if err := appInstance.Close(ctx); err != nil {
				logger.Warn("shutdown failed", zap.Error(err))
			}
			logging.Sync(logger)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML); COURTS_* env vars override it")
	cmd.AddCommand(newCrawlCmd(), newDiscoverCmd())
	return cmd
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application services not initialized")
	}
	return appInstance, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
