// Package app initializes and holds the long-lived services of a crawl run,
// acting as a dependency injection container for the CLI commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/court-directory-crawler/internal/clock/system"
	"github.com/JakeFAU/court-directory-crawler/internal/config"
	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
	"github.com/JakeFAU/court-directory-crawler/internal/discovery"
	collyfetcher "github.com/JakeFAU/court-directory-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/court-directory-crawler/internal/id/uuid"
	"github.com/JakeFAU/court-directory-crawler/internal/metrics"
	"github.com/JakeFAU/court-directory-crawler/internal/output"
	gcsstorage "github.com/JakeFAU/court-directory-crawler/internal/storage/gcs"
	localstorage "github.com/JakeFAU/court-directory-crawler/internal/storage/local"
)

// App holds the services shared by the crawl and discover commands.
type App struct {
	cfg        config.Config
	logger     *zap.Logger
	fetcher    crawler.Fetcher
	gcs        *gcsstorage.BlobStore
	engine     *crawler.Engine
	discoverer *discovery.Discoverer
	metricsSrv *http.Server
}

// Option customizes Build.
type Option func(*options)

type options struct {
	fetcher crawler.Fetcher
	pauser  crawler.Pauser
	clock   crawler.Clock
}

// WithFetcher replaces the colly fetcher.
func WithFetcher(f crawler.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

// WithPauser replaces the timer-based pause between sources.
func WithPauser(p crawler.Pauser) Option {
	return func(o *options) { o.pauser = p }
}

// WithClock replaces the wall clock used for output timestamps.
func WithClock(c crawler.Clock) Option {
	return func(o *options) { o.clock = c }
}

// Build wires every service from cfg. It fails fast when any of them cannot
// be initialized.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fetcher == nil {
		o.fetcher = collyfetcher.New(collyfetcher.Config{
			UserAgent:     cfg.Crawler.UserAgent,
			RespectRobots: cfg.Crawler.RespectRobots,
			Timeout:       cfg.HTTP.Timeout,
		})
	}
	if o.clock == nil {
		o.clock = system.New()
	}

	a := &App{cfg: cfg, logger: logger, fetcher: o.fetcher}
	logger.Info("building application services",
		zap.String("output_provider", cfg.Output.Provider),
		zap.Duration("delay", cfg.Crawler.Delay),
	)

	store, err := a.setupStorage(ctx)
	if err != nil {
		return nil, err
	}
	sink, err := output.NewSink(store, o.clock, cfg.Output.Prefix, logger.Named("output"))
	if err != nil {
		a.closeStorage()
		return nil, fmt.Errorf("output sink init failed: %w", err)
	}
	registry, err := cfg.Registry()
	if err != nil {
		a.closeStorage()
		return nil, err
	}

	engineOpts := []crawler.Option{crawler.WithIDGenerator(uuid.New())}
	if o.pauser != nil {
		engineOpts = append(engineOpts, crawler.WithPauser(o.pauser))
	}
	a.engine = crawler.NewEngine(cfg.EngineConfig(), o.fetcher, registry, sink, logger.Named("engine"), engineOpts...)

	if cfg.Discovery.IndexURL != "" {
		a.discoverer, err = discovery.New(discovery.Config{
			IndexURL: cfg.Discovery.IndexURL,
			Patterns: cfg.Discovery.Patterns,
			SiteRoot: cfg.Discovery.SiteRoot,
		}, o.fetcher, logger.Named("discovery"))
		if err != nil {
			a.closeStorage()
			return nil, fmt.Errorf("discovery init failed: %w", err)
		}
	}

	a.startMetrics()
	return a, nil
}

func (a *App) setupStorage(ctx context.Context) (output.BlobStore, error) {
	switch a.cfg.Output.Provider {
	case config.ProviderGCS:
		a.logger.Info("using GCS output store", zap.String("bucket", a.cfg.Output.GCSBucket))
		store, err := gcsstorage.Open(ctx, gcsstorage.Config{Bucket: a.cfg.Output.GCSBucket})
		if err != nil {
			return nil, fmt.Errorf("gcs blob store init failed: %w", err)
		}
		a.gcs = store
		return store, nil
	case config.ProviderLocal, "":
		a.logger.Info("using local output store", zap.String("dir", a.cfg.Output.Dir))
		store, err := localstorage.New(localstorage.Config{BaseDir: a.cfg.Output.Dir})
		if err != nil {
			return nil, fmt.Errorf("local blob store init failed: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown output provider: %s", a.cfg.Output.Provider)
	}
}

func (a *App) startMetrics() {
	if a.cfg.Metrics.Addr == "" {
		return
	}
	metrics.Init()
	a.metricsSrv = &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           metrics.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("metrics server started", zap.String("addr", a.cfg.Metrics.Addr))
		if err := a.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error", zap.Error(err))
		}
	}()
}

// Logger returns the root logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// SourceURLs returns the crawl input: the discovered links when an index
// page is configured, the static list otherwise.
func (a *App) SourceURLs(ctx context.Context) ([]string, error) {
	if a.discoverer == nil {
		return append([]string(nil), a.cfg.Crawler.SourceURLs...), nil
	}
	urls, err := a.discoverer.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover sources: %w", err)
	}
	return urls, nil
}

// Crawl resolves the source URLs and runs the engine over them.
func (a *App) Crawl(ctx context.Context) (crawler.Report, error) {
	urls, err := a.SourceURLs(ctx)
	if err != nil {
		return crawler.Report{}, err
	}
	if len(urls) == 0 {
		return crawler.Report{}, fmt.Errorf("no source urls configured")
	}
	return a.engine.Run(ctx, urls)
}

// Close shuts down the metrics server and the output store.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if a.gcs != nil {
		if err := a.gcs.Close(); err != nil {
			errs = append(errs, fmt.Errorf("gcs client close: %w", err))
		}
	}
	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeStorage() {
	if a.gcs == nil {
		return
	}
	if err := a.gcs.Close(); err != nil {
		a.logger.Warn("gcs client close failed", zap.Error(err))
	}
}
