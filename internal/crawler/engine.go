package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/court-directory-crawler/internal/extract"
	"github.com/JakeFAU/court-directory-crawler/internal/metrics"
	"github.com/JakeFAU/court-directory-crawler/internal/names"
)

// ErrHTTPStatus is returned for non-2xx responses.
var ErrHTTPStatus = errors.New("unexpected http status")

// Failure reasons used in logs, reports and metrics.
const (
	ReasonHTTP      = "http"
	ReasonParse     = "parse"
	ReasonExtract   = "extract"
	ReasonTransport = "transport"
)

// Config holds the settings for a crawl run.
type Config struct {
	// Delay is the pause between consecutive URLs.
	Delay      time.Duration
	Exclusions []string
}

// Engine fetches every source URL in order and aggregates the names found.
type Engine struct {
	cfg      Config
	fetcher  Fetcher
	registry *Registry
	pipeline *Pipeline
	sink     Sink
	pauser   Pauser
	ids      IDGenerator
	logger   *zap.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPauser replaces the timer-based pauser.
func WithPauser(p Pauser) Option {
	return func(e *Engine) { e.pauser = p }
}

// WithIDGenerator sets the run ID source.
func WithIDGenerator(ids IDGenerator) Option {
	return func(e *Engine) { e.ids = ids }
}

// NewEngine wires a crawl engine.
func NewEngine(
	cfg Config,
	fetcher Fetcher,
	registry *Registry,
	sink Sink,
	logger *zap.Logger,
	opts ...Option,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = &Registry{fallback: DefaultProfile()}
	}
	e := &Engine{
		cfg:      cfg,
		fetcher:  fetcher,
		registry: registry,
		pipeline: NewPipeline(cfg.Exclusions, logger.Named("pipeline")),
		sink:     sink,
		pauser:   TimerPauser{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes urls strictly in order. A URL that fails to fetch, parse or
// extract is logged and skipped. Each successful result is written as soon
// as it is available; the combined names are written after the last URL
// when there are any. Write failures abort the run.
func (e *Engine) Run(ctx context.Context, urls []string) (Report, error) {
	report := Report{RunID: e.newRunID()}
	logger := e.logger.With(zap.String("run_id", report.RunID))
	combined := names.NewSet()

	logger.Info("crawl started", zap.Int("sources", len(urls)), zap.Duration("delay", e.cfg.Delay))
	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("crawl interrupted: %w", err)
		}
		report.Attempted++

		result, err := e.processURL(ctx, rawURL)
		if err != nil {
			reason := classify(err)
			logger.Error("source failed",
				zap.String("url", rawURL),
				zap.String("reason", reason),
				zap.Error(err),
			)
			metrics.ObserveFailure(reason)
			report.Failures = append(report.Failures, Failure{URL: rawURL, Reason: reason, Error: err.Error()})
		} else {
			uri, werr := e.sink.WriteSource(ctx, result)
			if werr != nil {
				logger.Error("write source output failed", zap.String("url", rawURL), zap.Error(werr))
				return report, fmt.Errorf("write output for %s: %w", rawURL, werr)
			}
			metrics.ObserveOutputFile("source")
			logger.Info("source processed",
				zap.String("url", rawURL),
				zap.String("strategy", string(result.Strategy)),
				zap.Int("names", len(result.Names)),
				zap.String("output", uri),
			)
			report.Results = append(report.Results, result)
			report.Files = append(report.Files, uri)
			combined.Add(result.Names...)
		}

		if i < len(urls)-1 {
			e.pause(ctx)
		}
	}

	report.Combined = combined.Sorted()
	if len(report.Combined) == 0 {
		logger.Warn("no facility names collected; combined output skipped",
			zap.Int("attempted", report.Attempted),
			zap.Int("failed", len(report.Failures)),
		)
		return report, nil
	}
	uri, err := e.sink.WriteCombined(ctx, report.Combined)
	if err != nil {
		logger.Error("write combined output failed", zap.Error(err))
		return report, fmt.Errorf("write combined output: %w", err)
	}
	metrics.ObserveOutputFile("combined")
	report.Files = append(report.Files, uri)
	logger.Info("crawl finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("succeeded", report.Succeeded()),
		zap.Int("failed", len(report.Failures)),
		zap.Int("combined_names", len(report.Combined)),
		zap.String("output", uri),
	)
	return report, nil
}

func (e *Engine) processURL(ctx context.Context, rawURL string) (SourceResult, error) {
	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		metrics.ObserveSource(rawURL, "fetch_error", 0)
		return SourceResult{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if page.StatusCode < http.StatusOK || page.StatusCode >= http.StatusMultipleChoices {
		metrics.ObserveSource(rawURL, "http_error", page.ContentLength())
		return SourceResult{}, fmt.Errorf("fetch %s: %w: %d", rawURL, ErrHTTPStatus, page.StatusCode)
	}
	if page.URL == "" {
		page.URL = rawURL
	}

	profile := e.registry.Lookup(rawURL)
	result, err := e.pipeline.Process(page, profile)
	if err != nil {
		metrics.ObserveSource(rawURL, "extract_error", page.ContentLength())
		return SourceResult{}, fmt.Errorf("process %s: %w", rawURL, err)
	}
	result.SourceURL = rawURL
	metrics.ObserveSource(rawURL, "success", page.ContentLength())
	metrics.ObserveNames(rawURL, len(result.Names))
	return result, nil
}

func (e *Engine) pause(ctx context.Context) {
	if e.cfg.Delay <= 0 {
		return
	}
	start := time.Now()
	e.pauser.Pause(ctx, e.cfg.Delay)
	metrics.ObservePause(time.Since(start))
}

func (e *Engine) newRunID() string {
	if e.ids == nil {
		return ""
	}
	id, err := e.ids.NewID()
	if err != nil {
		e.logger.Warn("run id generation failed", zap.Error(err))
		return ""
	}
	return id
}

func classify(err error) string {
	switch {
	case errors.Is(err, ErrHTTPStatus):
		return ReasonHTTP
	case errors.Is(err, extract.ErrParse):
		return ReasonParse
	case errors.Is(err, extract.ErrMissingCells), errors.Is(err, extract.ErrUnknownStrategy):
		return ReasonExtract
	default:
		return ReasonTransport
	}
}
