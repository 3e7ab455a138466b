package crawler

import (
	"context"
	"time"
)

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Sink persists per-source and combined outputs and returns their URIs.
type Sink interface {
	WriteSource(ctx context.Context, result SourceResult) (string, error)
	WriteCombined(ctx context.Context, names []string) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}

// Pauser suspends the crawl between requests.
type Pauser interface {
	Pause(ctx context.Context, delay time.Duration)
}
