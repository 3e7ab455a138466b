package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
)

// BlobStore writes raw artifacts and returns a URI.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

// Sink implements crawler.Sink over a BlobStore.
type Sink struct {
	store  BlobStore
	clock  crawler.Clock
	prefix string
	logger *zap.Logger
}

// NewSink builds a Sink. prefix is prepended to every object path.
func NewSink(store BlobStore, clock crawler.Clock, prefix string, logger *zap.Logger) (*Sink, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sink{
		store:  store,
		clock:  clock,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}, nil
}

// WriteSource writes one source result: CSV for table sources, newline
// separated names otherwise.
func (s *Sink) WriteSource(ctx context.Context, result crawler.SourceResult) (string, error) {
	base := Basename(result.SourceURL)
	if result.Tabular() {
		return s.put(ctx, base, "csv", ContentTypeCSV, EncodeRecords(result.Records))
	}
	return s.put(ctx, base, "txt", ContentTypeText, EncodeNames(result.Names))
}

// WriteCombined writes the names aggregated over all sources.
func (s *Sink) WriteCombined(ctx context.Context, names []string) (string, error) {
	return s.put(ctx, CombinedBasename, "txt", ContentTypeText, EncodeNames(names))
}

func (s *Sink) put(ctx context.Context, base, ext, contentType string, data []byte) (string, error) {
	name := FileName(Timestamp(s.clock.Now()), base, ext)
	if s.prefix != "" {
		name = path.Join(s.prefix, name)
	}
	uri, err := s.store.PutObject(ctx, name, contentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("put %s: %w", name, err)
	}
	s.logger.Debug("output written", zap.String("uri", uri), zap.Int("bytes", len(data)))
	return uri, nil
}
