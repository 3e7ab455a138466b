// Package discovery builds the crawl's source URL list from an index page.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
	"github.com/JakeFAU/court-directory-crawler/internal/extract"
)

// ErrNoLinks is returned when the index page yields no matching links.
var ErrNoLinks = errors.New("no source links found")

const parentPrefix = "../"

// Config selects the index page and the links followed from it.
type Config struct {
	IndexURL string
	// Patterns are path substrings; an href matching any of them is kept.
	Patterns []string
	// SiteRoot replaces leading "../" chains. Defaults to the index URL's
	// scheme and host.
	SiteRoot string
}

// Discoverer fetches the index page and extracts source URLs.
type Discoverer struct {
	cfg     Config
	index   *url.URL
	root    string
	fetcher crawler.Fetcher
	logger  *zap.Logger
}

// New validates cfg and builds a Discoverer.
func New(cfg Config, fetcher crawler.Fetcher, logger *zap.Logger) (*Discoverer, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	index, err := url.Parse(strings.TrimSpace(cfg.IndexURL))
	if err != nil || !index.IsAbs() {
		return nil, fmt.Errorf("index url %q must be absolute", cfg.IndexURL)
	}
	if len(cfg.Patterns) == 0 {
		return nil, fmt.Errorf("at least one link pattern is required")
	}
	root := strings.TrimSpace(cfg.SiteRoot)
	if root == "" {
		root = (&url.URL{Scheme: index.Scheme, Host: index.Host}).String()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{
		cfg:     cfg,
		index:   index,
		root:    strings.TrimRight(root, "/"),
		fetcher: fetcher,
		logger:  logger,
	}, nil
}

// Discover fetches the index page and returns the matching links in
// first-seen order without duplicates. Any error is fatal to the run.
func (d *Discoverer) Discover(ctx context.Context) ([]string, error) {
	page, err := d.fetcher.Fetch(ctx, d.index.String())
	if err != nil {
		return nil, fmt.Errorf("fetch index %s: %w", d.index, err)
	}
	if page.StatusCode < http.StatusOK || page.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch index %s: %w: %d", d.index, crawler.ErrHTTPStatus, page.StatusCode)
	}
	doc, err := extract.Parse(page.Body, page.ContentType())
	if err != nil {
		return nil, fmt.Errorf("parse index %s: %w", d.index, err)
	}

	base := d.index
	if page.FinalURL != "" {
		if u, perr := url.Parse(page.FinalURL); perr == nil {
			base = u
		}
	}
	links := d.links(doc, base)
	if len(links) == 0 {
		return nil, fmt.Errorf("index %s: %w", d.index, ErrNoLinks)
	}
	d.logger.Info("discovered source urls",
		zap.String("index", d.index.String()),
		zap.Int("count", len(links)),
	)
	return links, nil
}

func (d *Discoverer) links(doc *goquery.Document, base *url.URL) []string {
	seen := make(map[string]struct{})
	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if !d.matches(href) {
			return
		}
		abs, err := d.resolve(base, href)
		if err != nil {
			d.logger.Debug("skipping unresolvable link", zap.String("href", href), zap.Error(err))
			return
		}
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	})
	return out
}

func (d *Discoverer) matches(href string) bool {
	for _, p := range d.cfg.Patterns {
		if p != "" && strings.Contains(href, p) {
			return true
		}
	}
	return false
}

// resolve turns href into a normalized absolute URL. Leading "../" chains
// are anchored at the site root; other relative references resolve against
// base.
func (d *Discoverer) resolve(base *url.URL, href string) (string, error) {
	if strings.HasPrefix(href, parentPrefix) {
		rest := href
		for strings.HasPrefix(rest, parentPrefix) {
			rest = strings.TrimPrefix(rest, parentPrefix)
		}
		return NormalizeURL(d.root + "/" + rest)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("parse href: %w", err)
	}
	return NormalizeURL(base.ResolveReference(ref).String())
}
