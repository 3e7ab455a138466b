package crawler

import (
	"net/http"

	"github.com/JakeFAU/court-directory-crawler/internal/extract"
)

// Page is a fetched source document.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// ContentType returns the Content-Type header, if any.
func (p Page) ContentType() string {
	if p.Headers == nil {
		return ""
	}
	return p.Headers.Get("Content-Type")
}

// ContentLength returns the number of body bytes.
func (p Page) ContentLength() int {
	return len(p.Body)
}

// FacilityRecord is one row of a tabular source.
type FacilityRecord struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// SourceResult is the outcome of one successfully processed URL. Names is
// deduplicated and sorted; Records is only set for table sources.
type SourceResult struct {
	SourceURL string           `json:"source_url"`
	Strategy  extract.Strategy `json:"strategy"`
	Names     []string         `json:"names"`
	Records   []FacilityRecord `json:"records,omitempty"`
}

// Tabular reports whether the result came from a table-cell source.
func (r SourceResult) Tabular() bool {
	return r.Strategy == extract.TableCell
}

// Failure records why a URL produced no result.
type Failure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
	Error  string `json:"error"`
}

// Report summarizes a crawl run.
type Report struct {
	RunID     string         `json:"run_id"`
	Attempted int            `json:"attempted"`
	Results   []SourceResult `json:"results"`
	Failures  []Failure      `json:"failures,omitempty"`
	Combined  []string       `json:"combined"`
	Files     []string       `json:"files"`
}

// Succeeded returns the number of URLs that produced a result.
func (r Report) Succeeded() int {
	return len(r.Results)
}
