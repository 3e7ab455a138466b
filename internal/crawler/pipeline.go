package crawler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/court-directory-crawler/internal/extract"
	"github.com/JakeFAU/court-directory-crawler/internal/names"
)

// Pipeline turns a fetched page into a SourceResult.
type Pipeline struct {
	exclusions []string
	logger     *zap.Logger
}

// NewPipeline builds a Pipeline. Empty exclusions fall back to
// names.DefaultExclusions.
func NewPipeline(exclusions []string, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{exclusions: exclusions, logger: logger}
}

// Process parses page and extracts its canonical names with profile.
func (p *Pipeline) Process(page Page, profile SourceProfile) (SourceResult, error) {
	doc, err := extract.Parse(page.Body, page.ContentType())
	if err != nil {
		return SourceResult{}, err
	}
	filter := names.NewFilter(profile.Suffixes, p.exclusions)
	result := SourceResult{SourceURL: page.URL, Strategy: profile.Strategy}

	if profile.Strategy == extract.TableCell {
		rows, err := extract.Rows(doc, profile.RowSelector)
		if err != nil {
			return SourceResult{}, fmt.Errorf("extract rows: %w", err)
		}
		result.Records = p.records(rows, filter)
		all := make([]string, 0, len(result.Records))
		for _, r := range result.Records {
			all = append(all, r.Name)
		}
		result.Names = names.Aggregate(all)
		return result, nil
	}

	candidates, err := extract.Candidates(doc, profile.Strategy, profile.RowSelector)
	if err != nil {
		return SourceResult{}, fmt.Errorf("extract candidates: %w", err)
	}
	var all []string
	for _, c := range candidates {
		if !filter.Accept(c) {
			p.logger.Debug("candidate rejected", zap.String("url", page.URL), zap.String("candidate", c))
			continue
		}
		all = append(all, names.Canonicalize(c)...)
	}
	result.Names = names.Aggregate(all)
	return result, nil
}

// records keeps table rows whose name passes the filter. Row names are
// already atomic, so they are cleaned but not re-tokenized.
func (p *Pipeline) records(rows []extract.Row, filter *names.Filter) []FacilityRecord {
	out := make([]FacilityRecord, 0, len(rows))
	for _, row := range rows {
		if !filter.Accept(row.Name) {
			continue
		}
		name := names.Cleanup(row.Name)
		if name == "" {
			continue
		}
		out = append(out, FacilityRecord{Name: name, Address: row.Address, Phone: row.Phone})
	}
	return out
}
