package crawler

import (
	"fmt"
	"strings"

	"github.com/JakeFAU/court-directory-crawler/internal/extract"
	"github.com/JakeFAU/court-directory-crawler/internal/names"
)

// SourceProfile is the static extraction setup of one source layout.
type SourceProfile struct {
	// Match is a substring of the source URL selecting this profile.
	Match       string
	Strategy    extract.Strategy
	Suffixes    []string
	RowSelector string
}

// DefaultProfile applies to URLs no configured profile matches.
func DefaultProfile() SourceProfile {
	return SourceProfile{
		Strategy: extract.AnchorTitleOrText,
		Suffixes: append([]string(nil), names.DefaultSuffixes...),
	}
}

// Registry resolves source URLs to their profiles.
type Registry struct {
	fallback SourceProfile
	profiles []SourceProfile
}

// NewRegistry validates the profiles and builds a Registry. Profiles are
// matched in order; the first whose Match is a substring of the URL wins.
func NewRegistry(fallback SourceProfile, profiles []SourceProfile) (*Registry, error) {
	if fallback.Strategy == "" {
		fallback.Strategy = extract.AnchorTitleOrText
	}
	if !fallback.Strategy.Valid() {
		return nil, fmt.Errorf("default profile: %w: %q", extract.ErrUnknownStrategy, fallback.Strategy)
	}
	out := make([]SourceProfile, 0, len(profiles))
	for i, p := range profiles {
		p.Match = strings.TrimSpace(p.Match)
		if p.Match == "" {
			return nil, fmt.Errorf("source profile %d: match must be set", i)
		}
		if p.Strategy == "" {
			p.Strategy = fallback.Strategy
		}
		if !p.Strategy.Valid() {
			return nil, fmt.Errorf("source profile %q: %w: %q", p.Match, extract.ErrUnknownStrategy, p.Strategy)
		}
		if len(p.Suffixes) == 0 {
			p.Suffixes = fallback.Suffixes
		}
		out = append(out, p)
	}
	return &Registry{fallback: fallback, profiles: out}, nil
}

// Lookup returns the profile for rawURL.
func (r *Registry) Lookup(rawURL string) SourceProfile {
	for _, p := range r.profiles {
		if strings.Contains(rawURL, p.Match) {
			return p
		}
	}
	return r.fallback
}
