package names

import "strings"

// Defaults used when a source does not configure its own lists.
var (
	DefaultSuffixes   = []string{Terminator, SuffixBranch}
	DefaultExclusions = []string{"裁判所内"}
)

const pathSeparator = "/"

// Filter decides which raw strings are plausible facility names.
type Filter struct {
	suffixes   []string
	exclusions []string
}

// NewFilter builds a Filter. Empty suffixes or exclusions fall back to the
// package defaults.
func NewFilter(suffixes, exclusions []string) *Filter {
	return &Filter{
		suffixes:   nonEmptyOr(suffixes, DefaultSuffixes),
		exclusions: nonEmptyOr(exclusions, DefaultExclusions),
	}
}

// Accept reports whether candidate ends with an accepted suffix and carries
// neither an exclusion marker nor a path separator.
func (f *Filter) Accept(candidate string) bool {
	if strings.Contains(candidate, pathSeparator) {
		return false
	}
	for _, ex := range f.exclusions {
		if strings.Contains(candidate, ex) {
			return false
		}
	}
	for _, suffix := range f.suffixes {
		if strings.HasSuffix(candidate, suffix) {
			return true
		}
	}
	return false
}

// Suffixes returns a copy of the accepted suffix list.
func (f *Filter) Suffixes() []string {
	return append([]string(nil), f.suffixes...)
}

func nonEmptyOr(in, fallback []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
