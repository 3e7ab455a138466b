package names

import (
	"cmp"
	"slices"
	"unicode/utf8"
)

// Aggregate deduplicates names and orders them shortest first, with names
// of equal length kept in code point order.
func Aggregate(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, n := range in {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	slices.Sort(out)
	// The stable length pass must follow the lexicographic one; the tie
	// order between equal-length names depends on it.
	slices.SortStableFunc(out, func(a, b string) int {
		return cmp.Compare(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	})
	return out
}

// Set accumulates canonical names across sources.
type Set struct {
	items map[string]struct{}
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{items: make(map[string]struct{})}
}

// Add inserts every name.
func (s *Set) Add(names ...string) {
	for _, n := range names {
		s.items[n] = struct{}{}
	}
}

// Len returns the number of distinct names.
func (s *Set) Len() int {
	return len(s.items)
}

// Sorted materializes the set under the Aggregate ordering.
func (s *Set) Sorted() []string {
	all := make([]string, 0, len(s.items))
	for n := range s.items {
		all = append(all, n)
	}
	return Aggregate(all)
}
