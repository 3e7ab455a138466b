package names

import (
	"strings"
	"unicode"
)

// Suffix markers recognized in facility names.
const (
	SuffixBranch    = "支部"
	SuffixSubOffice = "出張所"
	MiddleDot       = "・"
)

// lineBreakMarkers get a forced line break after each occurrence.
var lineBreakMarkers = []string{SuffixBranch, SuffixSubOffice, MiddleDot}

var markerExpander = newMarkerExpander(lineBreakMarkers)

func newMarkerExpander(markers []string) *strings.Replacer {
	pairs := make([]string, 0, len(markers)*2)
	for _, m := range markers {
		pairs = append(pairs, m, m+"\n")
	}
	return strings.NewReplacer(pairs...)
}

// decorative runes removed anywhere in a name during cleanup.
const decorative = "，．･・"

// ExpandLines breaks raw after every suffix marker and returns the trimmed,
// non-empty lines. Markers stay at the end of their line.
func ExpandLines(raw string) []string {
	expanded := markerExpander.Replace(raw)
	parts := strings.Split(expanded, "\n")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		lines = append(lines, p)
	}
	return lines
}

// Cleanup trims token and strips decorative punctuation and every Unicode
// whitespace rune, including interior ones. An empty result means the token
// must be dropped.
func Cleanup(token string) string {
	token = strings.TrimSpace(token)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || strings.ContainsRune(decorative, r) {
			return -1
		}
		return r
	}, token)
}

// Canonicalize runs one accepted candidate through line expansion,
// tokenization and cleanup, returning the non-empty canonical names in
// order of appearance.
func Canonicalize(candidate string) []string {
	var out []string
	for _, line := range ExpandLines(candidate) {
		for _, tok := range Tokenize(line) {
			if name := Cleanup(tok); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}
