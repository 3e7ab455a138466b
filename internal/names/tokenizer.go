package names

import "strings"

// Terminator ends every facility name segment ("court").
const Terminator = "裁判所"

// Tokenize splits s into facility names that each end at a Terminator.
// Concatenating the result always reproduces s.
//
// Inputs holding fewer than two terminators come back unsplit as a single
// element, so an already atomic name such as "東京地方裁判所" or
// "東京地方裁判所八王子支部" is never cut.
func Tokenize(s string) []string {
	if strings.Count(s, Terminator) < 2 {
		return []string{s}
	}

	tokens := make([]string, 0, 2)
	cursor := 0
	for cursor < len(s) {
		idx := strings.Index(s[cursor:], Terminator)
		if idx < 0 {
			tokens = append(tokens, s[cursor:])
			break
		}
		end := cursor + idx + len(Terminator)
		tokens = append(tokens, s[cursor:end])
		cursor = end
	}
	return tokens
}
