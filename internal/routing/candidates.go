package routing

import (
	"regexp"
	"slices"
	"strings"
)

var aliasCharset = regexp.MustCompile(`^[\p{N}\p{L}/._-]+$`)

// AliasCandidates joins fragments into growing prefixes ("a", "a/b",
// "a/b/c"), drops the ones with characters outside the alias charset and
// returns them most specific first.
func AliasCandidates(fragments []string) []string {
	candidates := make([]string, 0, len(fragments))
	var prefix strings.Builder
	for i, fragment := range fragments {
		if i > 0 {
			prefix.WriteByte('/')
		}
		prefix.WriteString(fragment)
		if candidate := prefix.String(); aliasCharset.MatchString(candidate) {
			candidates = append(candidates, candidate)
		}
	}
	slices.Reverse(candidates)
	return candidates
}
