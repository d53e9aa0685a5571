package script

import (
	"strings"
	"unicode"
)

// IsMetadata reports whether a sanitized name is scene metadata or other
// noise rather than a real speaker. It is a pure function of the name and
// the rule tables; evaluation order matters and short-circuits on the first
// matching rule.
//
// The stance is precision over recall: a short proper noun should survive,
// anything that smells like a scene header, transition, or AI preamble is
// rejected so it cannot pollute the cast list.
func (r *Rules) IsMetadata(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return true
	}

	for _, p := range r.NoisePrefixes {
		if lower == p || strings.HasPrefix(lower, p+" ") {
			return true
		}
	}

	for _, sub := range r.NoiseSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}

	for _, re := range r.StructuralPatterns {
		if re.MatchString(lower) {
			return true
		}
	}

	// "Cue" anywhere as its own token: "Music-Cue", "cue 3".
	for _, tok := range strings.FieldsFunc(lower, func(c rune) bool {
		return unicode.IsSpace(c) || c == '-'
	}) {
		if tok == "cue" {
			return true
		}
	}

	if len(strings.Fields(lower)) > r.MaxNameWords {
		return true
	}

	// Pure numbers or symbols: no letters left means no name.
	letters := strings.Map(func(c rune) rune {
		if unicode.IsLetter(c) {
			return c
		}
		return -1
	}, lower)
	return letters == ""
}
