package script

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// parenRe matches parenthesized stage directions like "(smiling)".
	parenRe = regexp.MustCompile(`\([^)]*\)`)

	// standaloneDashRe matches a hyphen or dash surrounded by whitespace,
	// as in "Name - description".
	standaloneDashRe = regexp.MustCompile(`\s+[-\x{2013}\x{2014}]\s+`)

	// nameCharRe matches everything outside the letter/digit/space/hyphen/apostrophe
	// set that a display name may contain.
	nameCharRe = regexp.MustCompile(`[^\p{L}\p{N} '\-]`)
)

// SanitizeName strips decoration from a raw speaker label and returns a
// canonical display name. The result contains only letters, digits, spaces,
// hyphens and apostrophes, trimmed of surrounding whitespace. An empty result
// means the label carried no usable name; callers must handle that.
//
// Steps, in order: drop every "(...)" stage direction, truncate at the first
// standalone dash ("Name - description" keeps "Name"), strip remaining noise
// characters, trim.
func SanitizeName(raw string) string {
	s := norm.NFC.String(raw)
	s = parenRe.ReplaceAllString(s, "")
	if loc := standaloneDashRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	s = nameCharRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// extractParentheticals returns all "(...)" annotations in the label,
// space-joined, without the parentheses.
func extractParentheticals(raw string) string {
	matches := parenRe.FindAllString(raw, -1)
	if len(matches) == 0 {
		return ""
	}
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		inner := strings.TrimSpace(strings.Trim(m, "()"))
		if inner != "" {
			parts = append(parts, inner)
		}
	}
	return strings.Join(parts, " ")
}
