// Package script turns loosely formatted "Speaker: Dialogue" text into an
// ordered sequence of labeled speaking turns.
//
// The input is adversarial: AI-generated scripts mix real dialogue with scene
// headers, stage directions, markdown decoration, and preambles, with no
// ground truth to validate against. Everything here is rule-based and
// deterministic; the keyword tables live in Rules and can be swapped for
// testing. Malformed input never faults, it degrades to skipped or merged
// lines.
package script

import (
	"regexp"
	"strings"
	"unicode"
)

// ParsedLine is one speaker turn recovered from the script.
type ParsedLine struct {
	// Original is the source line the cue was recognized on.
	Original string

	// SpeakerRaw is the unstripped label before the separator.
	SpeakerRaw string

	// Speaker is the sanitized display name.
	Speaker string

	// Metadata holds the label's parenthetical annotations, space-joined.
	Metadata string

	// Dialogue is the spoken text, grown by continuation lines until the
	// next cue.
	Dialogue string
}

const (
	maxColonLabelLen = 60
	maxDashLabelLen  = 50
)

var (
	// dashCueRe splits "Name - text" style cues. A plain hyphen needs
	// whitespace on both sides; em/en dashes are often written tight.
	dashCueRe = regexp.MustCompile(`^(.{1,50}?)(?:\s+-\s+|\s*[\x{2013}\x{2014}]\s*)(.+)$`)

	// separatorRe matches decorative rules like "---" or "***".
	separatorRe = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)

	actNumberRe = regexp.MustCompile(`(?i)^act\s*\d+`)
)

// decorativeGlyphs begin lines that are ornamentation, never dialogue.
var decorativeGlyphs = []string{"•", "♪", "♫", "\U0001f3b5", "\U0001f3ac", "✨"}

// Segmenter walks a script line by line and emits ParsedLines.
type Segmenter struct {
	rules *Rules
}

// NewSegmenter returns a Segmenter using the given rule tables,
// or DefaultRules when nil.
func NewSegmenter(rules *Rules) *Segmenter {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Segmenter{rules: rules}
}

// Parse segments the whole script into ordered speaker turns. The output is
// a pure function of the input text and the rule tables.
func (s *Segmenter) Parse(text string) []ParsedLine {
	var (
		out    []ParsedLine
		active *ParsedLine
	)

	flush := func() {
		if active != nil {
			out = append(out, *active)
			active = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		if cue, ok := s.matchCue(raw, trimmed); ok {
			flush()
			active = cue
			continue
		}

		// Continuation handling. Without an active speaker the line is
		// discarded: there is nothing to attach it to.
		if active == nil {
			continue
		}
		if skipContinuation(trimmed) {
			continue
		}
		if active.Dialogue == "" {
			active.Dialogue = trimmed
		} else {
			active.Dialogue += " " + trimmed
		}
	}

	flush()
	return out
}

// matchCue attempts to read the line as a new speaker cue. It returns false
// when the line should be treated as a continuation instead.
func (s *Segmenter) matchCue(raw, trimmed string) (*ParsedLine, bool) {
	label, dialogue, colonMatch := splitColon(trimmed)
	if !colonMatch {
		var ok bool
		label, dialogue, ok = splitDash(trimmed)
		if !ok {
			return nil, false
		}
	}

	// Markdown headings and bullets are never cues.
	if strings.HasPrefix(label, "*") || strings.HasPrefix(label, "#") {
		return nil, false
	}

	clean := SanitizeName(label)

	if colonMatch {
		if containsDigitOrHash(label) {
			return nil, false
		}
	} else if s.rejectDashCue(raw, label, clean, dialogue) {
		return nil, false
	}

	if clean == "" || s.rules.IsMetadata(clean) {
		return nil, false
	}

	return &ParsedLine{
		Original:   raw,
		SpeakerRaw: label,
		Speaker:    clean,
		Metadata:   extractParentheticals(label),
		Dialogue:   strings.TrimSpace(dialogue),
	}, true
}

// rejectDashCue is the ordered rejection gate for low-confidence dash cues.
// The clause order is tuned against observed generated-script formats; do
// not reorder.
func (s *Segmenter) rejectDashCue(raw, label, clean, dialogue string) bool {
	// Indented lines are prose, not cues.
	if raw != strings.TrimLeft(raw, " \t") {
		return true
	}
	if first, ok := firstRune(label); ok && unicode.IsLower(first) {
		return true
	}
	if containsDigitOrHash(label) {
		return true
	}
	if s.rules.SentenceStarters[firstWord(label)] {
		return true
	}
	if len(strings.Fields(clean)) > 3 {
		return true
	}
	if first, ok := firstRune(dialogue); ok && unicode.IsLower(first) {
		return true
	}
	if s.rules.BioDescriptors[firstWord(dialogue)] {
		return true
	}
	if actNumberRe.MatchString(label) {
		return true
	}
	// ALL-CAPS label with shouted or very short text is a scene header.
	if isAllCaps(label) && (isAllCaps(dialogue) || len(strings.Fields(dialogue)) < 4) {
		return true
	}
	return false
}

// splitColon splits on the first colon when the label fits the cue bound.
func splitColon(line string) (label, dialogue string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 1 || idx > maxColonLabelLen {
		return "", "", false
	}
	return line[:idx], line[idx+1:], true
}

// splitDash splits "Name - text" with a tighter label bound than colon cues.
func splitDash(line string) (label, dialogue string, ok bool) {
	m := dashCueRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	label = strings.TrimSpace(m[1])
	if label == "" || len(label) > maxDashLabelLen {
		return "", "", false
	}
	return label, m[2], true
}

// skipContinuation reports whether a non-cue line is decoration that must
// not be appended to the active dialogue.
func skipContinuation(trimmed string) bool {
	// Pure stage direction: "(laughs)".
	if strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")") {
		return true
	}
	for _, g := range decorativeGlyphs {
		if strings.HasPrefix(trimmed, g) {
			return true
		}
	}
	return separatorRe.MatchString(trimmed)
}

func containsDigitOrHash(s string) bool {
	return strings.ContainsAny(s, "#0123456789")
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

// firstWord returns the lower-cased first word, split on whitespace and
// punctuation.
func firstWord(s string) string {
	fields := strings.FieldsFunc(s, func(c rune) bool {
		return unicode.IsSpace(c) || unicode.IsPunct(c)
	})
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// isAllCaps reports whether s contains letters and none of them lowercase.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}
