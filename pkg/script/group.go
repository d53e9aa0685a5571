package script

import "strings"

// DialogueSegment is one uninterrupted speaking turn: a maximal run of
// consecutive same-speaker lines merged into a single synthesis unit.
// Merging exists to keep the number of synthesis requests down.
type DialogueSegment struct {
	Speaker string
	Text    string
}

// Group merges consecutive ParsedLines that share a speaker (exact match;
// case normalization happened upstream) into DialogueSegments. The output
// order follows the input order. Empty input yields empty output.
func Group(lines []ParsedLine) []DialogueSegment {
	var segments []DialogueSegment

	for _, line := range lines {
		if n := len(segments); n > 0 && segments[n-1].Speaker == line.Speaker {
			if line.Dialogue != "" {
				if segments[n-1].Text == "" {
					segments[n-1].Text = line.Dialogue
				} else {
					segments[n-1].Text += " " + line.Dialogue
				}
			}
			continue
		}
		segments = append(segments, DialogueSegment{
			Speaker: line.Speaker,
			Text:    line.Dialogue,
		})
	}

	return segments
}

// Speakers returns the distinct speaker names in first-appearance order,
// deduplicated case-insensitively. When the same name appears in multiple
// casings the non-all-caps variant wins for display.
func Speakers(lines []ParsedLine) []string {
	var (
		order []string
		seen  = map[string]int{} // folded name -> index in order
	)

	for _, line := range lines {
		if line.Speaker == "" {
			continue
		}
		key := strings.ToLower(line.Speaker)
		if idx, ok := seen[key]; ok {
			// Prefer mixed-case display over an ALL-CAPS duplicate.
			if isAllCaps(order[idx]) && !isAllCaps(line.Speaker) {
				order[idx] = line.Speaker
			}
			continue
		}
		seen[key] = len(order)
		order = append(order, line.Speaker)
	}

	return order
}
