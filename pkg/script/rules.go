package script

import "regexp"

// Rules holds the keyword tables and patterns that drive speaker-cue
// classification. The tables are ordinary data so tests can swap them;
// DefaultRules is tuned against AI-generated scripts and its ordering is
// load-bearing for input compatibility.
type Rules struct {
	// NoisePrefixes rejects a name that equals, or starts with (followed by
	// a space), any entry. Compared against the lower-cased name.
	NoisePrefixes []string

	// NoiseSubstrings rejects a name containing any entry anywhere.
	NoiseSubstrings []string

	// StructuralPatterns rejects names matching scene/act/order numbering.
	StructuralPatterns []*regexp.Regexp

	// MaxNameWords is the word-count ceiling for a plausible speaker name.
	MaxNameWords int

	// SentenceStarters is the closed class of words that begin prose, not
	// names. Used by the dash-cue rejection gate.
	SentenceStarters map[string]bool

	// BioDescriptors flags character-sheet lines like "Hero - Male, 25".
	BioDescriptors map[string]bool
}

// DefaultRules returns the production rule tables.
func DefaultRules() *Rules {
	return &Rules{
		NoisePrefixes: []string{
			"scene", "act", "int.", "ext.", "int", "ext", "interior", "exterior",
			"narrator opening", "narrator closing", "here's", "here is",
			"title", "cast", "note", "setting", "chapter", "episode",
			"opening", "closing", "the end", "fade", "cut to",
			"disclaimer", "summary", "synopsis", "okay here",
		},
		NoiseSubstrings: []string{
			"transition", "music cue", "sound effect", "sfx",
			"crowd reaction", "audience", "laughter track", "applause",
			"begins", "end of", "theme song", "background music",
			"stage direction", "voice over",
		},
		StructuralPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^act\s*\d+`),
			regexp.MustCompile(`(?i)^scene\s*\d+`),
			regexp.MustCompile(`(?i)^order\s*#?\d+`),
		},
		MaxNameWords: 4,
		SentenceStarters: wordSet(
			"i", "you", "he", "she", "it", "we", "they", "me", "him", "her",
			"my", "your", "his", "its", "our", "their",
			"the", "a", "an", "this", "that", "these", "those",
			"and", "but", "or", "so", "if", "then", "because", "as",
			"what", "who", "why", "how", "when", "where", "which",
			"there", "here", "well", "yes", "no", "oh", "okay", "now",
			"just", "not", "to", "in", "on", "at", "for", "with", "of",
			"do", "does", "did", "is", "are", "was", "were", "be",
			"have", "has", "had", "will", "would", "can", "could",
			"should", "may", "might", "must", "let", "let's",
			"total", "act", "scene", "order",
		),
		BioDescriptors: wordSet(
			"male", "female", "boy", "girl", "man", "woman",
			"age", "aged", "years", "young", "old", "adult",
			"child", "teen", "teenager", "gender", "narrator", "voice",
		),
	}
}

func wordSet(words ...string) map[string]bool {
	s := make(map[string]bool, len(words))
	for _, w := range words {
		s[w] = true
	}
	return s
}
