// Package cast manages the mapping from script speakers to synthesis
// voices. The active cast is re-derived from the script's speaker set every
// time the script changes; voice and pitch choices survive re-derivation by
// case-insensitive name match and persist across sessions through a
// Registry.
package cast

import (
	"strings"

	"github.com/google/uuid"

	"github.com/tableread/go-tableread/pkg/tts"
)

// Pitch bounds. Pitch is a resample-rate multiplier: above 1.0 the voice is
// higher and faster, below 1.0 lower and slower.
const (
	MinPitch     = 0.8
	MaxPitch     = 1.2
	DefaultPitch = 1.0
)

// Character is a casting record for one speaker.
type Character struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Voice string  `json:"voice"`
	Pitch float64 `json:"pitch"`
}

// Fold returns the case-insensitive lookup key for a character name.
// Lookup identity is always folded; Name keeps the display casing.
func Fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ClampPitch forces a pitch into the supported range.
func ClampPitch(p float64) float64 {
	if p < MinPitch {
		return MinPitch
	}
	if p > MaxPitch {
		return MaxPitch
	}
	return p
}

// Recast derives the cast for the given speakers, which must already be
// deduplicated (script.Speakers does this). Existing characters are matched
// by folded name and keep their voice, pitch, and ID. New speakers are
// seeded from the registry when it remembers them, otherwise they receive
// the next round-robin default voice and neutral pitch. Speakers no longer
// present are dropped; their registry entries remain recoverable.
func Recast(existing []Character, speakers []string, reg Registry) []Character {
	current := make(map[string]Character, len(existing))
	for _, c := range existing {
		current[Fold(c.Name)] = c
	}

	out := make([]Character, 0, len(speakers))
	for i, name := range speakers {
		key := Fold(name)

		if c, ok := current[key]; ok {
			c.Name = name
			out = append(out, c)
			continue
		}

		c := Character{
			ID:    uuid.NewString(),
			Name:  name,
			Voice: tts.VoiceAt(i),
			Pitch: DefaultPitch,
		}
		if reg != nil {
			if choice, ok := reg.Lookup(name); ok {
				if tts.IsKnownVoice(choice.Voice) {
					c.Voice = choice.Voice
				}
				c.Pitch = ClampPitch(choice.Pitch)
			}
		}
		out = append(out, c)
	}

	return out
}

// ByName indexes a cast by folded name for segment lookup.
func ByName(cast []Character) map[string]Character {
	m := make(map[string]Character, len(cast))
	for _, c := range cast {
		m[Fold(c.Name)] = c
	}
	return m
}
