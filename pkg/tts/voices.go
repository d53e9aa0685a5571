// Package tts voice presets for Gemini speech generation.
package tts

// Voices is the fixed set of prebuilt Gemini voices the caster assigns
// from, in round-robin order. The order is part of the casting contract:
// the Nth new speaker in a script always receives the same default voice.
var Voices = []string{
	"Puck",   // upbeat male
	"Kore",   // firm female
	"Charon", // informative male
	"Leda",   // youthful female
	"Fenrir", // excitable male
	"Aoede",  // breezy female
	"Orus",   // firm male
	"Zephyr", // bright female
}

// DefaultVoice is used when no casting preference exists at all.
const DefaultVoice = "Puck"

// IsKnownVoice reports whether name is in the fixed voice set.
func IsKnownVoice(name string) bool {
	for _, v := range Voices {
		if v == name {
			return true
		}
	}
	return false
}

// VoiceAt returns the round-robin voice for the Nth distinct speaker.
func VoiceAt(n int) string {
	if n < 0 {
		n = -n
	}
	return Voices[n%len(Voices)]
}
