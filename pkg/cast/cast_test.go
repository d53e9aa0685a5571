package cast

import (
	"testing"

	"github.com/tableread/go-tableread/pkg/tts"
)

func TestRecastAssignsRoundRobinDefaults(t *testing.T) {
	members := Recast(nil, []string{"Hero", "Villain", "Narrator"}, nil)

	if len(members) != 3 {
		t.Fatalf("expected 3 characters, got %d", len(members))
	}
	for i, m := range members {
		if m.Voice != tts.VoiceAt(i) {
			t.Errorf("%s voice = %q, want %q", m.Name, m.Voice, tts.VoiceAt(i))
		}
		if m.Pitch != DefaultPitch {
			t.Errorf("%s pitch = %v", m.Name, m.Pitch)
		}
		if m.ID == "" {
			t.Errorf("%s has no ID", m.Name)
		}
	}
}

func TestRecastDeterministic(t *testing.T) {
	a := Recast(nil, []string{"Hero", "Villain"}, nil)
	b := Recast(nil, []string{"Hero", "Villain"}, nil)
	for i := range a {
		if a[i].Voice != b[i].Voice {
			t.Errorf("voice assignment not deterministic for %s", a[i].Name)
		}
	}
}

func TestRecastPreservesExistingByCaseInsensitiveName(t *testing.T) {
	existing := []Character{
		{ID: "id-1", Name: "HERO", Voice: "Kore", Pitch: 1.1},
	}

	members := Recast(existing, []string{"Hero", "Villain"}, nil)

	if members[0].ID != "id-1" {
		t.Error("existing character lost its identity")
	}
	if members[0].Voice != "Kore" || members[0].Pitch != 1.1 {
		t.Errorf("existing voice/pitch not preserved: %+v", members[0])
	}
	// Display name follows the current speaker list.
	if members[0].Name != "Hero" {
		t.Errorf("display name = %q", members[0].Name)
	}
}

func TestRecastDropsAbsentSpeakers(t *testing.T) {
	existing := []Character{
		{ID: "id-1", Name: "Hero", Voice: "Kore", Pitch: 1.0},
		{ID: "id-2", Name: "Ghost", Voice: "Puck", Pitch: 1.0},
	}

	members := Recast(existing, []string{"Hero"}, nil)
	if len(members) != 1 {
		t.Fatalf("expected 1 character, got %d", len(members))
	}
	if members[0].Name != "Hero" {
		t.Errorf("kept %q", members[0].Name)
	}
}

func TestRecastSeedsFromRegistry(t *testing.T) {
	reg := &memRegistry{choices: map[string]VoiceChoice{
		"hero": {Voice: "Fenrir", Pitch: 0.9},
	}}

	members := Recast(nil, []string{"Hero", "Villain"}, reg)
	if members[0].Voice != "Fenrir" || members[0].Pitch != 0.9 {
		t.Errorf("registry choice not applied: %+v", members[0])
	}
	// Villain has no registry entry, gets the round-robin default.
	if members[1].Voice != tts.VoiceAt(1) {
		t.Errorf("villain voice = %q", members[1].Voice)
	}
}

func TestRecastClampsRegistryPitch(t *testing.T) {
	reg := &memRegistry{choices: map[string]VoiceChoice{
		"hero": {Voice: "Puck", Pitch: 3.0},
	}}

	members := Recast(nil, []string{"Hero"}, reg)
	if members[0].Pitch != MaxPitch {
		t.Errorf("pitch = %v, want clamped to %v", members[0].Pitch, MaxPitch)
	}
}

func TestClampPitch(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.5, 0.8},
		{0.8, 0.8},
		{1.0, 1.0},
		{1.2, 1.2},
		{2.0, 1.2},
	}
	for _, tt := range tests {
		if got := ClampPitch(tt.in); got != tt.want {
			t.Errorf("ClampPitch(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFold(t *testing.T) {
	if Fold("  HERO ") != "hero" {
		t.Errorf("Fold = %q", Fold("  HERO "))
	}
}

// memRegistry is an in-memory Registry for tests.
type memRegistry struct {
	choices map[string]VoiceChoice
}

func (m *memRegistry) Lookup(name string) (VoiceChoice, bool) {
	c, ok := m.choices[Fold(name)]
	return c, ok
}

func (m *memRegistry) Save(name string, choice VoiceChoice) error {
	m.choices[Fold(name)] = choice
	return nil
}
