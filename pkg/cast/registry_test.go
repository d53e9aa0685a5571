package cast

import (
	"os"
	"path/filepath"
	"testing"
)

// testRegistry creates a temporary registry for testing.
func testRegistry(t *testing.T) (*JSONRegistry, string) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "tableread-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tmpDir) })

	path := filepath.Join(tmpDir, "voices.json")
	reg, err := NewJSONRegistry(path)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	return reg, path
}

func TestNewJSONRegistry(t *testing.T) {
	reg, _ := testRegistry(t)
	if reg.Count() != 0 {
		t.Errorf("expected empty registry, got %d entries", reg.Count())
	}
}

func TestRegistrySaveAndLookup(t *testing.T) {
	reg, _ := testRegistry(t)

	choice := VoiceChoice{Voice: "Kore", Pitch: 1.1}
	if err := reg.Save("Hero", choice); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok := reg.Lookup("hero")
	if !ok {
		t.Fatal("lookup by folded name failed")
	}
	if got != choice {
		t.Errorf("got %+v, want %+v", got, choice)
	}
}

func TestRegistryPersistsAcrossReopen(t *testing.T) {
	reg, path := testRegistry(t)

	if err := reg.Save("Jethalal", VoiceChoice{Voice: "Charon", Pitch: 0.9}); err != nil {
		t.Fatalf("save: %v", err)
	}

	reopened, err := NewJSONRegistry(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok := reopened.Lookup("JETHALAL")
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if got.Voice != "Charon" || got.Pitch != 0.9 {
		t.Errorf("got %+v", got)
	}
}

func TestRegistryOverwrite(t *testing.T) {
	reg, _ := testRegistry(t)

	reg.Save("Hero", VoiceChoice{Voice: "Puck", Pitch: 1.0})
	reg.Save("Hero", VoiceChoice{Voice: "Aoede", Pitch: 1.2})

	got, _ := reg.Lookup("Hero")
	if got.Voice != "Aoede" || got.Pitch != 1.2 {
		t.Errorf("got %+v", got)
	}
	if reg.Count() != 1 {
		t.Errorf("count = %d", reg.Count())
	}
}
