package cast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// VoiceChoice is a remembered voice/pitch preference for a speaker name.
type VoiceChoice struct {
	Voice string  `json:"voice"`
	Pitch float64 `json:"pitch"`
}

// Registry persists voice preferences across sessions, keyed by folded
// character name. The parser and audio pipeline never touch it; only the
// casting layer reads at init and writes on change.
type Registry interface {
	// Lookup returns the remembered choice for a name.
	Lookup(name string) (VoiceChoice, bool)

	// Save remembers a choice for a name.
	Save(name string, choice VoiceChoice) error
}

// JSONRegistry implements Registry using a JSON file for persistence.
type JSONRegistry struct {
	path    string
	choices map[string]VoiceChoice
	mu      sync.RWMutex
}

// registryData is the JSON structure for the registry file.
type registryData struct {
	Version   int                    `json:"version"`
	UpdatedAt string                 `json:"updated_at"`
	Choices   map[string]VoiceChoice `json:"choices"`
}

const registryVersion = 1

// NewJSONRegistry creates a registry at the given path. If the file doesn't
// exist it will be created on first save.
func NewJSONRegistry(path string) (*JSONRegistry, error) {
	r := &JSONRegistry{
		path:    path,
		choices: make(map[string]VoiceChoice),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := r.load(); err != nil {
			return nil, fmt.Errorf("failed to load registry: %w", err)
		}
	}

	return r, nil
}

// NewDefaultRegistry creates a registry at ~/.tableread/voices.json.
func NewDefaultRegistry() (*JSONRegistry, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewJSONRegistry(filepath.Join(homeDir, ".tableread", "voices.json"))
}

// Lookup returns the remembered choice for a name.
func (r *JSONRegistry) Lookup(name string) (VoiceChoice, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	choice, ok := r.choices[Fold(name)]
	return choice, ok
}

// Save remembers a choice and writes the registry to disk.
func (r *JSONRegistry) Save(name string, choice VoiceChoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.choices[Fold(name)] = choice
	return r.save()
}

// Count returns the number of remembered choices.
func (r *JSONRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.choices)
}

// load reads the registry from disk.
func (r *JSONRegistry) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var stored registryData
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	if stored.Choices != nil {
		r.choices = stored.Choices
	}
	return nil
}

// save writes the registry to disk. Callers hold the lock.
func (r *JSONRegistry) save() error {
	stored := registryData{
		Version:   registryVersion,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
		Choices:   r.choices,
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return os.Rename(tmp, r.path)
}
