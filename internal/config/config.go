// Package config provides configuration helpers for go-tableread commands.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default server configuration.
const (
	DefaultPort = "8080"
)

// GeminiAPIKey returns the API key from GEMINI_API_KEY env var.
// Falls back to the provided default if not set.
func GeminiAPIKey(defaultKey string) string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return defaultKey
}

// GeminiAPIKeyRequired returns the API key from GEMINI_API_KEY env var.
// Exits if not set.
func GeminiAPIKeyRequired() string {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY environment variable is required")
		fmt.Fprintln(os.Stderr, "Usage: GEMINI_API_KEY=... go run ./cmd/...")
		os.Exit(1)
	}
	return key
}

// Port returns the HTTP port from PORT env var or the default.
func Port() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return DefaultPort
}

// RegistryPath returns the voice registry path from TABLEREAD_REGISTRY env
// var, or the default under the user's home directory.
func RegistryPath() string {
	if path := os.Getenv("TABLEREAD_REGISTRY"); path != "" {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "voices.json"
	}
	return filepath.Join(homeDir, ".tableread", "voices.json")
}
