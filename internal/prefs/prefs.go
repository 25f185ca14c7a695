// Package prefs persists panel user preferences.
// Preferences are stored next to the panel config as prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for the panel.
type Prefs struct {
	Theme    string `toml:"theme"`
	TestText string `toml:"test_text,omitempty"`
}

const (
	defaultTheme    = "Nightfox"
	defaultTestText = "Hello! This is a test of the ReadAloud text-to-speech system."
	maxTestTextLen  = 4096
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	path, err := gap.NewScope(gap.User, "readaloud").ConfigPath("prefs.toml")
	if err != nil {
		return "~/.config/readaloud/prefs.toml"
	}
	return path
}

// Defaults returns the preferences used when nothing is stored.
func Defaults() Prefs {
	return Prefs{Theme: defaultTheme, TestText: defaultTestText}
}

// Load reads preferences from the given path, falling back to defaults when
// the file is missing or unreadable. Preferences are never fatal.
func Load(path string) (Prefs, error) {
	prefs := Defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Defaults(), nil // Graceful degradation
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if strings.TrimSpace(prefs.TestText) == "" {
		prefs.TestText = defaultTestText
	}
	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	// The limit counts runes, matching the input's CharLimit.
	if runes := []rune(p.TestText); len(runes) > maxTestTextLen {
		p.TestText = string(runes[:maxTestTextLen])
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	expanded, err := homedir.Expand(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Abs(expanded)
}
