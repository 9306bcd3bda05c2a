package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Theme values stored in the preferences file.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences are per-user UI choices, kept apart from config.toml so the
// UIs can rewrite them without touching hand-edited configuration.
type Preferences struct {
	Theme string `toml:"theme,omitempty"`
}

// PreferenceStore reads and writes Preferences from a TOML file.
type PreferenceStore struct {
	path string
}

func NewPreferenceStore(path string) *PreferenceStore {
	return &PreferenceStore{path: path}
}

// DefaultPreferencesPath returns preferences.toml next to config.toml.
func DefaultPreferencesPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "preferences.toml"), nil
}

// Load returns empty Preferences when the file does not exist yet.
func (s *PreferenceStore) Load() (Preferences, error) {
	var prefs Preferences
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("reading preferences: %w", err)
	}
	if err := toml.Unmarshal(data, &prefs); err != nil {
		return prefs, fmt.Errorf("unmarshaling preferences: %w", err)
	}
	return prefs, nil
}

func (s *PreferenceStore) Save(prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating preferences directory: %w", err)
	}
	data, err := toml.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// Theme returns the stored theme or "" when none was chosen.
func (s *PreferenceStore) Theme() (string, error) {
	prefs, err := s.Load()
	if err != nil {
		return "", err
	}
	switch prefs.Theme {
	case ThemeLight, ThemeDark:
		return prefs.Theme, nil
	}
	return "", nil
}

func (s *PreferenceStore) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	prefs, err := s.Load()
	if err != nil {
		return err
	}
	prefs.Theme = theme
	return s.Save(prefs)
}
