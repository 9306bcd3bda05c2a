package controller

import (
	"sync"

	"github.com/rubiojr/cari/pkg/config"
)

// ThemeStore persists the explicit theme choice. An empty theme means no
// choice was made.
type ThemeStore interface {
	Theme() (string, error)
	SetTheme(theme string) error
}

// ThemeController resolves light or dark mode from the stored choice,
// falling back to the operating system preference.
type ThemeController struct {
	store  ThemeStore
	osDark func() bool

	mu    sync.Mutex
	theme string
}

func NewThemeController(store ThemeStore, osDark func() bool) *ThemeController {
	if osDark == nil {
		osDark = func() bool { return false }
	}
	return &ThemeController{store: store, osDark: osDark}
}

// Load resolves the theme: a stored "dark", or no stored choice while the
// OS prefers dark, gives dark. Anything else is light.
func (t *ThemeController) Load() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored, err := t.store.Theme()
	if err != nil {
		logger.Warnf("reading theme preference: %v", err)
	}
	switch {
	case stored == config.ThemeDark:
		t.theme = config.ThemeDark
	case stored == "" && t.osDark():
		t.theme = config.ThemeDark
	default:
		t.theme = config.ThemeLight
	}
	return t.theme
}

// Dark reports whether the resolved theme is dark.
func (t *ThemeController) Dark() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.theme == config.ThemeDark
}

// Toggle flips the theme and persists it as an explicit choice. The new
// theme applies even if saving fails.
func (t *ThemeController) Toggle() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := config.ThemeDark
	if t.theme == config.ThemeDark {
		next = config.ThemeLight
	}
	t.theme = next
	return next, t.store.SetTheme(next)
}
