package render

import (
	"strings"

	"github.com/rubiojr/cari/pkg/config"
)

// Colour names understood by the web stylesheet and the terminal theme.
const (
	ColorNeutral = "slate"
	ColorBar     = "sky"
	ColorWords   = "green"
)

// Palette maps category keywords to colour names. The first entry whose
// keyword is contained in the lowercased category wins.
type Palette []config.PaletteEntry

// DefaultPalette colours history, travel, culture and tradition categories.
func DefaultPalette() Palette {
	return Palette(config.DefaultPalette())
}

// Color returns the colour for category, or fallback when no keyword matches.
func (p Palette) Color(category, fallback string) string {
	c := strings.ToLower(category)
	if c == "" {
		return fallback
	}
	for _, e := range p {
		if strings.Contains(c, strings.ToLower(e.Keyword)) {
			return e.Color
		}
	}
	return fallback
}
