package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/cari/pkg/render"
)

// colorTones maps palette colour names to a light and a dark tone.
var colorTones = map[string][2]lipgloss.Color{
	"blue":              {"#1d4ed8", "#93c5fd"},
	"green":             {"#15803d", "#86efac"},
	"purple":            {"#7e22ce", "#d8b4fe"},
	"amber":             {"#b45309", "#fcd34d"},
	"red":               {"#b91c1c", "#fca5a5"},
	render.ColorBar:     {"#0369a1", "#7dd3fc"},
	render.ColorNeutral: {"#475569", "#cbd5e1"},
}

type styles struct {
	dark bool

	title     lipgloss.Style
	subtle    lipgloss.Style
	input     lipgloss.Style
	inputBlur lipgloss.Style
	card      lipgloss.Style
	cardTitle lipgloss.Style
	number    lipgloss.Style
	mark      lipgloss.Style
	score     lipgloss.Style
	link      lipgloss.Style
	notice    lipgloss.Style
	errorText lipgloss.Style
	modal     lipgloss.Style
	focused   lipgloss.Style
	button    lipgloss.Style
	disabled  lipgloss.Style
}

func newStyles(dark bool) styles {
	fg, muted, border, accent := lipgloss.Color("#0f172a"), lipgloss.Color("#64748b"), lipgloss.Color("#cbd5e1"), lipgloss.Color("#0284c7")
	markBg := lipgloss.Color("#fef08a")
	if dark {
		fg, muted, border, accent = "#e2e8f0", "#94a3b8", "#334155", "#38bdf8"
		markBg = "#854d0e"
	}

	return styles{
		dark:      dark,
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtle:    lipgloss.NewStyle().Foreground(muted),
		input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		inputBlur: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1).MarginBottom(1),
		cardTitle: lipgloss.NewStyle().Bold(true).Foreground(fg),
		number:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(accent).Padding(0, 1),
		mark:      lipgloss.NewStyle().Bold(true).Background(markBg).Foreground(fg),
		score:     lipgloss.NewStyle().Foreground(muted),
		link:      lipgloss.NewStyle().Underline(true).Foreground(accent),
		notice:    lipgloss.NewStyle().Foreground(tone("amber", dark)),
		errorText: lipgloss.NewStyle().Foreground(tone("red", dark)),
		modal:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(accent).Padding(1, 2),
		focused:   lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true),
		button:    lipgloss.NewStyle().Foreground(fg),
		disabled:  lipgloss.NewStyle().Foreground(muted).Faint(true),
	}
}

func tone(name string, dark bool) lipgloss.Color {
	t, ok := colorTones[name]
	if !ok {
		t = colorTones[render.ColorNeutral]
	}
	if dark {
		return t[1]
	}
	return t[0]
}

func (s styles) badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(tone(color, s.dark)).Bold(true)
}
