package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/cari/pkg/render"
	"github.com/rubiojr/cari/pkg/storage"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	markStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
)

// paletteColors maps palette colour names to 256-colour terminal codes.
var paletteColors = map[string]lipgloss.Color{
	"blue":              "33",
	"green":             "35",
	"purple":            "135",
	"amber":             "214",
	"red":               "160",
	render.ColorBar:     "38",
	render.ColorNeutral: "247",
}

func paletteStyle(color string) lipgloss.Style {
	c, ok := paletteColors[color]
	if !ok {
		c = paletteColors[render.ColorNeutral]
	}
	return lipgloss.NewStyle().Foreground(c)
}

// formatNumber formats a number with K/M suffixes for readability
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// formatDuration prints short durations with millisecond precision
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return d.Round(10 * time.Millisecond).String()
}

// highlightSnippet renders <mark> runs in the terminal highlight colour
func highlightSnippet(snippet string) string {
	var b strings.Builder
	for _, seg := range render.SnippetSegments(snippet) {
		if seg.Highlight {
			b.WriteString(markStyle.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// printCards writes search cards the way the web UI lays them out
func printCards(w io.Writer, view render.SearchView) {
	for _, c := range view.Cards {
		fmt.Fprintf(w, "%s %s  %s\n",
			headingStyle.Render(fmt.Sprintf("%d.", c.Number)),
			titleStyle.Render(c.Title),
			paletteStyle(c.CategoryColor).Render("["+c.Category+"]"))
		fmt.Fprintf(w, "   %s\n", highlightSnippet(c.Snippet))
		line := subtleStyle.Render(render.LabelScore + " " + c.Score)
		if c.URL != "" {
			line += "  " + linkStyle.Render(c.URL)
		}
		fmt.Fprintf(w, "   %s\n\n", line)
	}
}

// formatStats prints index statistics
func formatStats(w io.Writer, stats *storage.Stats) {
	fmt.Fprintln(w, headingStyle.Render("📊 Statistik Indeks"))
	fmt.Fprintln(w, "═══════════════════════")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %s\n", render.LabelTotalDocuments, formatNumber(stats.TotalDocuments))
	fmt.Fprintf(w, "Database:       %s\n", stats.DatabasePath)
	fmt.Fprintf(w, "Terakhir diindeks: %s (%s)\n",
		stats.IndexedAt.Local().Format("2006-01-02 15:04:05"), render.FormatTime(stats.IndexedAt))

	if len(stats.SampleTitles) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Contoh dokumen:")
	for _, title := range stats.SampleTitles {
		fmt.Fprintf(w, "  • %s\n", title)
	}
}

// printBars draws a proportional bar list of the given width
func printBars(w io.Writer, bars []render.Bar, width int, suffix func(render.Bar) string) {
	for _, bar := range bars {
		filled := int(bar.Width / 100 * float64(width))
		if bar.Count > 0 && filled == 0 {
			filled = 1
		}
		fmt.Fprintf(w, "  %-20s %s%s %s\n",
			render.Truncate(bar.Label, 20),
			paletteStyle(bar.Color).Render(strings.Repeat("█", filled)),
			subtleStyle.Render(strings.Repeat("░", width-filled)),
			suffix(bar))
	}
}
