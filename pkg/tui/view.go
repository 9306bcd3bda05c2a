package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/cari/pkg/render"
)

const barWidth = 30

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")
	inputStyle := m.styles.inputBlur
	if m.focus == focusInput && !m.modal.open {
		inputStyle = m.styles.input
	}
	b.WriteString(inputStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.toolbar())
	b.WriteString("\n\n")

	if m.modal.open {
		b.WriteString(m.modalView())
	} else {
		b.WriteString(m.body())
	}

	if m.notice != "" {
		b.WriteString("\n")
		style := m.styles.notice
		if m.noticeErr {
			style = m.styles.errorText
		}
		b.WriteString(style.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	theme := "terang"
	if m.styles.dark {
		theme = "gelap"
	}
	title := m.styles.title.Render("cari") + m.styles.subtle.Render(" · Mesin Pencari Dokumen Indonesia")
	return title + m.styles.subtle.Render(fmt.Sprintf("  [tema: %s]", theme))
}

func (m Model) toolbar() string {
	category := render.SelectedValue(m.options)
	label := category
	for _, o := range m.options {
		if o.Selected {
			label = o.Label
		}
	}
	parts := []string{m.styles.subtle.Render("Kategori:") + " ‹ " + label + " ›"}

	reindex := "[" + render.LabelReindex + "]"
	if m.ctrl.Reindexing() {
		reindex = m.styles.disabled.Render(render.LabelReindexBusy)
	}
	parts = append(parts, reindex)

	analyze := "[" + render.LabelAnalyze + "]"
	switch {
	case m.ctrl.Analyzing():
		analyze = m.styles.disabled.Render(render.LabelAnalyzeBusy)
	case m.focus == focusAnalyze && !m.modal.open:
		analyze = m.styles.focused.Render(analyze)
	}
	parts = append(parts, analyze)

	line := strings.Join(parts, "   ")
	if len(m.quick) > 0 {
		var qs []string
		for i, q := range m.quick {
			if i >= 9 {
				break
			}
			qs = append(qs, fmt.Sprintf("%s %s", m.styles.subtle.Render(fmt.Sprintf("alt+%d", i+1)), q))
		}
		line += "\n" + m.styles.subtle.Render("Cepat: ") + strings.Join(qs, " · ")
	}
	return line
}

func (m Model) body() string {
	if m.loading {
		return m.styles.subtle.Render("Mencari...")
	}
	if m.view == nil {
		return m.panelView(m.panel)
	}

	var b strings.Builder
	banner := m.view.Banner
	b.WriteString(m.styles.subtle.Render(fmt.Sprintf("Ditemukan %d hasil untuk \"%s\" (%s)",
		banner.Total, banner.Query, render.FormatElapsed(banner.ElapsedMS))))
	b.WriteString("\n")
	resultsStyle := lipgloss.NewStyle()
	if m.focus == focusResults {
		resultsStyle = resultsStyle.BorderLeft(true).BorderStyle(lipgloss.ThickBorder()).BorderForeground(m.styles.title.GetForeground())
	}
	b.WriteString(resultsStyle.Render(m.results.View()))
	if p := m.view.Pagination; p.Visible {
		b.WriteString("\n")
		b.WriteString(m.paginationView(p))
	}
	return b.String()
}

func (m Model) paginationView(p render.Pagination) string {
	prev := "← " + render.LabelPrevious
	next := render.LabelNext + " →"
	if !p.PrevEnabled {
		prev = m.styles.disabled.Render(prev)
	}
	if !p.NextEnabled {
		next = m.styles.disabled.Render(next)
	}
	return fmt.Sprintf("%s   Halaman %d dari %d   %s", prev, p.Page, p.Pages, next)
}

func (m Model) panelView(p render.Panel) string {
	if p.Kind == render.PanelNone {
		return ""
	}
	lines := []string{
		m.styles.badge(p.Color).Render(p.Title),
		m.styles.subtle.Render(p.Message),
	}
	switch {
	case p.Reindex:
		lines = append(lines, "", "ctrl+r  "+render.LabelReindex)
	case p.Kind == render.PanelError:
		lines = append(lines, "", "ctrl+l  "+render.LabelReload)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

// syncResults renders the cards into the results viewport.
func (m *Model) syncResults() {
	if m.view == nil {
		m.results.SetContent("")
		return
	}
	cards := make([]string, 0, len(m.view.Cards))
	width := max(m.width-4, 20)
	for _, c := range m.view.Cards {
		cards = append(cards, m.cardView(c, width))
	}
	m.results.SetContent(strings.Join(cards, "\n"))
	m.results.GotoTop()
}

func (m Model) cardView(c render.Card, width int) string {
	head := m.styles.number.Render(fmt.Sprint(c.Number)) + " " +
		m.styles.cardTitle.Render(c.Title) + "  " +
		m.styles.badge(c.CategoryColor).Render(c.Category)

	var snippet strings.Builder
	for _, seg := range render.SnippetSegments(c.Snippet) {
		if seg.Highlight {
			snippet.WriteString(m.styles.mark.Render(seg.Text))
		} else {
			snippet.WriteString(seg.Text)
		}
	}

	foot := m.styles.score.Render(render.LabelScore + " " + c.Score)
	if c.URL != "" {
		foot += "   " + render.LabelReadMore + ": " + m.styles.link.Render(c.URL)
	}
	body := lipgloss.NewStyle().Width(width - 4).Render(snippet.String())
	return m.styles.card.Width(width).Render(head + "\n" + body + "\n" + foot)
}

func (m Model) modalView() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(render.LabelAnalyze))
	b.WriteString("\n\n")

	focused := ""
	if m.modal.trap != nil {
		focused = m.modal.trap.Focused()
	}

	switch {
	case m.modal.loading:
		b.WriteString(m.styles.subtle.Render(render.LabelAnalyzeBusy))
	case m.modal.view.Error != "":
		b.WriteString(m.styles.errorText.Render("Terjadi Kesalahan"))
		b.WriteString("\n")
		b.WriteString(m.modal.view.Error)
	default:
		v := m.modal.view
		b.WriteString(m.section("Statistik Dokumen", focused == modalCategories))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s %d\n\n", render.LabelTotalDocuments, v.TotalDocuments))
		b.WriteString(render.LabelCategoryDist + ":\n")
		for _, bar := range v.Categories {
			b.WriteString(m.barView(bar, fmt.Sprintf("%d (%s)", bar.Count, bar.Percent)))
		}
		b.WriteString("\n")
		b.WriteString(m.section(render.LabelTopWords, focused == modalWords))
		b.WriteString("\n")
		for _, bar := range v.Words {
			b.WriteString(m.barView(bar, render.CountLabel(bar.Count)))
		}
	}

	closeBtn := "[Tutup]"
	if focused == modalClose {
		closeBtn = m.styles.focused.Render(closeBtn)
	}
	b.WriteString("\n\n")
	b.WriteString(closeBtn)
	return m.styles.modal.Render(b.String())
}

func (m Model) section(title string, focused bool) string {
	if focused {
		return m.styles.focused.Render(title)
	}
	return lipgloss.NewStyle().Bold(true).Render(title)
}

func (m Model) barView(bar render.Bar, suffix string) string {
	filled := int(bar.Width / 100 * barWidth)
	if bar.Count > 0 && filled == 0 {
		filled = 1
	}
	fill := m.styles.badge(bar.Color).Render(strings.Repeat("█", filled))
	rest := m.styles.subtle.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%-18s %s%s %s\n", render.Truncate(bar.Label, 18), fill, rest, suffix)
}
