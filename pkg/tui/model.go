// Package tui is the terminal interface for cari, a bubbletea program
// driving a controller.Controller against a running cari server.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rubiojr/cari/pkg/config"
	"github.com/rubiojr/cari/pkg/controller"
	"github.com/rubiojr/cari/pkg/realtime"
	"github.com/rubiojr/cari/pkg/render"
)

// Focus targets. The modal elements live inside the analysis focus trap.
const (
	focusInput   = "input"
	focusResults = "results"
	focusAnalyze = "analyze"

	modalClose      = "close"
	modalCategories = "categories"
	modalWords      = "words"
)

type Options struct {
	Controller    *controller.Controller
	Theme         *controller.ThemeController
	QuickSearches []string
	// Events optionally delivers server events such as reindex completion.
	Events <-chan realtime.Event
}

type analysisModal struct {
	open    bool
	loading bool
	view    render.AnalysisView
	trap    *render.FocusTrap
}

type Model struct {
	ctx    context.Context
	ctrl   *controller.Controller
	theme  *controller.ThemeController
	quick  []string
	events <-chan realtime.Event

	styles  styles
	keys    keyMap
	help    help.Model
	input   textinput.Model
	results viewport.Model

	focus      string
	panel      render.Panel
	view       *render.SearchView
	options    []render.Option
	loading    bool
	notice     string
	noticeErr  bool
	confirming bool
	modal      analysisModal

	width  int
	height int
}

func New(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = render.LabelSearchHint
	ti.Prompt = "🔍 "
	ti.CharLimit = 200
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	dark := false
	if opts.Theme != nil {
		dark = opts.Theme.Load() == config.ThemeDark
	}

	m := Model{
		ctx:     ctx,
		ctrl:    opts.Controller,
		theme:   opts.Theme,
		quick:   opts.QuickSearches,
		events:  opts.Events,
		styles:  newStyles(dark),
		keys:    defaultKeys(),
		help:    help.New(),
		input:   ti,
		results: viewport.New(80, 16),
		focus:   focusInput,
		panel:   render.WelcomePanel,
		options: opts.Controller.CategoryOptions(),
		width:   80,
		height:  24,
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		checkStatus(m.ctx, m.ctrl),
		loadCategories(m.ctx, m.ctrl),
		waitForEvent(m.events),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.help.Width = msg.Width
		m.results.Width = msg.Width
		m.results.Height = max(msg.Height-12, 3)
		m.syncResults()
		return m, nil

	case statusMsg:
		// The startup panel only replaces the welcome screen.
		if m.view == nil && !m.loading && m.panel.Kind == render.PanelWelcome {
			m.panel = msg.panel
		}
		return m, nil

	case categoriesMsg:
		m.options = msg.options
		return m, nil

	case searchMsg:
		return m.handleSearch(msg), nil

	case reindexStartedMsg:
		if msg.err != nil {
			m.setNotice(render.MsgReindexError, true)
			return m, nil
		}
		m.setNotice(msg.ack.Message, false)
		return m, settleReindex(m.ctx, m.ctrl)

	case reindexSettledMsg:
		if msg.options != nil {
			m.options = msg.options
		}
		return m, nil

	case analysisMsg:
		if !m.modal.open {
			return m, nil
		}
		m.modal.loading = false
		m.modal.view = msg.view
		m.modal.trap = render.NewFocusTrap(focusAnalyze, modalClose, modalCategories, modalWords)
		return m, nil

	case eventMsg:
		if !msg.ok {
			m.events = nil
			return m, nil
		}
		m.handleEvent(msg.event)
		return m, waitForEvent(m.events)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSearch(msg searchMsg) Model {
	if errors.Is(msg.err, controller.ErrStale) {
		return m
	}
	m.loading = false
	m.options = m.ctrl.CategoryOptions()

	switch {
	case errors.Is(msg.err, controller.ErrEmptyQuery):
		m.setNotice(render.MsgEmptyQuery, true)
	case msg.err != nil:
		m.view = nil
		m.panel = render.ErrorPanel(render.MsgSearchError)
	case msg.outcome.View.NoResults:
		m.view = nil
		m.panel = render.NoResultsPanel
	default:
		view := msg.outcome.View
		m.view = &view
		m.panel = render.Panel{}
	}
	m.syncResults()
	return m
}

func (m *Model) handleEvent(ev realtime.Event) {
	switch ev.Type {
	case realtime.ReindexFinished:
		m.setNotice(fmt.Sprintf("Reindex selesai: %d dokumen", ev.Documents), false)
	case realtime.ReindexFailed:
		m.setNotice(render.MsgReindexError, true)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.modal.open {
		return m.handleModalKey(msg)
	}
	if m.confirming {
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme(), nil

	case key.Matches(msg, m.keys.Reindex):
		if m.ctrl.Reindexing() {
			return m, nil
		}
		m.confirming = true
		m.setNotice(render.MsgReindexConfirm+" (y/n)", false)
		return m, nil

	case key.Matches(msg, m.keys.Analyze):
		if m.ctrl.Analyzing() {
			return m, nil
		}
		m.modal = analysisModal{open: true, loading: true}
		m.setFocus(focusAnalyze)
		return m, analyze(m.ctx, m.ctrl)

	case key.Matches(msg, m.keys.Reset):
		m.panel = m.ctrl.Reset()
		m.view = nil
		m.loading = false
		m.input.Reset()
		m.options = m.ctrl.CategoryOptions()
		m.setNotice("", false)
		m.setFocus(focusInput)
		m.syncResults()
		return m, nil

	case key.Matches(msg, m.keys.NextCategory):
		m.ctrl.CycleCategory(1)
		m.options = m.ctrl.CategoryOptions()
		return m, nil

	case key.Matches(msg, m.keys.PrevCategory):
		m.ctrl.CycleCategory(-1)
		m.options = m.ctrl.CategoryOptions()
		return m, nil

	case key.Matches(msg, m.keys.Quick):
		n, err := strconv.Atoi(strings.TrimPrefix(msg.String(), "alt+"))
		if err != nil || n < 1 || n > len(m.quick) {
			return m, nil
		}
		q := m.quick[n-1]
		m.input.SetValue(q)
		m.startLoading()
		return m, runQuickSearch(m.ctx, m.ctrl, q)

	case key.Matches(msg, m.keys.Focus):
		m.cycleFocus(false)
		return m, nil

	case key.Matches(msg, m.keys.FocusBack):
		m.cycleFocus(true)
		return m, nil

	case key.Matches(msg, m.keys.PrevPage, m.keys.NextPage) && m.focus != focusInput:
		arrow := controller.ArrowLeft
		if key.Matches(msg, m.keys.NextPage) {
			arrow = controller.ArrowRight
		}
		p := m.ctrl.Pagination()
		if (arrow == controller.ArrowLeft && !p.PrevEnabled) || (arrow == controller.ArrowRight && !p.NextEnabled) {
			return m, nil
		}
		m.startLoading()
		return m, changePage(m.ctx, m.ctrl, arrow)

	case key.Matches(msg, m.keys.Search) && m.focus == focusInput:
		q := strings.TrimSpace(m.input.Value())
		if q == "" {
			m.setNotice(render.MsgEmptyQuery, true)
			return m, nil
		}
		m.startLoading()
		return m, runSearch(m.ctx, m.ctrl, q)

	case key.Matches(msg, m.keys.Close):
		m.setNotice("", false)
		return m, nil
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		m.confirming = false
		m.setNotice(render.LabelReindexBusy, false)
		return m, startReindex(m.ctx, m.ctrl)
	case "n", "esc":
		m.confirming = false
		m.setNotice("", false)
	}
	return m, nil
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.closeModal()
	case m.modal.trap == nil:
	case key.Matches(msg, m.keys.Focus):
		m.modal.trap.Next(false)
	case key.Matches(msg, m.keys.FocusBack):
		m.modal.trap.Next(true)
	case key.Matches(msg, m.keys.Search) && m.modal.trap.Focused() == modalClose:
		m.closeModal()
	}
	return m, nil
}

func (m *Model) closeModal() {
	trigger := focusAnalyze
	if m.modal.trap != nil {
		trigger = m.modal.trap.Close()
	}
	m.modal = analysisModal{}
	m.setFocus(trigger)
}

func (m Model) toggleTheme() Model {
	if m.theme == nil {
		return m
	}
	theme, err := m.theme.Toggle()
	if err != nil {
		m.setNotice(fmt.Sprintf("Gagal menyimpan tema: %v", err), true)
	}
	m.styles = newStyles(theme == config.ThemeDark)
	m.syncResults()
	return m
}

// cycleFocus moves between the search input, the results and the analyze
// button.
func (m *Model) cycleFocus(back bool) {
	order := []string{focusInput, focusResults, focusAnalyze}
	cur := 0
	for i, f := range order {
		if f == m.focus {
			cur = i
		}
	}
	step := 1
	if back {
		step = len(order) - 1
	}
	m.setFocus(order[(cur+step)%len(order)])
}

func (m *Model) setFocus(f string) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *Model) startLoading() {
	m.loading = true
	m.setNotice("", false)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// Focus returns the focused element, inside the modal when it is open.
func (m Model) Focus() string {
	if m.modal.open && m.modal.trap != nil {
		return m.modal.trap.Focused()
	}
	return m.focus
}
