package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rubiojr/cari/pkg/controller"
	"github.com/rubiojr/cari/pkg/realtime"
	"github.com/rubiojr/cari/pkg/render"
)

type statusMsg struct {
	panel render.Panel
}

type categoriesMsg struct {
	options []render.Option
	err     error
}

type searchMsg struct {
	outcome *controller.SearchOutcome
	err     error
}

type reindexStartedMsg struct {
	ack *controller.ReindexAck
	err error
}

type reindexSettledMsg struct {
	options []render.Option
	err     error
}

type analysisMsg struct {
	view render.AnalysisView
	err  error
}

type eventMsg struct {
	event realtime.Event
	ok    bool
}

func checkStatus(ctx context.Context, c *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{panel: c.CheckStatus(ctx)}
	}
}

func loadCategories(ctx context.Context, c *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		opts, err := c.LoadCategories(ctx)
		return categoriesMsg{options: opts, err: err}
	}
}

func runSearch(ctx context.Context, c *controller.Controller, query string) tea.Cmd {
	return func() tea.Msg {
		out, err := c.Search(ctx, query, true)
		return searchMsg{outcome: out, err: err}
	}
}

func runQuickSearch(ctx context.Context, c *controller.Controller, query string) tea.Cmd {
	return func() tea.Msg {
		out, err := c.QuickSearch(ctx, query)
		return searchMsg{outcome: out, err: err}
	}
}

func changePage(ctx context.Context, c *controller.Controller, arrow controller.Arrow) tea.Cmd {
	return func() tea.Msg {
		out, handled, err := c.HandleArrow(ctx, arrow, false)
		if !handled {
			return nil
		}
		return searchMsg{outcome: out, err: err}
	}
}

func startReindex(ctx context.Context, c *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		ack, err := c.StartReindex(ctx)
		return reindexStartedMsg{ack: ack, err: err}
	}
}

func settleReindex(ctx context.Context, c *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		opts, err := c.SettleReindex(ctx)
		return reindexSettledMsg{options: opts, err: err}
	}
}

func analyze(ctx context.Context, c *controller.Controller) tea.Cmd {
	return func() tea.Msg {
		view, err := c.Analyze(ctx)
		return analysisMsg{view: view, err: err}
	}
}

func waitForEvent(events <-chan realtime.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return eventMsg{event: ev, ok: ok}
	}
}
