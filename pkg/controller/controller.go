// Package controller owns the interactive state of a search session.
//
// A Controller holds the query, category filter and page, issues requests
// to a Backend and turns responses into render view models. Every search
// takes a sequence number when it is issued; a response is only committed
// when no newer search was issued while it was in flight, so the last
// submitted search always wins regardless of completion order.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/client"
	"github.com/rubiojr/cari/pkg/config"
	"github.com/rubiojr/cari/pkg/log"
	"github.com/rubiojr/cari/pkg/render"
	"github.com/rubiojr/cari/pkg/search"
)

var logger = log.ForService("controller")

var (
	// ErrEmptyQuery is returned without contacting the backend.
	ErrEmptyQuery = errors.New(render.MsgEmptyQuery)

	// ErrStale marks a response superseded by a newer search.
	ErrStale = errors.New("superseded by a newer search")

	ErrPageOutOfRange  = errors.New("page out of range")
	ErrSearchFailed    = errors.New(render.MsgSearchError)
	ErrUnknownCategory = errors.New("category not offered")

	// ErrBusy is returned while the same action is still in progress.
	ErrBusy = errors.New("action already in progress")
)

// Backend is the subset of the API client the controller needs.
type Backend interface {
	Search(ctx context.Context, req client.SearchRequest) (*api.SearchResponse, error)
	Categories(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*api.StatsResponse, error)
	Reindex(ctx context.Context) (*api.ReindexResponse, error)
	Analyze(ctx context.Context) (*api.AnalyzeResponse, error)
}

// State is the search session. Page always stays within [1, TotalPages].
type State struct {
	Query      string
	Category   string
	Page       int
	TotalPages int
}

func DefaultState() State {
	return State{Category: search.AllCategories, Page: 1, TotalPages: 1}
}

type Options struct {
	PageSize     int
	ReindexDelay time.Duration
	Palette      render.Palette
}

// SearchOutcome is a committed search.
type SearchOutcome struct {
	Seq   uint64
	State State
	View  render.SearchView
}

type Controller struct {
	backend Backend
	opts    Options
	now     func() time.Time

	mu         sync.Mutex
	state      State
	seq        uint64
	categories []string
	reindexing bool
	analyzing  bool

	statusOnce sync.Once
	status     render.Panel
}

func New(backend Backend, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = config.DefaultPageSize
	}
	if opts.Palette == nil {
		opts.Palette = render.DefaultPalette()
	}
	return &Controller{
		backend: backend,
		opts:    opts,
		now:     time.Now,
		state:   DefaultState(),
	}
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pagination describes the page controls for the current state.
func (c *Controller) Pagination() render.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.BuildPagination(c.state.Page, c.state.TotalPages)
}

// Search runs query in the selected category. resetPage starts from the
// first page, otherwise the current page is requested again.
func (c *Controller) Search(ctx context.Context, query string, resetPage bool) (*SearchOutcome, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	c.mu.Lock()
	c.state.Query = query
	if resetPage {
		c.state.Page = 1
	}
	c.mu.Unlock()

	return c.run(ctx)
}

// ChangePage moves delta pages from the current one and searches again.
func (c *Controller) ChangePage(ctx context.Context, delta int) (*SearchOutcome, error) {
	c.mu.Lock()
	next := c.state.Page + delta
	if next < 1 || next > c.state.TotalPages || c.state.Query == "" {
		c.mu.Unlock()
		return nil, ErrPageOutOfRange
	}
	c.state.Page = next
	c.mu.Unlock()

	return c.run(ctx)
}

// Arrow keys page through results.
type Arrow int

const (
	ArrowLeft Arrow = iota
	ArrowRight
)

// HandleArrow pages with the arrow keys. The key is ignored (handled is
// false) while focus is inside a form control or when the matching page
// control is disabled.
func (c *Controller) HandleArrow(ctx context.Context, key Arrow, inFormControl bool) (outcome *SearchOutcome, handled bool, err error) {
	if inFormControl {
		return nil, false, nil
	}
	p := c.Pagination()
	switch {
	case key == ArrowLeft && p.PrevEnabled:
		outcome, err = c.ChangePage(ctx, -1)
	case key == ArrowRight && p.NextEnabled:
		outcome, err = c.ChangePage(ctx, 1)
	default:
		return nil, false, nil
	}
	return outcome, true, err
}

// QuickSearch runs a predefined query over all categories from page one.
func (c *Controller) QuickSearch(ctx context.Context, query string) (*SearchOutcome, error) {
	c.mu.Lock()
	c.state.Category = search.AllCategories
	c.mu.Unlock()
	return c.Search(ctx, query, true)
}

// Reset restores the default state. Searches still in flight are discarded.
func (c *Controller) Reset() render.Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.state = DefaultState()
	return render.WelcomePanel
}

func (c *Controller) run(ctx context.Context) (*SearchOutcome, error) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	req := client.SearchRequest{
		Query:    c.state.Query,
		Category: c.state.Category,
		Page:     c.state.Page,
		Limit:    c.opts.PageSize,
	}
	c.mu.Unlock()

	start := c.now()
	resp, err := c.backend.Search(ctx, req)
	elapsed := c.now().Sub(start)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		logger.Debugf("discarding response %d, latest is %d", seq, c.seq)
		return nil, ErrStale
	}
	if err != nil {
		logger.Errorf("search %q failed: %v", req.Query, err)
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	pages := max(resp.Pages, 1)
	c.state.TotalPages = pages
	c.state.Page = min(c.state.Page, pages)

	return &SearchOutcome{
		Seq:   seq,
		State: c.state,
		View:  render.BuildSearchView(resp, req.Query, req.Page, req.Limit, elapsed, c.opts.Palette),
	}, nil
}
