package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/client"
	"github.com/rubiojr/cari/pkg/render"
)

// CheckStatus evaluates the startup panel from /stats. Only the first call
// contacts the backend; later calls return the same panel.
func (c *Controller) CheckStatus(ctx context.Context) render.Panel {
	c.statusOnce.Do(func() {
		stats, err := c.backend.Stats(ctx)
		var pe *client.PayloadError
		switch {
		case errors.As(err, &pe):
			c.status = render.StartupPanel(pe.Message, 0, false)
		case err != nil:
			logger.Errorf("checking database status: %v", err)
			c.status = render.StartupPanel("", 0, true)
		default:
			c.status = render.StartupPanel(stats.Error, stats.TotalDocuments, false)
		}
	})
	return c.status
}

// ReindexAck is shown once the server accepted a reindex request.
type ReindexAck struct {
	Folder  string
	JobID   string
	Status  string
	Message string
}

// Reindexing reports whether the reindex control is disabled.
func (c *Controller) Reindexing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reindexing
}

// StartReindex asks the server to rebuild the index. The control stays
// disabled until SettleReindex returns; on error it is released at once.
func (c *Controller) StartReindex(ctx context.Context) (*ReindexAck, error) {
	c.mu.Lock()
	if c.reindexing {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.reindexing = true
	c.mu.Unlock()

	resp, err := c.backend.Reindex(ctx)
	if err != nil {
		c.setReindexing(false)
		logger.Errorf("reindex request failed: %v", err)
		return nil, fmt.Errorf("%s: %w", render.MsgReindexError, err)
	}
	return newReindexAck(resp), nil
}

// SettleReindex waits the configured delay, releases the reindex control
// and reloads the categories. The server gives no completion signal to
// this flow, so the delay is cosmetic.
func (c *Controller) SettleReindex(ctx context.Context) ([]render.Option, error) {
	t := time.NewTimer(c.opts.ReindexDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		c.setReindexing(false)
		return nil, ctx.Err()
	}
	c.setReindexing(false)
	return c.LoadCategories(ctx)
}

func (c *Controller) setReindexing(v bool) {
	c.mu.Lock()
	c.reindexing = v
	c.mu.Unlock()
}

func newReindexAck(resp *api.ReindexResponse) *ReindexAck {
	return &ReindexAck{
		Folder:  resp.Folder,
		JobID:   resp.JobID,
		Status:  resp.Status,
		Message: fmt.Sprintf(render.MsgReindexStarted, resp.Folder),
	}
}

// Analyzing reports whether the analysis control is disabled.
func (c *Controller) Analyzing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.analyzing
}

// Analyze fetches the corpus analysis. Failures are rendered into the view
// as an inline error and also returned. The control is released before
// returning in every case.
func (c *Controller) Analyze(ctx context.Context) (render.AnalysisView, error) {
	c.mu.Lock()
	if c.analyzing {
		c.mu.Unlock()
		return render.AnalysisView{}, ErrBusy
	}
	c.analyzing = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.analyzing = false
		c.mu.Unlock()
	}()

	resp, err := c.backend.Analyze(ctx)
	if err != nil {
		logger.Errorf("analysis failed: %v", err)
	}
	return render.BuildAnalysisView(resp, err, c.opts.Palette), err
}
