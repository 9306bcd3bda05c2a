package controller

import (
	"context"
	"slices"

	"github.com/rubiojr/cari/pkg/render"
	"github.com/rubiojr/cari/pkg/search"
)

// LoadCategories refreshes the category list. The current selection is
// kept when the new list still offers it. On failure the previous list is
// returned unchanged along with the error, which callers may ignore.
func (c *Controller) LoadCategories(ctx context.Context) ([]render.Option, error) {
	categories, err := c.backend.Categories(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		logger.Warnf("loading categories: %v", err)
		return render.CategoryOptions(c.categories, c.state.Category), err
	}

	c.categories = slices.Clone(categories)
	opts := render.CategoryOptions(c.categories, c.state.Category)
	c.state.Category = render.SelectedValue(opts)
	return opts, nil
}

// CategoryOptions returns the selector built from the last loaded list.
func (c *Controller) CategoryOptions() []render.Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.CategoryOptions(c.categories, c.state.Category)
}

// SelectCategory changes the filter. Only All and loaded categories are
// accepted. The next search uses the new filter.
func (c *Controller) SelectCategory(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name != search.AllCategories && (name == "" || !slices.Contains(c.categories, name)) {
		return ErrUnknownCategory
	}
	c.state.Category = name
	return nil
}

// CycleCategory moves the selection delta options along the selector,
// wrapping around, and returns the new value.
func (c *Controller) CycleCategory(delta int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := render.CategoryOptions(c.categories, c.state.Category)
	cur := 0
	for i, o := range opts {
		if o.Selected {
			cur = i
		}
	}
	n := len(opts)
	next := ((cur+delta)%n + n) % n
	c.state.Category = opts[next].Value
	return c.state.Category
}
