package components

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/rubiojr/cari/pkg/render"
)

// Page renders the complete search page.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		settings, err := templ.ToGoHTML(ctx, templ.JSONScript("cari-settings", data.Settings))
		if err != nil {
			return err
		}
		return component("page", pageView{PageData: data, Welcome: render.WelcomePanel, SettingsScript: settings}).Render(ctx, w)
	})
}

// pageView adds what the page template needs beyond PageData.
type pageView struct {
	PageData
	// Welcome is kept in a <template> element so app.js can restore the
	// initial state without a round trip.
	Welcome        render.Panel
	SettingsScript template.HTML
}

// Panel renders one of the full width status panels.
func Panel(p render.Panel) templ.Component {
	return component("panel", p)
}

// Results renders a search outcome. The root element carries the page
// metadata app.js needs for pagination.
func Results(view render.SearchView) templ.Component {
	if view.NoResults {
		return Panel(render.NoResultsPanel)
	}
	return component("results", view)
}

// Card renders one result. The snippet is trusted markup from the backend.
func Card(c render.Card) templ.Component {
	return component("card", c)
}

// Pager renders the previous/next controls.
func Pager(p render.Pagination) templ.Component {
	return component("pager", p)
}

// CategoryOptions renders the <option> list of the category selector.
func CategoryOptions(opts []render.Option) templ.Component {
	return component("category-options", opts)
}

// Analysis renders the body of the analysis modal.
func Analysis(view render.AnalysisView) templ.Component {
	return component("analysis", view)
}
