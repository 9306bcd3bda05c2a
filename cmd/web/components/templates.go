package components

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/a-h/templ"
	"github.com/rubiojr/cari/pkg/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var labels = map[string]string{
	"search":                render.LabelSearch,
	"search_hint":           render.LabelSearchHint,
	"reset":                 render.LabelReset,
	"reindex":               render.LabelReindex,
	"reload":                render.LabelReload,
	"analyze":               render.LabelAnalyze,
	"read_more":             render.LabelReadMore,
	"score":                 render.LabelScore,
	"previous":              render.LabelPrevious,
	"next":                  render.LabelNext,
	"total_documents":       render.LabelTotalDocuments,
	"category_distribution": render.LabelCategoryDist,
	"top_words":             render.LabelTopWords,
}

var panelClasses = map[render.PanelKind]string{
	render.PanelWelcome:    "welcome",
	render.PanelLoading:    "loading",
	render.PanelNotIndexed: "not-indexed",
	render.PanelEmpty:      "empty",
	render.PanelNoResults:  "no-results",
	render.PanelError:      "error",
}

// barRow pairs a bar with its formatted value column.
type barRow struct {
	Bar   render.Bar
	Value string
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"label": func(key string) string {
			return labels[key]
		},
		"panelClass": func(kind render.PanelKind) string {
			return panelClasses[kind]
		},
		"isError": func(kind render.PanelKind) bool {
			return kind == render.PanelError
		},
		"elapsed": render.FormatElapsed,
		// Snippets are escaped by the search service before the match
		// markers become <mark> tags.
		"trusted": func(s string) template.HTML {
			return template.HTML(s)
		},
		"safeURL": func(u string) template.URL {
			return template.URL(templ.URL(u))
		},
		"width": func(w float64) string {
			return fmt.Sprintf("%.1f", w)
		},
		"barRow": func(b render.Bar, value string) barRow {
			return barRow{Bar: b, Value: value}
		},
		"categoryValue": func(b render.Bar) string {
			return fmt.Sprintf("%d (%s)", b.Count, b.Percent)
		},
		"countLabel": render.CountLabel,
	}
}

var templates = template.Must(
	template.New("components").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html"),
)

func component(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}
