package components

import "github.com/rubiojr/cari/pkg/render"

// PageData is everything the search page needs on first render.
type PageData struct {
	Title   string
	Version string
	// Panel is the startup panel evaluated once from /stats.
	Panel         render.Panel
	Categories    []render.Option
	QuickSearches []string
	Settings      Settings
}

// Settings is handed to app.js as a JSON script element.
type Settings struct {
	PageSize       int               `json:"page_size"`
	ReindexDelayMS int64             `json:"reindex_delay_ms"`
	Messages       map[string]string `json:"messages"`
}

// ClientMessages are the user visible strings app.js needs.
func ClientMessages() map[string]string {
	return map[string]string{
		"empty_query":     render.MsgEmptyQuery,
		"search_error":    render.MsgSearchError,
		"reindex_confirm": render.MsgReindexConfirm,
		"reindex_started": render.MsgReindexStarted,
		"reindex_error":   render.MsgReindexError,
		"reindex":         render.LabelReindex,
		"reindex_busy":    render.LabelReindexBusy,
		"analyze":         render.LabelAnalyze,
		"analyze_busy":    render.LabelAnalyzeBusy,
		"analyze_error":   render.MsgAnalyzeError,
	}
}
