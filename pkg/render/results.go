package render

import (
	"fmt"
	"time"

	"github.com/rubiojr/cari/pkg/api"
)

// Card is one rendered search result.
type Card struct {
	Number   int
	Title    string
	Category string
	// CategoryColor is a palette colour name.
	CategoryColor string
	// Snippet is trusted markup containing only escaped text and <mark>.
	Snippet string
	URL     string
	Score   string
}

// Banner summarizes a result page.
type Banner struct {
	Total     int
	Query     string
	ElapsedMS int64
}

// Pagination describes the previous/next controls.
type Pagination struct {
	Visible     bool
	Page        int
	Pages       int
	PrevEnabled bool
	NextEnabled bool
}

// SearchView is everything needed to draw a search outcome.
type SearchView struct {
	// NoResults means only the "no results" panel is shown.
	NoResults  bool
	Banner     Banner
	Cards      []Card
	Pagination Pagination
}

// BuildSearchView renders resp for the given page. Card numbers continue
// across pages: (page-1)*pageSize + index + 1.
func BuildSearchView(resp *api.SearchResponse, query string, page, pageSize int, elapsed time.Duration, palette Palette) SearchView {
	pages := 1
	if resp != nil && resp.Pages > 0 {
		pages = resp.Pages
	}
	view := SearchView{Pagination: BuildPagination(page, pages)}

	if resp == nil || len(resp.Results) == 0 {
		view.NoResults = true
		return view
	}

	view.Banner = Banner{
		Total:     resp.Total,
		Query:     query,
		ElapsedMS: elapsed.Milliseconds(),
	}

	start := (page - 1) * pageSize
	view.Cards = make([]Card, len(resp.Results))
	for i, r := range resp.Results {
		view.Cards[i] = BuildCard(r, start+i+1, palette)
	}
	return view
}

// BuildCard renders a single result. Title and URL are left raw for the
// caller's escaping; the snippet is passed through as markup.
func BuildCard(r api.SearchResult, number int, palette Palette) Card {
	card := Card{
		Number:        number,
		Title:         r.Title,
		Category:      r.Category,
		CategoryColor: palette.Color(r.Category, ColorNeutral),
		Snippet:       r.Snippet,
		URL:           r.URL,
		Score:         FormatScore(r.Score),
	}
	if card.Category == "" {
		card.Category = LabelUncategorized
	}
	if card.Snippet == "" {
		card.Snippet = LabelNoPreview
	}
	return card
}

// BuildPagination enables each control only when moving in its direction
// keeps the page within [1, pages]. Controls are hidden for single pages.
func BuildPagination(page, pages int) Pagination {
	if pages < 1 {
		pages = 1
	}
	return Pagination{
		Visible:     pages > 1,
		Page:        page,
		Pages:       pages,
		PrevEnabled: page > 1,
		NextEnabled: page < pages,
	}
}

// FormatScore prints a relevance score with two decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}
