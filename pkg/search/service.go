package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/rubiojr/cari/pkg/storage"
)

const (
	// DefaultLimit is used when a request does not specify a page size.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may ask for.
	MaxLimit = 50
	// DefaultTopWords is the number of words reported by Analyze.
	DefaultTopWords = 20
)

// SearchParams holds everything needed for one search request.
type SearchParams struct {
	// Query is the raw user text.
	Query string

	// Category restricts results to one category. Empty means all.
	Category string

	// Page is 1-based.
	Page int

	// Limit is the number of results per page, between 1 and MaxLimit.
	Limit int
}

// Result is one search hit ready for presentation.
type Result struct {
	Title    string
	Category string
	URL      string
	Path     string
	// Snippet is HTML with matches wrapped in <mark>. Everything else in it
	// has been escaped.
	Snippet string
	Score   float64
}

// SearchResults is a page of results plus pagination metadata.
type SearchResults struct {
	Query   string
	Results []Result

	// Total is the number of matching documents across all pages.
	Total int

	// Pages is ceil(Total/Limit), never less than 1.
	Pages int

	Page  int
	Limit int

	// MatchQuery is the FTS5 expression that was executed.
	MatchQuery string
}

// Analysis describes the indexed corpus.
type Analysis struct {
	TotalDocuments int
	Categories     []storage.CategoryCount
	TopWords       []storage.WordCount
}

// Service executes searches against a document index.
type Service struct {
	index *storage.Index
}

func NewService(index *storage.Index) *Service {
	return &Service{index: index}
}

// Search runs params against the index. Queries without searchable tokens
// return an empty first page rather than an error.
func (s *Service) Search(ctx context.Context, params SearchParams) (*SearchResults, error) {
	params = normalize(params)
	results := &SearchResults{
		Query:   params.Query,
		Results: []Result{},
		Pages:   1,
		Page:    params.Page,
		Limit:   params.Limit,
	}

	match := BuildMatch(params.Query)
	if match == "" {
		return results, nil
	}
	results.MatchQuery = match

	total, err := s.index.Count(ctx, match, params.Category)
	if err != nil {
		return nil, err
	}
	results.Total = total
	results.Pages = PageCount(total, params.Limit)

	hits, err := s.index.Search(ctx, match, params.Category, params.Limit, (params.Page-1)*params.Limit)
	if err != nil {
		return nil, err
	}
	for _, h := range hits {
		results.Results = append(results.Results, Result{
			Title:    h.Title,
			Category: h.Category,
			URL:      h.URL,
			Path:     h.Path,
			Snippet:  Highlight(h.Snippet),
			Score:    h.Score,
		})
	}
	return results, nil
}

// Categories lists the categories present in the index.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	if _, err := s.index.IndexedAt(ctx); err != nil {
		return nil, err
	}
	return s.index.Categories(ctx)
}

// Stats returns index statistics, or storage.ErrNotIndexed.
func (s *Service) Stats(ctx context.Context) (*storage.Stats, error) {
	return s.index.Stats(ctx)
}

// Analyze reports document counts per category and the topN most frequent
// words, stopwords excluded.
func (s *Service) Analyze(ctx context.Context, topN int) (*Analysis, error) {
	if topN <= 0 {
		topN = DefaultTopWords
	}

	stats, err := s.index.Stats(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.index.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	words, err := s.index.TopWords(ctx, topN, Stopwords)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		TotalDocuments: stats.TotalDocuments,
		Categories:     categories,
		TopWords:       words,
	}, nil
}

// PageCount returns the number of pages needed for total results, at
// least 1 so an empty result set still has a current page.
func PageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}

func normalize(params SearchParams) SearchParams {
	params.Query = strings.TrimSpace(params.Query)
	params.Category = NormalizeCategory(params.Category)
	if params.Page < 1 {
		params.Page = 1
	}
	params.Limit = clampLimit(params.Limit)
	return params
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// ParseSearchParams reads search parameters from an HTTP query string.
//
// Supported parameters:
//   - q: search text
//   - category: category name; "Semua" or empty means all categories
//   - page: page number (positive integer, defaults to 1)
//   - limit: results per page (defaults to 10, clamped to 1..50)
//
// Malformed numbers fall back to the defaults.
func ParseSearchParams(queryParams map[string][]string) SearchParams {
	params := SearchParams{
		Page:  1,
		Limit: DefaultLimit,
	}

	if q := queryParams["q"]; len(q) > 0 {
		params.Query = strings.TrimSpace(q[0])
	}

	if c := queryParams["category"]; len(c) > 0 {
		params.Category = NormalizeCategory(c[0])
	}

	if limitStr := queryParams["limit"]; len(limitStr) > 0 && limitStr[0] != "" {
		if parsed, err := strconv.Atoi(limitStr[0]); err == nil {
			params.Limit = min(max(parsed, 1), MaxLimit)
		}
	}

	if pageStr := queryParams["page"]; len(pageStr) > 0 && pageStr[0] != "" {
		if parsed, err := strconv.Atoi(pageStr[0]); err == nil && parsed > 0 {
			params.Page = parsed
		}
	}

	return params
}
