// Package search turns user queries into ranked, highlighted results from
// the document index.
//
// The package sits between the HTTP surfaces and the FTS5 index in
// pkg/storage. It owns three concerns:
//
//   - Query building: BuildMatch tokenizes user text, drops Indonesian
//     stopwords and produces an OR'ed prefix match expression, so "danau
//     toba" matches documents mentioning either word, best first.
//   - Highlighting: Highlight escapes index snippets and converts the
//     storage match markers into <mark> elements. Clients may insert the
//     snippet as markup without further sanitizing.
//   - Pagination: Service.Search reports Total and Pages (at least 1) so
//     clients can keep their current page within range.
//
// # Usage
//
//	service := search.NewService(index)
//	params := search.ParseSearchParams(r.URL.Query())
//	results, err := service.Search(ctx, params)
//
// Corpus analysis:
//
//	analysis, err := service.Analyze(ctx, search.DefaultTopWords)
//
// Both Analyze and Stats return storage.ErrNotIndexed until the corpus has
// been indexed once.
package search
