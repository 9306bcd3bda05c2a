package search

import (
	"html"
	"strings"

	"github.com/rubiojr/cari/pkg/lang"
	"github.com/rubiojr/cari/pkg/storage"
)

// AllCategories is the category value meaning "do not filter".
const AllCategories = "Semua"

// Stopwords are common Indonesian function words. They are dropped from
// queries and from the corpus word statistics.
var Stopwords = map[string]bool{
	"dan":   true,
	"yang":  true,
	"di":    true,
	"ke":    true,
	"dari":  true,
	"atau":  true,
	"untuk": true,
	"ini":   true,
	"itu":   true,
	"pada":  true,
}

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []string {
	return lang.Tokenize(text)
}

// BuildMatch turns free text into an FTS5 match expression: every token
// becomes a quoted prefix term and the terms are OR'ed together. Tokens
// with a different word root also match that root in the stemmed column,
// so "penari" finds "menari" and "tarian".
// Stopwords are dropped unless the query consists only of stopwords.
// It returns "" when the text has no searchable tokens.
func BuildMatch(text string) string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return ""
	}

	var kept []string
	for _, tok := range tokens {
		if !Stopwords[tok] {
			kept = append(kept, tok)
		}
	}
	if len(kept) == 0 {
		kept = tokens
	}

	seen := make(map[string]bool, len(kept))
	terms := make([]string, 0, len(kept))
	for _, tok := range kept {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, `"`+tok+`"*`)
		if root := lang.Stem(tok); root != tok && !seen["stemmed:"+root] {
			seen["stemmed:"+root] = true
			terms = append(terms, `stemmed:"`+root+`"`)
		}
	}
	return strings.Join(terms, " OR ")
}

// Highlight escapes a storage snippet for HTML and turns the match markers
// into <mark> elements. The result is safe to insert as markup.
func Highlight(snippet string) string {
	escaped := html.EscapeString(snippet)
	return strings.NewReplacer(
		storage.SnippetStart, "<mark>",
		storage.SnippetEnd, "</mark>",
	).Replace(escaped)
}

// NormalizeCategory maps the "all" sentinel and blank values to "".
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == AllCategories {
		return ""
	}
	return category
}
