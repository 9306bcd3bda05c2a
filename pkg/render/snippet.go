package render

import (
	"html"
	"strings"
)

// Segment is a run of snippet text, highlighted or not.
type Segment struct {
	Text      string
	Highlight bool
}

// SnippetSegments splits snippet markup into plain text runs for surfaces
// that cannot render HTML. Only <mark> is recognized; entities are decoded.
func SnippetSegments(snippet string) []Segment {
	var segs []Segment
	rest := snippet
	for rest != "" {
		before, after, found := strings.Cut(rest, "<mark>")
		if before != "" {
			segs = append(segs, Segment{Text: html.UnescapeString(before)})
		}
		if !found {
			break
		}
		marked, tail, _ := strings.Cut(after, "</mark>")
		if marked != "" {
			segs = append(segs, Segment{Text: html.UnescapeString(marked), Highlight: true})
		}
		rest = tail
	}
	return segs
}
