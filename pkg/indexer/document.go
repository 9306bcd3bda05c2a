// Package indexer turns a folder of text and Markdown files into index
// documents and keeps the index in sync with the folder.
package indexer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rubiojr/cari/pkg/lang"
	"github.com/rubiojr/cari/pkg/log"
	"github.com/rubiojr/cari/pkg/storage"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var logger = log.ForService("indexer")

var (
	markdown   = goldmark.New()
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// ProgressFunc is called after each file is processed.
type ProgressFunc func(done, total int, path string)

// Walk returns the files under root matching any include pattern, as sorted
// slash-separated paths relative to root.
func Walk(root string, include []string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("corpus folder: %w", err)
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(fsys, filepath.ToSlash(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Matches reports whether the relative path matches one of the patterns.
func Matches(rel string, include []string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range include {
		if ok, err := doublestar.PathMatch(filepath.ToSlash(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ParseDocument reads root/rel and builds its index document.
//
// Files may start with header lines ("url: ...", "category: ...",
// "title: ...") in any order. Markdown files are reduced to plain text and
// their first level one heading becomes the title. Without a title header
// the file name is used, and without a category header the first directory
// under root is used. Control characters other than newlines and tabs are
// dropped. The second return value is false for files with no content.
func ParseDocument(root, rel string) (storage.Document, bool, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return storage.Document{}, false, fmt.Errorf("reading %s: %w", rel, err)
	}

	headers, body := splitHeaders(lang.StripControl(string(data)))
	doc := storage.Document{
		Path:     rel,
		URL:      headers["url"],
		Title:    headers["title"],
		Category: headers["category"],
	}

	if isMarkdown(rel) {
		var heading string
		body, heading = markdownText([]byte(body))
		if doc.Title == "" {
			doc.Title = heading
		}
	}

	doc.Content = strings.TrimSpace(blankLines.ReplaceAllString(body, "\n\n"))
	if doc.Content == "" {
		return doc, false, nil
	}

	if doc.Title == "" {
		doc.Title = humanize(strings.TrimSuffix(path.Base(rel), path.Ext(rel)))
	}
	if doc.Category == "" {
		if dir, _, ok := strings.Cut(rel, "/"); ok {
			doc.Category = humanize(dir)
		}
	}
	return doc, true, nil
}

// Build parses every matching file under root. Unreadable files abort the
// build; empty files are skipped.
func Build(ctx context.Context, root string, include []string, progress ProgressFunc) ([]storage.Document, error) {
	files, err := Walk(root, include)
	if err != nil {
		return nil, err
	}

	docs := make([]storage.Document, 0, len(files))
	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, ok, err := ParseDocument(root, rel)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, doc)
		} else {
			logger.Debugf("skipping empty document %s", rel)
		}

		if progress != nil {
			progress(i+1, len(files), rel)
		}
	}
	return docs, nil
}

var headerKeys = map[string]bool{"url": true, "category": true, "title": true}

func splitHeaders(content string) (map[string]string, string) {
	headers := make(map[string]string)
	rest := strings.TrimPrefix(content, "\ufeff")
	for {
		line, remainder, found := strings.Cut(rest, "\n")
		key, value, ok := strings.Cut(line, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || !headerKeys[key] {
			break
		}
		if _, dup := headers[key]; dup {
			break
		}
		headers[key] = strings.TrimSpace(value)
		if !found {
			rest = ""
			break
		}
		rest = remainder
	}
	return headers, rest
}

func isMarkdown(rel string) bool {
	switch strings.ToLower(path.Ext(rel)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// markdownText returns the plain text of a Markdown document and the text
// of its first level one heading.
func markdownText(source []byte) (string, string) {
	root := markdown.Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	var heading string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && heading == "" {
				heading = strings.TrimSpace(inlineText(node, source))
			}
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteString("\n")
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String(), heading
}

func inlineText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// humanize turns "danau_toba" or "tari-kecak" into "Danau Toba" or "Tari Kecak".
func humanize(name string) string {
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	return cases.Title(language.Indonesian).String(strings.Join(strings.Fields(name), " "))
}
