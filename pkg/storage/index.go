package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rubiojr/cari/pkg/db"
	"github.com/rubiojr/cari/pkg/lang"
	"github.com/rubiojr/cari/pkg/log"
)

// Snippet markers wrapped around matched terms. ReplaceAll strips control
// characters from indexed text, so search.Highlight can escape everything
// else and then turn these into <mark> tags.
const (
	SnippetStart = "\x02"
	SnippetEnd   = "\x03"
	snippetGap   = " … "
	snippetWords = 20
)

// ErrNotIndexed is returned by Stats before the first successful index run.
var ErrNotIndexed = errors.New("database not indexed")

var logger = log.ForService("storage")

// Document is a corpus file ready to be indexed.
type Document struct {
	Path     string
	Title    string
	URL      string
	Category string
	Content  string
}

// Hit is one ranked search result.
type Hit struct {
	ID       int64
	Path     string
	Title    string
	URL      string
	Category string
	Snippet  string
	// Score is the negated BM25 rank, so higher is better.
	Score float64
}

type Stats struct {
	TotalDocuments int
	SampleTitles   []string
	DatabasePath   string
	IndexedAt      time.Time
}

type CategoryCount struct {
	Category string
	Count    int
}

type WordCount struct {
	Word  string
	Count int
}

// Index is the SQLite FTS5 document index.
type Index struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the index at dbPath and brings its schema
// up to date.
func Open(dbPath string) (*Index, error) {
	sqlDB, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.InitializeDatabase(context.Background(), sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Index{db: sqlDB, path: dbPath}, nil
}

// OpenDB opens the database file with the index pragmas but leaves the
// schema alone. Migration tooling uses it to inspect pending migrations.
func OpenDB(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Per-connection pragmas go in the DSN so every pooled connection gets them.
	pragmas := []string{
		"busy_timeout(30000)",
		"journal_mode(wal)",
		"synchronous(normal)",
		"cache_size(-64000)", // 64MB cache
		"temp_store(memory)",
	}
	dsn := "file:" + dbPath + "?_pragma=" + strings.Join(pragmas, "&_pragma=")

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}

func (i *Index) Close() error {
	return i.db.Close()
}

// Path returns the database file location.
func (i *Index) Path() string {
	return i.path
}

// DB exposes the connection for migration status reporting.
func (i *Index) DB() *sql.DB {
	return i.db
}

// ReplaceAll swaps the indexed corpus for docs in a single transaction and
// records the index time. Readers see either the old or the new corpus.
// Control characters are stripped from titles and content, and the word
// roots of both are indexed in the stemmed column.
func (i *Index) ReplaceAll(ctx context.Context, docs []Document) error {
	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (path, title, url, category, content, stemmed, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			logger.Warnf("failed to close statement: %v", err)
		}
	}()

	now := time.Now().UTC()
	for _, doc := range docs {
		title := lang.StripControl(doc.Title)
		content := lang.StripControl(doc.Content)
		stemmed := lang.StemText(title + "\n" + content)
		if _, err := stmt.ExecContext(ctx, doc.Path, title, doc.URL, doc.Category, content, stemmed, now); err != nil {
			return fmt.Errorf("inserting document %s: %w", doc.Path, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO index_meta (key, value, updated_at)
		VALUES ('last_indexed', ?, ?)
	`, now.Format(time.RFC3339), now); err != nil {
		return fmt.Errorf("recording index time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing documents: %w", err)
	}
	committed = true

	logger.Debugf("indexed %d documents", len(docs))
	return nil
}

// Search returns hits for an FTS5 match expression, best first. An empty
// category searches every category.
func (i *Index) Search(ctx context.Context, match, category string, limit, offset int) ([]Hit, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT d.id, d.path, d.title, d.url, d.category,
			snippet(docs_fts, 1, ?, ?, ?, ?),
			-bm25(docs_fts)
		FROM docs_fts
		JOIN documents d ON d.id = docs_fts.rowid
		WHERE docs_fts MATCH ? AND (? = '' OR d.category = ?)
		ORDER BY bm25(docs_fts), d.id
		LIMIT ? OFFSET ?`,
		SnippetStart, SnippetEnd, snippetGap, snippetWords,
		match, category, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ID, &h.Path, &h.Title, &h.URL, &h.Category, &h.Snippet, &h.Score); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Count returns the number of documents matching the expression.
func (i *Index) Count(ctx context.Context, match, category string) (int, error) {
	var total int
	err := i.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM docs_fts
		JOIN documents d ON d.id = docs_fts.rowid
		WHERE docs_fts MATCH ? AND (? = '' OR d.category = ?)`,
		match, category, category).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return total, nil
}

// Categories returns the distinct non-empty categories, sorted by name.
func (i *Index) Categories(ctx context.Context) ([]string, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM documents
		WHERE category != ''
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// IndexedAt returns when the corpus was last indexed, or ErrNotIndexed.
func (i *Index) IndexedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := i.db.QueryRowContext(ctx, "SELECT value FROM index_meta WHERE key = 'last_indexed'").Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotIndexed
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("reading index time: %w", err)
	}
	return time.Parse(time.RFC3339, value)
}

// Stats summarizes the index. It returns ErrNotIndexed if the corpus was
// never indexed, which is different from an index holding zero documents.
func (i *Index) Stats(ctx context.Context) (*Stats, error) {
	indexedAt, err := i.IndexedAt(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{DatabasePath: i.path, IndexedAt: indexedAt, SampleTitles: []string{}}
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&stats.TotalDocuments); err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	rows, err := i.db.QueryContext(ctx, "SELECT title FROM documents ORDER BY id LIMIT 5")
	if err != nil {
		return nil, fmt.Errorf("querying sample titles: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		stats.SampleTitles = append(stats.SampleTitles, title)
	}
	return stats, rows.Err()
}

// CategoryCounts returns document counts per category, largest first.
// Uncategorized documents are reported under the empty category.
func (i *Index) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT category, COUNT(*) AS n FROM documents
		GROUP BY category
		ORDER BY n DESC, category`)
	if err != nil {
		return nil, fmt.Errorf("querying category counts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	counts := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopWords returns the most frequent content terms. Terms shorter than
// three characters, numbers and stopwords are skipped.
func (i *Index) TopWords(ctx context.Context, limit int, stopwords map[string]bool) ([]WordCount, error) {
	rows, err := i.db.QueryContext(ctx, `
		SELECT term, SUM(cnt) AS total FROM docs_vocab
		WHERE col = 'content'
		GROUP BY term
		ORDER BY total DESC, term`)
	if err != nil {
		return nil, fmt.Errorf("querying vocabulary: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Warnf("failed to close rows: %v", err)
		}
	}()

	words := []WordCount{}
	for rows.Next() && len(words) < limit {
		var w WordCount
		if err := rows.Scan(&w.Word, &w.Count); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		if utf8.RuneCountInString(w.Word) < 3 || isNumeric(w.Word) || stopwords[w.Word] {
			continue
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// Optimize merges the FTS5 b-trees and refreshes query planner statistics.
func (i *Index) Optimize(ctx context.Context) error {
	if _, err := i.db.ExecContext(ctx, "INSERT INTO docs_fts(docs_fts) VALUES('optimize')"); err != nil {
		return fmt.Errorf("optimizing full text index: %w", err)
	}
	_, err := i.db.ExecContext(ctx, "PRAGMA optimize")
	return err
}

func (i *Index) Vacuum(ctx context.Context) error {
	_, err := i.db.ExecContext(ctx, "VACUUM")
	return err
}

func (i *Index) WALCheckpoint(ctx context.Context) error {
	_, err := i.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

// Analyze refreshes the query planner statistics.
func (i *Index) Analyze(ctx context.Context) error {
	_, err := i.db.ExecContext(ctx, "ANALYZE")
	return err
}

// Rebuild regenerates the full text index from the documents table.
func (i *Index) Rebuild(ctx context.Context) error {
	if _, err := i.db.ExecContext(ctx, "INSERT INTO docs_fts(docs_fts) VALUES('rebuild')"); err != nil {
		return fmt.Errorf("rebuilding full text index: %w", err)
	}
	return nil
}

// IntegrityCheck runs the SQLite integrity check and, unless quick is set,
// the FTS5 integrity check against the documents table.
func (i *Index) IntegrityCheck(ctx context.Context, quick bool) error {
	pragma := "PRAGMA integrity_check"
	if quick {
		pragma = "PRAGMA quick_check"
	}
	rows, err := i.db.QueryContext(ctx, pragma)
	if err != nil {
		return fmt.Errorf("running %s: %w", pragma, err)
	}
	defer rows.Close()

	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return err
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(problems) > 0 {
		return fmt.Errorf("integrity check failed: %s", strings.Join(problems, "; "))
	}

	if quick {
		return nil
	}
	if _, err := i.db.ExecContext(ctx, "INSERT INTO docs_fts(docs_fts, rank) VALUES('integrity-check', 1)"); err != nil {
		return fmt.Errorf("full text index integrity check: %w", err)
	}
	return nil
}
