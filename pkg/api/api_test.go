package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rubiojr/cari/pkg/indexer"
	"github.com/rubiojr/cari/pkg/log"
	"github.com/rubiojr/cari/pkg/realtime"
	"github.com/rubiojr/cari/pkg/search"
	"github.com/rubiojr/cari/pkg/storage"
)

type testEnv struct {
	server    *httptest.Server
	reindexer *indexer.Reindexer
	corpus    string
}

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func setupTestAPIServer(t *testing.T) *testEnv {
	t.Helper()
	corpus := t.TempDir()
	writeCorpusFile(t, corpus, "wisata/danau_toba.txt", "url: https://example.com/toba\nDanau Toba adalah danau vulkanik di Sumatera.")
	writeCorpusFile(t, corpus, "sejarah/candi_borobudur.txt", "Candi Borobudur adalah candi Buddha.")
	writeCorpusFile(t, corpus, "budaya/tari_kecak.txt", "Tari Kecak <b>dari</b> Bali.")

	idx, err := storage.Open(filepath.Join(t.TempDir(), "cari.db"))
	if err != nil {
		t.Fatalf("Failed to open index: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	hub := realtime.NewHub(16)
	reindexer := indexer.NewReindexer(idx, corpus, []string{"**/*.txt"}, hub)
	srv := NewServer(search.NewService(idx), reindexer, hub)

	r := NewRouter([]string{"*"})
	srv.RegisterRoutes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(func() {
		ts.Close()
		reindexer.Wait()
	})

	return &testEnv{server: ts, reindexer: reindexer, corpus: corpus}
}

func (e *testEnv) index(t *testing.T) {
	t.Helper()
	if _, err := e.reindexer.Run(context.Background(), nil); err != nil {
		t.Fatalf("Failed to index corpus: %v", err)
	}
}

func getJSON(t *testing.T, url string, wantStatus int, v any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: expected status %d, got %d", url, wantStatus, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("GET %s: expected JSON content type, got %q", url, ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("GET %s: decoding response: %v", url, err)
	}
}

func TestNotIndexedResponses(t *testing.T) {
	env := setupTestAPIServer(t)

	var stats StatsResponse
	getJSON(t, env.server.URL+"/stats", http.StatusOK, &stats)
	if stats.Error == "" {
		t.Error("Expected stats to report the not indexed error")
	}

	var categories CategoriesResponse
	getJSON(t, env.server.URL+"/categories", http.StatusOK, &categories)
	if categories.Error == "" || categories.Categories == nil {
		t.Errorf("Unexpected categories response: %+v", categories)
	}

	var analysis AnalyzeResponse
	getJSON(t, env.server.URL+"/analyze", http.StatusOK, &analysis)
	if analysis.Error == "" {
		t.Error("Expected analysis to report the not indexed error")
	}
}

func TestHandleSearch(t *testing.T) {
	env := setupTestAPIServer(t)
	env.index(t)

	var resp SearchResponse
	getJSON(t, env.server.URL+"/search?q=danau%20toba&limit=20&page=1", http.StatusOK, &resp)
	if resp.Total != 1 || resp.Pages != 1 || len(resp.Results) != 1 {
		t.Fatalf("Unexpected response: %+v", resp)
	}
	res := resp.Results[0]
	if res.Title != "Danau Toba" || res.Category != "Wisata" || res.URL != "https://example.com/toba" {
		t.Errorf("Unexpected result: %+v", res)
	}
	if !strings.Contains(res.Snippet, "<mark>") {
		t.Errorf("Expected highlighted snippet, got %q", res.Snippet)
	}
	if resp.Limit != 20 || resp.Query != "danau toba" {
		t.Errorf("Expected query and limit to be echoed, got %q and %d", resp.Query, resp.Limit)
	}
}

func TestHandleSearchEscapesSnippet(t *testing.T) {
	env := setupTestAPIServer(t)
	env.index(t)

	var resp SearchResponse
	getJSON(t, env.server.URL+"/search?q=kecak", http.StatusOK, &resp)
	if len(resp.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(resp.Results))
	}
	if strings.Contains(resp.Results[0].Snippet, "<b>") {
		t.Errorf("Expected document markup to be escaped, got %q", resp.Results[0].Snippet)
	}
}

func TestHandleSearchCategory(t *testing.T) {
	env := setupTestAPIServer(t)
	env.index(t)

	var resp SearchResponse
	getJSON(t, env.server.URL+"/search?q=danau+candi&category=Sejarah", http.StatusOK, &resp)
	if resp.Total != 1 || resp.Results[0].Category != "Sejarah" {
		t.Errorf("Expected only the Sejarah document, got %+v", resp)
	}

	getJSON(t, env.server.URL+"/search?q=danau+candi&category=Semua", http.StatusOK, &resp)
	if resp.Total != 2 {
		t.Errorf("Expected the all sentinel to search every category, got %d results", resp.Total)
	}
}

func TestHandleSearchMissingQuery(t *testing.T) {
	env := setupTestAPIServer(t)

	var resp ErrorResponse
	getJSON(t, env.server.URL+"/search?q=%20", http.StatusBadRequest, &resp)
	if resp.Error == "" || resp.Message == "" {
		t.Errorf("Expected error and message, got %+v", resp)
	}
}

func TestHandleStatsAndCategories(t *testing.T) {
	env := setupTestAPIServer(t)
	env.index(t)

	var stats StatsResponse
	getJSON(t, env.server.URL+"/stats", http.StatusOK, &stats)
	if stats.Error != "" || stats.TotalDocuments != 3 || len(stats.SampleTitles) != 3 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.IndexedAt == nil || stats.DatabasePath == "" {
		t.Errorf("Expected index time and database path, got %+v", stats)
	}

	var categories CategoriesResponse
	getJSON(t, env.server.URL+"/categories", http.StatusOK, &categories)
	want := "Budaya,Sejarah,Wisata"
	if got := strings.Join(categories.Categories, ","); got != want {
		t.Errorf("Expected categories %s, got %s", want, got)
	}
}

func TestHandleAnalyze(t *testing.T) {
	env := setupTestAPIServer(t)
	env.index(t)

	var analysis AnalyzeResponse
	getJSON(t, env.server.URL+"/analyze?top=5", http.StatusOK, &analysis)
	if analysis.TotalDocuments != 3 || len(analysis.Categories) != 3 {
		t.Errorf("Unexpected analysis: %+v", analysis)
	}
	if len(analysis.TopWords) == 0 || len(analysis.TopWords) > 5 {
		t.Errorf("Expected up to 5 top words, got %d", len(analysis.TopWords))
	}
	for _, w := range analysis.TopWords {
		if search.Stopwords[w.Word] {
			t.Errorf("Stopword %q in top words", w.Word)
		}
	}
}

func TestHandleReindex(t *testing.T) {
	env := setupTestAPIServer(t)

	var resp ReindexResponse
	getJSON(t, env.server.URL+"/reindex", http.StatusAccepted, &resp)
	if resp.Status != ReindexStatusStarted || resp.JobID == "" || resp.Folder != env.reindexer.Folder() {
		t.Errorf("Unexpected reindex response: %+v", resp)
	}

	env.reindexer.Wait()

	var stats StatsResponse
	getJSON(t, env.server.URL+"/stats", http.StatusOK, &stats)
	if stats.TotalDocuments != 3 || stats.Reindexing {
		t.Errorf("Expected finished reindex with 3 documents, got %+v", stats)
	}
}

func TestHandleHealth(t *testing.T) {
	env := setupTestAPIServer(t)

	var health HealthResponse
	getJSON(t, env.server.URL+"/health", http.StatusOK, &health)
	if health.Status != "ok" || health.Version == "" {
		t.Errorf("Unexpected health response: %+v", health)
	}
}

func TestCORSHeaders(t *testing.T) {
	env := setupTestAPIServer(t)

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/health", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard CORS origin, got %q", got)
	}
}

func TestLogRequests(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	h := LogRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))

	if !strings.Contains(buf.String(), "GET /search -> 418 (3 bytes)") {
		t.Errorf("Unexpected log line: %q", buf.String())
	}
}

func TestEventsStream(t *testing.T) {
	env := setupTestAPIServer(t)

	u, _ := url.Parse(env.server.URL)
	u.Scheme = "ws"
	u.Path = "/events"
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	var hello EventsInit
	if err := conn.ReadJSON(&hello); err != nil {
		t.Fatalf("read init: %v", err)
	}
	if hello.Type != "init" || hello.Reindexing {
		t.Fatalf("Unexpected init message: %+v", hello)
	}

	var resp ReindexResponse
	getJSON(t, env.server.URL+"/reindex", http.StatusAccepted, &resp)

	seen := map[string]bool{}
	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for !seen[realtime.ReindexFinished] {
		var ev realtime.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event: %v", err)
		}
		if ev.JobID != resp.JobID {
			t.Errorf("Expected events for job %s, got %s", resp.JobID, ev.JobID)
		}
		seen[ev.Type] = true
	}
	if !seen[realtime.ReindexStarted] {
		t.Error("Expected a reindex_started event before reindex_finished")
	}
}
