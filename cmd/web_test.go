package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/render"
)

var testCorpus = map[string]string{
	"sejarah/candi_borobudur.txt": "title: Candi Borobudur\nurl: https://example.com/borobudur\n\n" +
		"Candi Borobudur adalah candi Buddha terbesar di dunia, dibangun pada abad kesembilan di Jawa Tengah.",
	"wisata/danau_toba.md": "# Danau Toba\n\n" +
		"Danau Toba adalah danau vulkanik terbesar di Sumatera Utara dan tujuan wisata yang populer.",
	"budaya/tari_kecak.txt": "Tari Kecak adalah pertunjukan budaya dari Bali yang dibawakan puluhan penari pria.",
}

func writeCorpus(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}

// setupTestWebServer builds a web server over a temporary corpus. The
// corpus is indexed only when index is true.
func setupTestWebServer(t *testing.T, files map[string]string, index bool) (*WebServer, http.Handler) {
	t.Helper()
	dir := t.TempDir()
	corpus := filepath.Join(dir, "corpus")
	if err := os.MkdirAll(corpus, 0755); err != nil {
		t.Fatal(err)
	}
	writeCorpus(t, corpus, files)

	configPath := filepath.Join(dir, "config.toml")
	configData := fmt.Sprintf("storage_dir = %q\ncorpus_dir = %q\n", filepath.Join(dir, "data"), corpus)
	if err := os.WriteFile(configPath, []byte(configData), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := loadBackend(configPath)
	if err != nil {
		t.Fatalf("loading backend: %v", err)
	}
	t.Cleanup(func() { closeBackend(b) })

	if index {
		if _, err := b.reindexer.Run(context.Background(), nil); err != nil {
			t.Fatalf("indexing corpus: %v", err)
		}
	}

	ws := newWebServer(b)
	return ws, ws.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHomeNotIndexed(t *testing.T) {
	_, h := setupTestWebServer(t, testCorpus, false)

	rec := get(t, h, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, render.NotIndexedPanel.Title) {
		t.Errorf("expected not indexed panel, got:\n%s", body)
	}
	if !strings.Contains(body, `class="reindex-action"`) {
		t.Error("not indexed panel should offer a reindex action")
	}
	if !strings.Contains(body, `<option value="Semua" selected>`) {
		t.Error("category selector should start on the All sentinel")
	}
}

func TestHomeStartupPanels(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{"indexed corpus", testCorpus, `<div id="content"><div class="panel panel-welcome`},
		{"empty corpus", nil, `<div id="content"><div class="panel panel-empty`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := setupTestWebServer(t, tt.files, true)
			body := get(t, h, "/").Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("expected %s in page:\n%s", tt.want, body)
			}
		})
	}
}

func TestHomeResetControls(t *testing.T) {
	_, h := setupTestWebServer(t, nil, false)
	body := get(t, h, "/").Body.String()

	for _, want := range []string{
		`<a href="/" id="home-link"`,
		`<button type="button" id="reset-btn">` + render.LabelReset + `</button>`,
		`<template id="welcome-panel"><div class="panel panel-welcome`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %s", want)
		}
	}
	// The restorable welcome panel is there even when the startup panel
	// is a different one.
	if !strings.Contains(body, `<div id="content"><div class="panel panel-not-indexed`) {
		t.Errorf("expected the not indexed startup panel:\n%s", body)
	}

	js := get(t, h, "/static/app.js").Body.String()
	for _, want := range []string{"function reset()", `$("reset-btn").addEventListener("click", reset)`, "welcome.content.cloneNode"} {
		if !strings.Contains(js, want) {
			t.Errorf("app.js missing %s", want)
		}
	}
}

func TestHomeSettings(t *testing.T) {
	_, h := setupTestWebServer(t, testCorpus, true)
	body := get(t, h, "/").Body.String()

	for _, want := range []string{
		`id="cari-settings"`,
		`"page_size":20`,
		`"reindex_delay_ms":3000`,
		`data-query="danau toba"`,
		`<option value="Sejarah">Sejarah</option>`,
		`src="/static/app.js"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %s", want)
		}
	}
}

func TestUIResults(t *testing.T) {
	_, h := setupTestWebServer(t, testCorpus, true)

	rec := get(t, h, "/ui/results?q=danau&limit=20&page=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()

	for _, want := range []string{
		`data-pages="1"`,
		`data-total="1"`,
		`<h3>Danau Toba</h3>`,
		`class="badge c-green"`,
		`<mark>`,
		`<span class="number">1</span>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("results missing %s\n%s", want, body)
		}
	}
	// A single page hides the pager.
	if strings.Contains(body, `id="next-page"`) {
		t.Error("pagination should be hidden for a single page")
	}
}

func TestUIResultsCardNumbering(t *testing.T) {
	_, h := setupTestWebServer(t, testCorpus, true)

	// "adalah" appears in every document.
	body := get(t, h, "/ui/results?q=adalah&limit=1&page=2").Body.String()
	if !strings.Contains(body, `<span class="number">2</span>`) {
		t.Errorf("second page with limit 1 should number its card 2:\n%s", body)
	}
	if !strings.Contains(body, `data-pages="3"`) {
		t.Errorf("expected 3 pages:\n%s", body)
	}
	if !strings.Contains(body, `<button type="button" id="prev-page">`) {
		t.Error("previous button should be enabled on page 2")
	}
}

func TestUIResultsEscapesTitleAndURL(t *testing.T) {
	files := map[string]string{
		"umum/bahaya.txt": "title: <b>Bahaya</b>\nurl: javascript:alert(1)\n\nTeks tentang bahaya yang harus dihindari.",
	}
	_, h := setupTestWebServer(t, files, true)

	body := get(t, h, "/ui/results?q=bahaya").Body.String()
	if strings.Contains(body, "<b>Bahaya</b>") {
		t.Error("title must be escaped")
	}
	if !strings.Contains(body, "&lt;b&gt;Bahaya&lt;/b&gt;") {
		t.Errorf("escaped title not found:\n%s", body)
	}
	if strings.Contains(body, `href="javascript:`) {
		t.Error("unsafe URL must not be rendered as a link target")
	}
}

func TestUIResultsOutcomes(t *testing.T) {
	_, h := setupTestWebServer(t, testCorpus, true)

	tests := []struct {
		name   string
		target string
		status int
		want   string
	}{
		{"no results", "/ui/results?q=zzzzzz", http.StatusOK, render.NoResultsPanel.Title},
		{"missing query", "/ui/results", http.StatusBadRequest, render.MsgEmptyQuery},
		{"category filter", "/ui/results?q=adalah&category=Budaya", http.StatusOK, `data-total="1"`},
		{"all sentinel", "/ui/results?q=adalah&category=Semua", http.StatusOK, `data-total="3"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("expected %q in:\n%s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestUICategories(t *testing.T) {
	_, h := setupTestWebServer(t, testCorpus, true)

	tests := []struct {
		selected string
		want     string
	}{
		{"Wisata", `<option value="Wisata" selected>`},
		{"Hilang", `<option value="Semua" selected>`},
		{"", `<option value="Semua" selected>`},
	}

	for _, tt := range tests {
		t.Run(tt.selected, func(t *testing.T) {
			body := get(t, h, "/ui/categories?selected="+tt.selected).Body.String()
			if !strings.Contains(body, tt.want) {
				t.Errorf("expected %s in:\n%s", tt.want, body)
			}
			if strings.Count(body, "<option") != 4 {
				t.Errorf("expected All plus 3 categories, got:\n%s", body)
			}
		})
	}
}

func TestUIAnalysis(t *testing.T) {
	t.Run("indexed", func(t *testing.T) {
		_, h := setupTestWebServer(t, testCorpus, true)
		body := get(t, h, "/ui/analysis").Body.String()
		for _, want := range []string{
			render.LabelCategoryDist,
			render.LabelTopWords,
			`class="bar-fill c-blue"`,
			"1 (33.3%)",
		} {
			if !strings.Contains(body, want) {
				t.Errorf("analysis missing %s:\n%s", want, body)
			}
		}
	})

	t.Run("not indexed", func(t *testing.T) {
		_, h := setupTestWebServer(t, testCorpus, false)
		body := get(t, h, "/ui/analysis").Body.String()
		if !strings.Contains(body, api.NotIndexedMessage) {
			t.Errorf("expected inline error, got:\n%s", body)
		}
	})
}

func TestAPIRoutesMounted(t *testing.T) {
	_, h := setupTestWebServer(t, testCorpus, true)

	rec := get(t, h, "/search?q=candi")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp api.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].URL != "https://example.com/borobudur" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if rec := get(t, h, "/health"); rec.Code != http.StatusOK {
		t.Errorf("health: expected 200, got %d", rec.Code)
	}
}

func TestReindexThenHome(t *testing.T) {
	ws, h := setupTestWebServer(t, testCorpus, false)

	req := httptest.NewRequest(http.MethodPost, "/reindex", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	ws.backend.reindexer.Wait()

	body := get(t, h, "/").Body.String()
	if !strings.Contains(body, `<div id="content"><div class="panel panel-welcome`) {
		t.Error("page should show the welcome panel after reindexing")
	}
}

func TestStaticAssets(t *testing.T) {
	_, h := setupTestWebServer(t, nil, false)

	tests := []struct {
		path        string
		status      int
		contentType string
	}{
		{"/static/app.js", http.StatusOK, "application/javascript"},
		{"/static/app.css", http.StatusOK, "text/css; charset=utf-8"},
		{"/static/missing.js", http.StatusNotFound, ""},
		{"/static/../web.go", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			if tt.contentType != "" && rec.Header().Get("Content-Type") != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestGzipCompression(t *testing.T) {
	_, h := setupTestWebServer(t, nil, false)

	req := httptest.NewRequest(http.MethodGet, "/static/app.js", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Errorf("expected gzip encoding, got %q", rec.Header().Get("Content-Encoding"))
	}
}
