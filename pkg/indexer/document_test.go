package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func createCorpus(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "wisata/danau_toba.txt", "url: https://example.com/toba\nDanau Toba adalah danau vulkanik.")
	writeFile(t, root, "sejarah/candi-borobudur.txt", "Candi Borobudur di Magelang.")
	writeFile(t, root, "budaya/bali/tari_kecak.md", "# Tari Kecak\n\nTarian **Bali** yang terkenal.\n\n- penari\n- api\n")
	writeFile(t, root, "catatan.txt", "category: Kuliner\ntitle: Rendang Padang\n\nRendang adalah masakan Minang.")
	writeFile(t, root, "kosong.txt", "   \n")
	writeFile(t, root, "gambar.png", "not text")
	return root
}

func TestWalk(t *testing.T) {
	root := createCorpus(t)

	files, err := Walk(root, []string{"**/*.txt", "**/*.md", "**/*.txt"})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}
	want := []string{
		"budaya/bali/tari_kecak.md",
		"catatan.txt",
		"kosong.txt",
		"sejarah/candi-borobudur.txt",
		"wisata/danau_toba.txt",
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, files)
	}
}

func TestWalkMissingFolder(t *testing.T) {
	if _, err := Walk(filepath.Join(t.TempDir(), "missing"), []string{"**/*.txt"}); err == nil {
		t.Error("Expected error for missing corpus folder")
	}
}

func TestMatches(t *testing.T) {
	include := []string{"**/*.txt", "**/*.md"}
	tests := map[string]bool{
		"a.txt":          true,
		"dir/sub/b.md":   true,
		"dir/c.png":      false,
		"dir/notes.txt~": false,
	}
	for rel, want := range tests {
		if got := Matches(rel, include); got != want {
			t.Errorf("Matches(%q) = %v, want %v", rel, got, want)
		}
	}
}

func TestParseDocument(t *testing.T) {
	root := createCorpus(t)

	tests := []struct {
		rel      string
		title    string
		category string
		url      string
		content  string
	}{
		{
			rel:      "wisata/danau_toba.txt",
			title:    "Danau Toba",
			category: "Wisata",
			url:      "https://example.com/toba",
			content:  "Danau Toba adalah danau vulkanik.",
		},
		{
			rel:      "sejarah/candi-borobudur.txt",
			title:    "Candi Borobudur",
			category: "Sejarah",
			content:  "Candi Borobudur di Magelang.",
		},
		{
			rel:      "catatan.txt",
			title:    "Rendang Padang",
			category: "Kuliner",
			content:  "Rendang adalah masakan Minang.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			doc, ok, err := ParseDocument(root, tt.rel)
			if err != nil {
				t.Fatalf("ParseDocument failed: %v", err)
			}
			if !ok {
				t.Fatal("Expected document to have content")
			}
			if doc.Title != tt.title {
				t.Errorf("Title: expected %q, got %q", tt.title, doc.Title)
			}
			if doc.Category != tt.category {
				t.Errorf("Category: expected %q, got %q", tt.category, doc.Category)
			}
			if doc.URL != tt.url {
				t.Errorf("URL: expected %q, got %q", tt.url, doc.URL)
			}
			if doc.Content != tt.content {
				t.Errorf("Content: expected %q, got %q", tt.content, doc.Content)
			}
			if doc.Path != tt.rel {
				t.Errorf("Path: expected %q, got %q", tt.rel, doc.Path)
			}
		})
	}
}

func TestParseMarkdownDocument(t *testing.T) {
	root := createCorpus(t)

	doc, ok, err := ParseDocument(root, "budaya/bali/tari_kecak.md")
	if err != nil || !ok {
		t.Fatalf("ParseDocument failed: ok=%v err=%v", ok, err)
	}
	if doc.Title != "Tari Kecak" {
		t.Errorf("Expected heading as title, got %q", doc.Title)
	}
	if doc.Category != "Budaya" {
		t.Errorf("Expected top level directory as category, got %q", doc.Category)
	}
	for _, want := range []string{"Tarian Bali yang terkenal.", "penari", "api"} {
		if !strings.Contains(doc.Content, want) {
			t.Errorf("Expected content to contain %q, got %q", want, doc.Content)
		}
	}
	if strings.ContainsAny(doc.Content, "#*") {
		t.Errorf("Expected markdown syntax to be stripped, got %q", doc.Content)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	root := createCorpus(t)

	_, ok, err := ParseDocument(root, "kosong.txt")
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	if ok {
		t.Error("Expected empty document to be skipped")
	}
}

func TestParseDocumentStripsControlCharacters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "aneh.txt", "title: Judul\x02 Aneh\nawal \x03 danau toba \x02 akhir\r\n\tbaris\x00 dua")

	doc, ok, err := ParseDocument(root, "aneh.txt")
	if err != nil || !ok {
		t.Fatalf("ParseDocument failed: ok=%v err=%v", ok, err)
	}
	if doc.Title != "Judul Aneh" {
		t.Errorf("Unexpected title %q", doc.Title)
	}
	if doc.Content != "awal  danau toba  akhir\n\tbaris dua" {
		t.Errorf("Unexpected content %q", doc.Content)
	}
}

func TestSplitHeaders(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		headers map[string]string
		body    string
	}{
		{"no headers", "Isi dokumen: penting", map[string]string{}, "Isi dokumen: penting"},
		{"url only", "url: https://a.id/x\nIsi", map[string]string{"url": "https://a.id/x"}, "Isi"},
		{"case insensitive", "URL: https://a.id\nTitle: Judul\nIsi", map[string]string{"url": "https://a.id", "title": "Judul"}, "Isi"},
		{"headers only", "title: Judul", map[string]string{"title": "Judul"}, ""},
		{"repeated key stops", "title: A\ntitle: B", map[string]string{"title": "A"}, "title: B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers, body := splitHeaders(tt.input)
			if len(headers) != len(tt.headers) {
				t.Fatalf("Expected headers %v, got %v", tt.headers, headers)
			}
			for k, v := range tt.headers {
				if headers[k] != v {
					t.Errorf("Header %s: expected %q, got %q", k, v, headers[k])
				}
			}
			if body != tt.body {
				t.Errorf("Body: expected %q, got %q", tt.body, body)
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"danau_toba":      "Danau Toba",
		"tari-kecak":      "Tari Kecak",
		"SEJARAH":         "Sejarah",
		"  ruang__kosong": "Ruang Kosong",
	}
	for in, want := range tests {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuild(t *testing.T) {
	root := createCorpus(t)

	var calls []string
	docs, err := Build(context.Background(), root, []string{"**/*.txt", "**/*.md"}, func(done, total int, path string) {
		if total != 5 {
			t.Errorf("Expected total of 5, got %d", total)
		}
		calls = append(calls, path)
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(docs) != 4 {
		t.Errorf("Expected 4 documents, got %d", len(docs))
	}
	if len(calls) != 5 {
		t.Errorf("Expected progress for 5 files, got %d", len(calls))
	}
}

func TestBuildCancelled(t *testing.T) {
	root := createCorpus(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Build(ctx, root, []string{"**/*.txt"}, nil); err == nil {
		t.Error("Expected cancelled build to fail")
	}
}
