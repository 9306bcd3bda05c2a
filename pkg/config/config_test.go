package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PageSize != DefaultPageSize {
		t.Errorf("PageSize: expected %d, got %d", DefaultPageSize, cfg.PageSize)
	}
	if cfg.ReindexDelay.Duration != DefaultReindexDelay {
		t.Errorf("ReindexDelay: expected %v, got %v", DefaultReindexDelay, cfg.ReindexDelay.Duration)
	}
	if len(cfg.Palette) != 4 || cfg.Palette[0].Keyword != "sejarah" {
		t.Errorf("unexpected default palette: %+v", cfg.Palette)
	}
	if cfg.Web.ServerURL != "http://localhost:8080" {
		t.Errorf("ServerURL: got %q", cfg.Web.ServerURL)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
storage_dir = "` + filepath.ToSlash(dir) + `"
corpus_dir = "/srv/korpus"
page_size = 10
reindex_delay = "5s"

[web]
port = "9090"

[[palette]]
keyword = "kuliner"
color = "amber"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CorpusDir != "/srv/korpus" {
		t.Errorf("CorpusDir: got %q", cfg.CorpusDir)
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize: got %d", cfg.PageSize)
	}
	if cfg.ReindexDelay.Duration != 5*time.Second {
		t.Errorf("ReindexDelay: got %v", cfg.ReindexDelay.Duration)
	}
	if cfg.Addr() != "localhost:9090" {
		t.Errorf("Addr: got %q", cfg.Addr())
	}
	if len(cfg.Palette) != 1 || cfg.Palette[0].Color != "amber" {
		t.Errorf("Palette: got %+v", cfg.Palette)
	}
	if cfg.DBPath() != filepath.Join(dir, "cari.db") {
		t.Errorf("DBPath: got %q", cfg.DBPath())
	}
}

func TestLoadConfigRejectsInvalidPageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("storage_dir = \"/tmp\"\npage_size = 500\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected an error for page_size = 500")
	}
}

func TestSaveTemplateConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg", "config.toml")
	cfg := &Config{StorageDir: dir, CorpusDir: "/data/dokumen"}

	if err := cfg.SaveTemplateConfig(path); err != nil {
		t.Fatalf("SaveTemplateConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.StorageDir != dir {
		t.Errorf("StorageDir: expected %q, got %q", dir, loaded.StorageDir)
	}
	if loaded.CorpusDir != "/data/dokumen" {
		t.Errorf("CorpusDir: got %q", loaded.CorpusDir)
	}
}

func TestPreferenceStoreTheme(t *testing.T) {
	store := NewPreferenceStore(filepath.Join(t.TempDir(), "prefs", "preferences.toml"))

	theme, err := store.Theme()
	if err != nil {
		t.Fatalf("Theme on missing file: %v", err)
	}
	if theme != "" {
		t.Fatalf("expected no theme, got %q", theme)
	}

	if err := store.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	theme, err = store.Theme()
	if err != nil {
		t.Fatalf("Theme: %v", err)
	}
	if theme != ThemeDark {
		t.Fatalf("expected %q, got %q", ThemeDark, theme)
	}

	if err := store.SetTheme("sepia"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}
