package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const (
	DefaultPageSize     = 20
	DefaultReindexDelay = 3 * time.Second
	DefaultHost         = "localhost"
	DefaultPort         = "8080"
)

// DefaultInclude lists the corpus files indexed when no include patterns are set.
var DefaultInclude = []string{"**/*.txt", "**/*.md"}

type Config struct {
	StorageDir    string         `toml:"storage_dir"`
	CorpusDir     string         `toml:"corpus_dir"`
	Include       []string       `toml:"include"`
	PageSize      int            `toml:"page_size"`
	ReindexDelay  Duration       `toml:"reindex_delay"`
	Watch         bool           `toml:"watch"`
	QuickSearches []string       `toml:"quick_searches"`
	Web           WebConfig      `toml:"web"`
	Palette       []PaletteEntry `toml:"palette"`
}

type WebConfig struct {
	Host           string   `toml:"host"`
	Port           string   `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// ServerURL is where `cari tui` finds the JSON API.
	ServerURL string `toml:"server_url"`
}

// PaletteEntry maps a category keyword to a colour name. The first entry
// whose keyword is contained in the lowercased category wins.
type PaletteEntry struct {
	Keyword string `toml:"keyword"`
	Color   string `toml:"color"`
}

type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// DefaultPalette is the category colouring used when the config has none.
func DefaultPalette() []PaletteEntry {
	return []PaletteEntry{
		{Keyword: "sejarah", Color: "blue"},
		{Keyword: "wisata", Color: "green"},
		{Keyword: "budaya", Color: "purple"},
		{Keyword: "tradisi", Color: "amber"},
	}
}

// DefaultQuickSearches are offered as one-click queries in the UIs.
func DefaultQuickSearches() []string {
	return []string{"danau toba", "candi borobudur", "tari kecak", "rendang"}
}

func GetDefaultConfig() (*Config, error) {
	storageDir, err := GetDefaultStorageDir()
	if err != nil {
		return nil, fmt.Errorf("getting default storage directory: %w", err)
	}
	cfg := &Config{StorageDir: storageDir}
	cfg.applyDefaults()
	return cfg, nil
}

func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefaultConfig()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if config.StorageDir == "" {
		storageDir, err := GetDefaultStorageDir()
		if err != nil {
			return nil, fmt.Errorf("getting default storage directory: %w", err)
		}
		config.StorageDir = storageDir
	}
	config.StorageDir = expandHome(config.StorageDir)
	config.CorpusDir = expandHome(config.CorpusDir)
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.CorpusDir == "" {
		c.CorpusDir = "data"
	}
	if len(c.Include) == 0 {
		c.Include = append([]string(nil), DefaultInclude...)
	}
	if c.PageSize == 0 {
		c.PageSize = DefaultPageSize
	}
	if c.ReindexDelay.Duration == 0 {
		c.ReindexDelay = Duration{DefaultReindexDelay}
	}
	if c.QuickSearches == nil {
		c.QuickSearches = DefaultQuickSearches()
	}
	if c.Web.Host == "" {
		c.Web.Host = DefaultHost
	}
	if c.Web.Port == "" {
		c.Web.Port = DefaultPort
	}
	if len(c.Web.AllowedOrigins) == 0 {
		c.Web.AllowedOrigins = []string{"*"}
	}
	if c.Web.ServerURL == "" {
		c.Web.ServerURL = "http://" + c.Web.Host + ":" + c.Web.Port
	}
	if len(c.Palette) == 0 {
		c.Palette = DefaultPalette()
	}
}

// Validate rejects values the rest of the application cannot work with.
func (c *Config) Validate() error {
	if c.PageSize < 1 || c.PageSize > 50 {
		return fmt.Errorf("page_size must be between 1 and 50, got %d", c.PageSize)
	}
	if c.ReindexDelay.Duration < 0 {
		return fmt.Errorf("reindex_delay must not be negative")
	}
	for i, p := range c.Palette {
		if strings.TrimSpace(p.Keyword) == "" || strings.TrimSpace(p.Color) == "" {
			return fmt.Errorf("palette entry %d needs both keyword and color", i)
		}
	}
	return nil
}

// DBPath is the location of the search index inside the storage directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.StorageDir, "cari.db")
}

// Addr is the host:port the web server binds to.
func (c *Config) Addr() string {
	return c.Web.Host + ":" + c.Web.Port
}

func (c *Config) SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	template, err := c.generateConfigTemplate()
	if err != nil {
		return fmt.Errorf("generating config template: %w", err)
	}
	return os.WriteFile(configPath, []byte(template), 0644)
}

func (c *Config) generateConfigTemplate() (string, error) {
	storageDir := c.StorageDir
	if storageDir == "" {
		var err error
		storageDir, err = GetDefaultStorageDir()
		if err != nil {
			return "", fmt.Errorf("getting default storage directory: %w", err)
		}
	}

	// Replace the placeholder storage_dir with the actual path
	template := strings.Replace(configTemplate, "/home/user/.local/share/cari", storageDir, 1)
	if c.CorpusDir != "" {
		template = strings.Replace(template, `corpus_dir = "data"`, fmt.Sprintf("corpus_dir = %q", c.CorpusDir), 1)
	}
	return template, nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// GetDefaultStorageDir returns the default storage directory for the index
func GetDefaultStorageDir() (string, error) {
	// Use XDG_DATA_HOME if set, otherwise use ~/.local/share
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	cariDir := filepath.Join(dataDir, "cari")

	if err := os.MkdirAll(cariDir, 0755); err != nil {
		return "", fmt.Errorf("creating storage directory %s: %w", cariDir, err)
	}

	return cariDir, nil
}

// GetConfigDir returns the configuration directory for cari
func GetConfigDir() (string, error) {
	// Use XDG_CONFIG_HOME if set, otherwise use ~/.config
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	cariConfigDir := filepath.Join(configDir, "cari")

	if err := os.MkdirAll(cariConfigDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", cariConfigDir, err)
	}

	return cariConfigDir, nil
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
