package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rubiojr/cari/pkg/client"
	"github.com/rubiojr/cari/pkg/config"
	"github.com/rubiojr/cari/pkg/controller"
	"github.com/rubiojr/cari/pkg/log"
	"github.com/rubiojr/cari/pkg/render"
	"github.com/rubiojr/cari/pkg/tui"
	"github.com/urfave/cli/v3"
)

// TUICommand creates the tui command
func TUICommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Search from the terminal against a running cari server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Usage: "API base URL (defaults to [web] server_url)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runTUI(ctx, c.String("config"), c.String("server"))
		},
	}
}

func runTUI(ctx context.Context, configPath, serverURL string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serverURL == "" {
		serverURL = cfg.Web.ServerURL
	}

	// Log lines would corrupt the alternate screen.
	if err := os.MkdirAll(cfg.StorageDir, 0755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(cfg.StorageDir, "tui.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	previous := log.Writer()
	log.SetOutput(logFile)
	defer log.SetOutput(previous)

	prefsPath, err := config.DefaultPreferencesPath()
	if err != nil {
		return fmt.Errorf("locating preferences: %w", err)
	}
	theme := controller.NewThemeController(config.NewPreferenceStore(prefsPath), lipgloss.HasDarkBackground)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	apiClient := client.New(serverURL)
	ctrl := controller.New(apiClient, controller.Options{
		PageSize:     cfg.PageSize,
		ReindexDelay: cfg.ReindexDelay.Duration,
		Palette:      render.Palette(cfg.Palette),
	})

	opts := tui.Options{
		Controller:    ctrl,
		Theme:         theme,
		QuickSearches: cfg.QuickSearches,
	}
	if _, events, err := apiClient.Events(ctx); err != nil {
		logger.Warnf("event stream at %s unavailable: %v", apiClient.BaseURL(), err)
	} else {
		opts.Events = events
	}

	logger.Infof("tui connected to %s", apiClient.BaseURL())
	if _, err := tea.NewProgram(tui.New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
