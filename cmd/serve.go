package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/indexer"
	"github.com/urfave/cli/v3"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the API daemon, reindexing whenever the corpus changes",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "optimize-interval",
				Usage: "How often to optimize the index (0 disables)",
				Value: time.Hour,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, c.String("config"), c.Duration("optimize-interval"))
		},
	}
}

// serve runs the JSON API without the HTML interface. The corpus folder is
// always watched; SIGHUP forces a reindex.
func serve(ctx context.Context, configPath string, optimizeInterval time.Duration) error {
	b, err := loadBackend(configPath)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	apiServer := api.NewServer(b.service, b.reindexer, b.hub)
	router := api.NewRouter(b.cfg.Web.AllowedOrigins)
	apiServer.RegisterRoutes(router)

	server := &http.Server{
		Addr:              b.cfg.Addr(),
		Handler:           compress(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Serving API on http://%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		if err := b.reindexer.Watch(ctx, indexer.DefaultDebounce); err != nil {
			logger.Errorf("corpus watcher stopped: %v", err)
		}
	}()

	var optimizeTick <-chan time.Time
	if optimizeInterval > 0 {
		ticker := time.NewTicker(optimizeInterval)
		defer ticker.Stop()
		optimizeTick = ticker.C
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	fmt.Println("API daemon started. Press Ctrl+C to stop, send SIGHUP to reindex.")

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Infof("Received SIGHUP, reindexing %s", b.reindexer.Folder())
				if _, err := b.reindexer.Start(ctx); err != nil {
					if errors.Is(err, indexer.ErrReindexRunning) {
						logger.Infof("reindex already running")
					} else {
						logger.Errorf("starting reindex: %v", err)
					}
				}
				continue
			}
			fmt.Println("\nShutting down...")
			return shutdown(server, cancel)
		case <-optimizeTick:
			if b.reindexer.Status().Current != nil {
				logger.Debugf("skipping optimize while reindexing")
				continue
			}
			start := time.Now()
			if err := b.index.Optimize(ctx); err != nil {
				logger.Warnf("periodic optimize failed: %v", err)
			} else {
				logger.Infof("index optimized in %s", formatDuration(time.Since(start)))
			}
		case err := <-errCh:
			cancel()
			return fmt.Errorf("api server: %w", err)
		case <-ctx.Done():
			return shutdown(server, cancel)
		}
	}
}

func shutdown(server *http.Server, cancel context.CancelFunc) error {
	cancel()
	ctx, done := context.WithTimeout(context.Background(), 30*time.Second)
	defer done()
	return server.Shutdown(ctx)
}
