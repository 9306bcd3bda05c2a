package cmd

import (
	"errors"
	"fmt"

	"github.com/rubiojr/cari/pkg/config"
	"github.com/rubiojr/cari/pkg/indexer"
	"github.com/rubiojr/cari/pkg/log"
	"github.com/rubiojr/cari/pkg/realtime"
	"github.com/rubiojr/cari/pkg/search"
	"github.com/rubiojr/cari/pkg/storage"
)

var logger = log.ForService("cmd")

// backend bundles the index and the services built on it.
type backend struct {
	cfg       *config.Config
	index     *storage.Index
	service   *search.Service
	hub       *realtime.Hub
	reindexer *indexer.Reindexer
}

// openBackend opens the index described by cfg and wires the search
// service, the event hub and the reindexer to it.
func openBackend(cfg *config.Config) (*backend, error) {
	index, err := storage.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	hub := realtime.NewHub(32)
	return &backend{
		cfg:       cfg,
		index:     index,
		service:   search.NewService(index),
		hub:       hub,
		reindexer: indexer.NewReindexer(index, cfg.CorpusDir, cfg.Include, hub),
	}, nil
}

// Close waits for a running reindex job before closing the index.
func (b *backend) Close() error {
	b.reindexer.Wait()
	return b.index.Close()
}

// loadBackend loads the configuration and opens its backend.
func loadBackend(configPath string) (*backend, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return openBackend(cfg)
}

func closeBackend(b *backend) {
	if err := b.Close(); err != nil {
		logger.Warnf("failed to close index: %v", err)
	}
}

// notIndexedHint turns storage.ErrNotIndexed into an actionable message.
func notIndexedHint(err error) error {
	if errors.Is(err, storage.ErrNotIndexed) {
		return fmt.Errorf("%w: run 'cari index' first", err)
	}
	return err
}
