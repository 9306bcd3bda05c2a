package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rubiojr/cari/pkg/indexer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// IndexCommand creates the index command
func IndexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Rebuild the search index from the corpus folder",
		ArgsUsage: "[folder]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Do not show a progress bar",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return indexCorpus(ctx, c.String("config"), c.Args().First(), c.Bool("quiet"))
		},
	}
}

func indexCorpus(ctx context.Context, configPath, folder string, quiet bool) error {
	b, err := loadBackend(configPath)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	reindexer := b.reindexer
	if folder != "" {
		reindexer = indexer.NewReindexer(b.index, folder, b.cfg.Include, b.hub)
	}

	if _, err := os.Stat(reindexer.Folder()); err != nil {
		return fmt.Errorf("corpus folder %s: %w", reindexer.Folder(), err)
	}

	var progress indexer.ProgressFunc
	var bar *progressbar.ProgressBar
	if !quiet {
		progress = func(done, total int, path string) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Mengindeks"),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Describe(path)
			_ = bar.Set(done)
		}
	}

	start := time.Now()
	job, err := reindexer.Run(ctx, progress)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("indexing %s: %w", reindexer.Folder(), err)
	}

	fmt.Printf("✓ Indexed %s documents from %s in %s\n",
		formatNumber(job.Documents), job.Folder, formatDuration(time.Since(start)))
	return nil
}
