package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show index statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(ctx, c.String("config"))
		},
	}
}

// showStats displays index statistics
func showStats(ctx context.Context, configPath string) error {
	b, err := loadBackend(configPath)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	stats, err := b.service.Stats(ctx)
	if err != nil {
		return notIndexedHint(err)
	}

	formatStats(os.Stdout, stats)
	return nil
}
