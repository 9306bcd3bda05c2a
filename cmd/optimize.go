package cmd

import (
	"context"
	"fmt"

	"github.com/rubiojr/cari/pkg/storage"
	"github.com/urfave/cli/v3"
)

// OptimizeCommand creates the optimize command
func OptimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Index optimization and maintenance commands",
		Commands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Run integrity checks on the index",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "quick",
						Usage: "Skip deep FTS5-specific integrity checks",
						Value: false,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withIndex(c.String("config"), func(index *storage.Index) error {
						return checkIndex(ctx, index, c.Bool("quick"))
					})
				},
			},
			{
				Name:  "fts-rebuild",
				Usage: "Rebuild the FTS5 index",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Force rebuild without checking first (skips integrity check)",
						Value: false,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withIndex(c.String("config"), func(index *storage.Index) error {
						return rebuildFTS(ctx, index, c.Bool("force"))
					})
				},
			},
			{
				Name:  "analyze",
				Usage: "Run ANALYZE to update query planner statistics",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withIndex(c.String("config"), func(index *storage.Index) error {
						return runStep("ANALYZE", func() error { return index.Analyze(ctx) })
					})
				},
			},
			{
				Name:  "vacuum",
				Usage: "Run VACUUM to defragment the database",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withIndex(c.String("config"), func(index *storage.Index) error {
						fmt.Println("This may take a while for large databases...")
						return runStep("VACUUM", func() error { return index.Vacuum(ctx) })
					})
				},
			},
			{
				Name:  "checkpoint",
				Usage: "Run WAL checkpoint to flush changes",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withIndex(c.String("config"), func(index *storage.Index) error {
						return runStep("WAL checkpoint", func() error { return index.WALCheckpoint(ctx) })
					})
				},
			},
			{
				Name:  "all",
				Usage: "Run all optimization operations (optimize, analyze, checkpoint)",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withIndex(c.String("config"), func(index *storage.Index) error {
						return optimizeAll(ctx, index)
					})
				},
			},
		},
	}
}

// withIndex opens the configured index for the duration of fn
func withIndex(configPath string, fn func(*storage.Index) error) error {
	b, err := loadBackend(configPath)
	if err != nil {
		return err
	}
	defer closeBackend(b)
	return fn(b.index)
}

func runStep(name string, fn func() error) error {
	fmt.Printf("Running %s... ", name)
	if err := fn(); err != nil {
		fmt.Printf("✗ FAILED - %v\n", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Println("✓ OK")
	return nil
}

// optimizeAll runs all optimization operations
func optimizeAll(ctx context.Context, index *storage.Index) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"FTS optimize", index.Optimize},
		{"ANALYZE", index.Analyze},
		{"WAL checkpoint", index.WALCheckpoint},
	}
	for _, step := range steps {
		if err := runStep(step.name, func() error { return step.fn(ctx) }); err != nil {
			return err
		}
	}
	fmt.Println()
	fmt.Println("All optimization operations completed successfully")
	return nil
}

// checkIndex runs integrity checks on the index
func checkIndex(ctx context.Context, index *storage.Index, quick bool) error {
	fmt.Printf("Checking %s", index.Path())
	if quick {
		fmt.Print(" (quick mode, skipping FTS checks)")
	}
	fmt.Print("... ")

	if err := index.IntegrityCheck(ctx, quick); err != nil {
		fmt.Printf("✗ FAILED - %v\n", err)
		fmt.Println("To fix FTS index corruption, run: cari optimize fts-rebuild")
		return fmt.Errorf("integrity check failed: %w", err)
	}
	fmt.Println("✓ OK")
	return nil
}

// rebuildFTS rebuilds the FTS5 index, skipping healthy indexes unless forced
func rebuildFTS(ctx context.Context, index *storage.Index, force bool) error {
	if !force {
		fmt.Print("Checking full text index... ")
		err := index.IntegrityCheck(ctx, false)
		if err == nil {
			fmt.Println("✓ OK (no rebuild needed)")
			return nil
		}
		fmt.Printf("✗ NEEDS REBUILD - %v\n", err)
	}
	return runStep("FTS rebuild", func() error { return index.Rebuild(ctx) })
}
