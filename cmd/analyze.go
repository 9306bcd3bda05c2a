package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/render"
	"github.com/rubiojr/cari/pkg/search"
	"github.com/urfave/cli/v3"
)

const analyzeBarWidth = 30

// AnalyzeCommand creates the analyze command
func AnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Show category distribution and most frequent words",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "top",
				Usage: "Number of frequent words to show",
				Value: search.DefaultTopWords,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return analyzeCorpus(ctx, c.String("config"), int(c.Int("top")))
		},
	}
}

func analyzeCorpus(ctx context.Context, configPath string, top int) error {
	b, err := loadBackend(configPath)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	analysis, err := b.service.Analyze(ctx, top)
	if err != nil {
		return notIndexedHint(err)
	}

	resp := api.NewAnalyzeResponse(analysis)
	view := render.BuildAnalysisView(&resp, nil, render.Palette(b.cfg.Palette))

	fmt.Println(headingStyle.Render("📈 " + render.LabelAnalyze))
	fmt.Println()
	fmt.Printf("%s %s\n\n", render.LabelTotalDocuments, formatNumber(view.TotalDocuments))

	fmt.Println(titleStyle.Render(render.LabelCategoryDist))
	printBars(os.Stdout, view.Categories, analyzeBarWidth, func(bar render.Bar) string {
		return fmt.Sprintf("%d (%s)", bar.Count, bar.Percent)
	})
	fmt.Println()

	fmt.Println(titleStyle.Render(render.LabelTopWords))
	printBars(os.Stdout, view.Words, analyzeBarWidth, func(bar render.Bar) string {
		return render.CountLabel(bar.Count)
	})
	return nil
}
