package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rubiojr/cari/pkg/api"
	"github.com/rubiojr/cari/pkg/render"
	"github.com/rubiojr/cari/pkg/search"
	"github.com/urfave/cli/v3"
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search indexed documents",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "category",
				Usage: "Only show documents from this category",
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Results page",
				Value: 1,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Results per page (defaults to page_size from the config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(query) == "" {
				return fmt.Errorf("%s", render.MsgEmptyQuery)
			}
			return searchDocuments(ctx, c.String("config"), search.SearchParams{
				Query:    query,
				Category: c.String("category"),
				Page:     int(c.Int("page")),
				Limit:    int(c.Int("limit")),
			})
		},
	}
}

func searchDocuments(ctx context.Context, configPath string, params search.SearchParams) error {
	b, err := loadBackend(configPath)
	if err != nil {
		return err
	}
	defer closeBackend(b)

	if params.Limit == 0 {
		params.Limit = b.cfg.PageSize
	}

	start := time.Now()
	results, err := b.service.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}
	elapsed := time.Since(start)

	resp := api.NewSearchResponse(results)
	view := render.BuildSearchView(&resp, params.Query, resp.Page, resp.Limit, elapsed, render.Palette(b.cfg.Palette))
	if view.NoResults {
		fmt.Println(render.NoResultsPanel.Title)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%s\n\n", subtleStyle.Render(fmt.Sprintf("Ditemukan %d hasil untuk \"%s\" (%s)",
		view.Banner.Total, view.Banner.Query, render.FormatElapsed(view.Banner.ElapsedMS))))
	printCards(os.Stdout, view)
	if view.Pagination.Visible {
		fmt.Println(subtleStyle.Render(fmt.Sprintf("Halaman %d dari %d", view.Pagination.Page, view.Pagination.Pages)))
	}
	return nil
}
