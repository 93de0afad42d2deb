package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/lne-nutrition/internal/history"
	"github.com/dtnitsch/lne-nutrition/internal/scrape"
	"github.com/dtnitsch/lne-nutrition/models"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "lne",
		Usage:  "Scrape Lite n' Easy nutrition tables into an xlsx workbook",
		Flags:  scrapeFlags(),
		Action: scrape.ScrapeAction,
		Commands: []*cli.Command{
			{
				Name:   "scrape",
				Usage:  "Fetch every category and write the workbook",
				Flags:  scrapeFlags(),
				Action: scrape.ScrapeAction,
			},
			{
				Name:   "discover",
				Usage:  "List the category pages linked from the index",
				Flags:  fetchFlags(),
				Action: scrape.DiscoverAction,
			},
			{
				Name:  "history",
				Usage: "Inspect previous scrape runs",
				Flags: []cli.Flag{dbFlag()},
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List recent runs",
						Flags:  []cli.Flag{dbFlag(), &cli.IntFlag{Name: "limit", Value: 20, Usage: "Maximum runs to show"}},
						Action: history.RunsAction,
					},
					{
						Name:      "show",
						Usage:     "Show the sheets and warnings of one run",
						ArgsUsage: "<run-id>",
						Flags:     []cli.Flag{dbFlag()},
						Action:    history.ShowAction,
					},
				},
				Action: history.RunsAction,
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "Run history database (default: next to the executable)",
		EnvVars: []string{"LNE_DB"},
	}
}

func fetchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML config file",
			EnvVars: []string{"LNE_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "index-url",
			Value:   models.DefaultIndexURL,
			Usage:   "Nutrition index page",
			EnvVars: []string{"LNE_INDEX_URL"},
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Usage:   "Per-request timeout",
			EnvVars: []string{"LNE_TIMEOUT"},
		},
		&cli.StringFlag{
			Name:    "user-agent",
			Usage:   "User-Agent header sent with every request",
			EnvVars: []string{"LNE_USER_AGENT"},
		},
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "Cache fetched pages in this directory",
			EnvVars: []string{"LNE_CACHE_DIR"},
		},
		&cli.DurationFlag{
			Name:    "max-age",
			Usage:   "Maximum age of a cached page (0 = never expires)",
			EnvVars: []string{"LNE_MAX_AGE"},
		},
		&cli.BoolFlag{
			Name:  "force-fetch",
			Usage: "Ignore the page cache",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log errors",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Log debug output",
		},
	}
}

func scrapeFlags() []cli.Flag {
	return append(fetchFlags(),
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   models.DefaultOutputFile,
			Usage:   "Workbook to write (replaced if it exists)",
			EnvVars: []string{"LNE_OUTPUT"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Category pages to fetch concurrently",
			EnvVars: []string{"LNE_WORKERS"},
		},
		&cli.StringFlag{
			Name:    "summary",
			Usage:   "Also write a YAML run summary to this path",
			EnvVars: []string{"LNE_SUMMARY"},
		},
		dbFlag(),
		&cli.BoolFlag{
			Name:  "no-history",
			Usage: "Do not record this run in the history database",
		},
	)
}
