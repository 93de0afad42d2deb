package scrape

import (
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/lne-nutrition/models"
	"github.com/dtnitsch/lne-nutrition/pkg/caching"
	"github.com/dtnitsch/lne-nutrition/pkg/fetcher"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the JSON stderr logger shared by all actions.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	} else if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	if c.App != nil && c.App.ErrWriter != nil {
		w = c.App.ErrWriter
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// ConfigFromContext loads the config file named by --config and applies any
// flags the user set on top of it.
func ConfigFromContext(c *cli.Context) (models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, err
	}

	if c.IsSet("index-url") {
		cfg.IndexURL = c.String("index-url")
	}
	if c.IsSet("output") {
		cfg.OutputFile = c.String("output")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("user-agent") {
		cfg.UserAgent = c.String("user-agent")
	}
	if c.IsSet("cache-dir") {
		cfg.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("max-age") {
		cfg.MaxAge = c.Duration("max-age")
	}
	if c.Bool("force-fetch") {
		cfg.CacheDir = ""
	}
	if c.IsSet("db") {
		cfg.HistoryDB = c.String("db")
	}
	if c.IsSet("summary") {
		cfg.SummaryFile = c.String("summary")
	}

	return cfg, cfg.Validate()
}

// NewFetcher builds the page fetcher described by cfg.
func NewFetcher(cfg models.Config, logger *slog.Logger) (*fetcher.Fetcher, error) {
	opts := []fetcher.Option{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithLogger(logger),
	}
	if cfg.CacheDir != "" {
		cache, err := caching.NewCache(cfg.CacheDir, cfg.MaxAge)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetcher.WithCache(cache))
	}
	return fetcher.NewFetcher(opts...), nil
}
