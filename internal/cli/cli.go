package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/popchart/pkg/buildinfo"
	"github.com/matzehuels/popchart/pkg/cache"
	"github.com/matzehuels/popchart/pkg/dataset"
	"github.com/matzehuels/popchart/pkg/httputil"
	"github.com/matzehuels/popchart/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "popchart"

	// httpCacheDir is the subdirectory of the cache root holding fetched CSV bodies.
	httpCacheDir = "http"

	// redisURLEnv names the environment variable read by serve when --redis is unset.
	redisURLEnv = "POPCHART_REDIS_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "popchart draws population bar charts from CSV data",
		Long: `popchart reads a country/population CSV, from a file or an http(s) URL,
and draws a horizontal bar chart: one bar per country, sized by a linear
population scale and placed in an evenly padded band.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scaleCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Charts and fetched CSV
// bodies share one cache root; noCache disables both.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, dataset.NewFetcher(nil, c.Logger), c.Logger), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return c.newRunner(true)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	hc, err := httputil.NewCache(filepath.Join(dir, httpCacheDir), dataset.FetchTTL)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(fc, nil, dataset.NewFetcher(hc, c.Logger), c.Logger), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/popchart/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
