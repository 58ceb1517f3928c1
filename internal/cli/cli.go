// Package cli implements the pathrank command-line interface.
//
// # Commands
//
//   - rank: rank the articles of a navigation path file and print the top-K
//   - graph: export the ranked transition graph as JSON, DOT, SVG, PNG or PDF
//   - serve: run the HTTP API
//   - cache: inspect or clear the result cache
//   - completion: generate shell completion scripts
//
// # Configuration
//
// Settings come from pathrank.toml (or --config), a .env file and
// PATHRANK_* environment variables; command-line flags override all of them.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline stages and cache hits through the observability hooks.
// Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathrank/internal/config"
	"github.com/matzehuels/pathrank/pkg/cache"
	"github.com/matzehuels/pathrank/pkg/observability"
	"github.com/matzehuels/pathrank/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pathrank"

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

	// Config is loaded before any command runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache
// and HTTP events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// loadConfig reads the config file and applies its log level unless debug
// logging was requested on the command line.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.Logger.GetLevel() > log.DebugLevel {
		if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(lvl)
		}
	}
	return nil
}

func (c *CLI) config() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the cache backend of a command.
type cacheFlags struct {
	noCache bool
	redis   string
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, f cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks Redis when an address is configured, otherwise the file
// cache. A missing cache directory disables caching instead of failing.
func (c *CLI) newCache(ctx context.Context, f cacheFlags) (cache.Cache, error) {
	cfg := c.config()
	if f.noCache || cfg.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	addr := f.redis
	if addr == "" {
		addr = cfg.Cache.Redis
	}
	if addr != "" {
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: addr})
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory or the user cache
// directory (~/.cache/pathrank on Linux).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.config().Cache.Dir; dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// basePath strips a known export extension from p.
func basePath(p string) string {
	if i := strings.LastIndex(p, "."); i > 0 && !strings.ContainsAny(p[i:], `/\`) {
		if pipeline.ValidFormats[p[i+1:]] || p[i+1:] == "tsv" || p[i+1:] == "txt" {
			return p[:i]
		}
	}
	return p
}
