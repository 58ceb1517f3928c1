// Package config loads pathrank settings from a TOML file, a .env file and
// the environment.
//
// Precedence, highest first: command-line flags (applied by the CLI),
// environment variables, the config file, built-in defaults.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/pathrank/pkg/errors"
	"github.com/matzehuels/pathrank/pkg/paths"
	"github.com/matzehuels/pathrank/pkg/pipeline"
)

// DefaultFile is read when no config path is given and it exists in the
// working directory.
const DefaultFile = "pathrank.toml"

// Environment variables.
const (
	EnvRedisAddr = "PATHRANK_REDIS_ADDR"
	EnvCacheDir  = "PATHRANK_CACHE_DIR"
	EnvAddr      = "PATHRANK_ADDR"
	EnvLogLevel  = "PATHRANK_LOG_LEVEL"
	EnvNoCache   = "PATHRANK_NO_CACHE"
)

// Config is the merged configuration.
type Config struct {
	Rank   RankConfig   `toml:"rank"`
	Input  InputConfig  `toml:"input"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// RankConfig mirrors the ranking options. Zero values mean "default".
type RankConfig struct {
	Sentinel      string   `toml:"sentinel"`
	Beta          *float64 `toml:"beta"`
	Iterations    int      `toml:"iterations"`
	Top           int      `toml:"top"`
	Mode          string   `toml:"mode"`
	Tolerance     float64  `toml:"tolerance"`
	MaxIterations int      `toml:"max_iterations"`
	Teleport      string   `toml:"teleport"`
	Ties          string   `toml:"ties"`
	Seed          *uint64  `toml:"seed"`
}

// InputConfig controls path file parsing.
type InputConfig struct {
	Column    int    `toml:"column"`
	Delimiter string `toml:"delimiter"`
	Unescape  bool   `toml:"unescape"`
	Strict    bool   `toml:"strict"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	Redis    string `toml:"redis"` // address or redis:// URL; empty uses the file cache
}

// ServerConfig configures `pathrank serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
}

// LogConfig sets the log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration decoded from strings like "15s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{Column: paths.DefaultColumn, Delimiter: paths.DefaultDelimiter},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxBodyBytes: 32 << 20,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration. It reads a .env file from the working
// directory if present, then the config file at path. An empty path reads
// [DefaultFile] when it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.decodeFile(path, explicit); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) decodeFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Cache.Redis = getEnv(EnvRedisAddr, c.Cache.Redis)
	c.Cache.Dir = getEnv(EnvCacheDir, c.Cache.Dir)
	c.Server.Addr = getEnv(EnvAddr, c.Server.Addr)
	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Cache.Disabled = getEnvBool(EnvNoCache, c.Cache.Disabled)
}

// PipelineOptions converts the rank section to pipeline options.
func (c *Config) PipelineOptions() pipeline.Options {
	r := c.Rank
	return pipeline.Options{
		Sentinel:      r.Sentinel,
		Beta:          r.Beta,
		Iterations:    r.Iterations,
		Top:           r.Top,
		Mode:          r.Mode,
		Tolerance:     r.Tolerance,
		MaxIterations: r.MaxIterations,
		Teleport:      r.Teleport,
		Ties:          r.Ties,
		Seed:          r.Seed,
	}
}

// PathOptions converts the input section to reader options.
func (c *Config) PathOptions() paths.Options {
	return paths.Options{
		Column:    c.Input.Column,
		Delimiter: c.Input.Delimiter,
		Unescape:  c.Input.Unescape,
		Strict:    c.Input.Strict,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
