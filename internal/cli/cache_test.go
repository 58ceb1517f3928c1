package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pathrank/internal/config"
	"github.com/matzehuels/pathrank/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Dir = "/tmp/pathrank-custom"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != "/tmp/pathrank-custom" {
		t.Errorf("cacheDir() = %q, want configured dir", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME is only honoured on Linux")
	}
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := New(io.Discard, LogInfo).cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestNewCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config = config.Default()
	c.Config.Cache.Dir = t.TempDir()
	ctx := context.Background()

	cc, err := c.newCache(ctx, cacheFlags{})
	if err != nil {
		t.Fatalf("newCache() error: %v", err)
	}
	if _, ok := cc.(*cache.FileCache); !ok {
		t.Errorf("newCache() = %T, want *cache.FileCache", cc)
	}

	cc, _ = c.newCache(ctx, cacheFlags{noCache: true})
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want cache.NullCache", cc)
	}

	c.Config.Cache.Disabled = true
	cc, _ = c.newCache(ctx, cacheFlags{})
	if _, ok := cc.(cache.NullCache); !ok {
		t.Errorf("newCache(disabled) = %T, want cache.NullCache", cc)
	}
}

func TestNewCacheRedisUnavailable(t *testing.T) {
	c := New(io.Discard, LogInfo)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := c.newCache(ctx, cacheFlags{redis: "127.0.0.1:1"}); err == nil {
		t.Error("newCache() with unreachable Redis should fail")
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	cacheDir := filepath.Join(dir, "cache")
	t.Setenv(config.EnvCacheDir, cacheDir)

	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", out, cacheDir)
	}

	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}
