package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/orbitribbon/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	if dir == "" {
		t.Error("cacheDir() returned empty string")
	}

	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) {
		t.Errorf("cacheDir() = %q, should be under home %q", dir, home)
	}

	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	if !strings.Contains(dir, ".cache") {
		t.Errorf("cacheDir() = %q, should contain '.cache'", dir)
	}
}

func TestCacheDirStructure(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", appName)
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", customCache)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	expected := filepath.Join(customCache, appName)
	if dir != expected {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, expected)
	}
}

func TestOpenCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()

	ch, err := openCache(ctx, "", true)
	if err != nil {
		t.Fatalf("openCache(noCache) error: %v", err)
	}
	if _, ok := ch.(*cache.NullCache); !ok {
		t.Errorf("noCache backend = %T, want *cache.NullCache", ch)
	}

	ch, err = openCache(ctx, "", false)
	if err != nil {
		t.Fatalf("openCache() error: %v", err)
	}
	fc, ok := ch.(*cache.FileCache)
	if !ok {
		t.Fatalf("default backend = %T, want *cache.FileCache", ch)
	}
	want, _ := cacheDir()
	if fc.Dir() != want {
		t.Errorf("file cache dir = %q, want %q", fc.Dir(), want)
	}

	if _, err := openCache(ctx, "not a url", false); err == nil {
		t.Error("openCache() with bad redis URL should fail")
	}
}
