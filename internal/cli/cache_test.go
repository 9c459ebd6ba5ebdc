package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/harvester/pkg/cache"
	"github.com/matzehuels/harvester/pkg/config"
)

func TestClearCacheDirMissing(t *testing.T) {
	n, err := clearCacheDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil || n != 0 {
		t.Errorf("clearCacheDir() = %d, %v; want 0, nil", n, err)
	}
}

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	fc.Set(ctx, "github:user:ann", []byte(`{}`), time.Hour)
	fc.Set(ctx, "packagist:package:acme/a", []byte(`{}`), time.Hour)

	n, err := clearCacheDir(dir)
	if err != nil {
		t.Fatalf("clearCacheDir() error: %v", err)
	}
	if n != 2 {
		t.Errorf("cleared %d entries, want 2", n)
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c := &CLI{noCache: true}
	got, err := c.newCache(ctx, config.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.(cache.NullCache); !ok {
		t.Errorf("--no-cache: got %T, want NullCache", got)
	}

	c = &CLI{}
	dir := t.TempDir()
	got, err = c.newCache(ctx, config.Config{CacheDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := got.(*cache.FileCache)
	if !ok || fc.Dir() != dir {
		t.Errorf("got %T, want FileCache at %s", got, dir)
	}
}
