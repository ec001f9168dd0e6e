package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/almanac/pkg/cache"
)

func TestCachePath(t *testing.T) {
	cacheHome := isolate(t)

	got, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(cacheHome, appName)
	if strings.TrimSpace(got) != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCachePathDefault(t *testing.T) {
	isolate(t)
	os.Unsetenv("XDG_CACHE_HOME")

	got, err := run(t, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if strings.TrimSpace(got) != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	cacheHome := isolate(t)
	dir := filepath.Join(cacheHome, appName)

	// Clearing a cache that was never created is fine.
	if _, err := run(t, "", "cache", "clear"); err != nil {
		t.Fatalf("clear empty: %v", err)
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b"} {
		if err := fc.Set(ctx, k, []byte("1"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := run(t, "", "cache", "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, hit, _ := fc.Get(ctx, "a"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestSolvePopulatesCache(t *testing.T) {
	cacheHome := isolate(t)

	if _, err := run(t, example, "solve", "-q"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil || len(entries) == 0 {
		t.Errorf("solve should write to the file cache: %v, %d entries", err, len(entries))
	}
}
