package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Fatalf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "result:abc", []byte(`{"location":35}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "result:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"location":35}` {
		t.Errorf("Get = %q", data)
	}

	if err := c.Delete(ctx, "result:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "result:abc"); hit {
		t.Error("entry still present after Delete")
	}
	if err := c.Delete(ctx, "result:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry file should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("y"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl entry should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	path := c.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v, err %v; want silent miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry file should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache dir not empty after Clear: %d entries", len(entries))
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("cache root should survive Clear: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}

	h2, err := HashReader(strings.NewReader("hello"))
	if err != nil {
		t.Fatal(err)
	}
	if h2 != h1 {
		t.Errorf("HashReader = %s, want %s", h2, h1)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	in := Hash([]byte("seeds: 1 2"))

	exact := k.ResultKey(in, ResultKeyOpts{Mode: "exact"})
	ranged := k.ResultKey(in, ResultKeyOpts{Mode: "ranged"})

	if !strings.HasPrefix(exact, "result:") {
		t.Errorf("key %q missing result: prefix", exact)
	}
	if exact == ranged {
		t.Error("mode must be part of the key")
	}
	if exact != k.ResultKey(in, ResultKeyOpts{Mode: "exact"}) {
		t.Error("ResultKey should be deterministic")
	}
	if exact == k.ResultKey(Hash([]byte("seeds: 3")), ResultKeyOpts{Mode: "exact"}) {
		t.Error("input hash must be part of the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "api:")
	opts := ResultKeyOpts{Mode: "ranged"}

	got := scoped.ResultKey("abc", opts)
	want := "api:" + base.ResultKey("abc", opts)
	if got != want {
		t.Errorf("ResultKey = %q, want %q", got, want)
	}

	if NewScopedKeyer(nil, "x:").ResultKey("abc", opts) != "x:"+want[len("api:"):] {
		t.Error("nil inner keyer should fall back to DefaultKeyer")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	orig := retryBaseDelay
	retryBaseDelay = time.Millisecond
	t.Cleanup(func() { retryBaseDelay = orig })

	ctx := context.Background()

	t.Run("succeeds after retryable failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return Retryable(ErrNetwork)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		permanent := errors.New("auth failed")
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return permanent
		})
		if !errors.Is(err, permanent) {
			t.Errorf("err = %v, want %v", err, permanent)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return Retryable(ErrNetwork)
		})
		if !errors.Is(err, ErrNetwork) || !IsRetryable(err) {
			t.Errorf("err = %v, want retryable ErrNetwork", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("honors cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cctx, func() error { return Retryable(ErrNetwork) })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain error reported as retryable")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr error
	}{
		{name: "default file", opts: Options{Dir: t.TempDir()}, want: "*cache.FileCache"},
		{name: "explicit file", opts: Options{Backend: BackendFile, Dir: t.TempDir()}, want: "*cache.FileCache"},
		{name: "none", opts: Options{Backend: BackendNone}, want: "*cache.NullCache"},
		{name: "unknown", opts: Options{Backend: "memcached"}, wantErr: ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Open(ctx, tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer c.Close()
			if got := typeName(c); got != tt.want {
				t.Errorf("Open returned %s, want %s", got, tt.want)
			}
		})
	}

	if _, err := Open(ctx, Options{Backend: BackendFile}); err == nil {
		t.Error("file backend without dir should fail")
	}
}

func typeName(c Cache) string {
	switch c.(type) {
	case *FileCache:
		return "*cache.FileCache"
	case *NullCache:
		return "*cache.NullCache"
	case *RedisCache:
		return "*cache.RedisCache"
	case *MongoCache:
		return "*cache.MongoCache"
	}
	return "unknown"
}
