package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/almanac/pkg/errors"
)

const example = `seeds: 79 14 55 13

seed-to-soil map:
50 98 2
52 50 48

soil-to-fertilizer map:
0 15 37
37 52 2
39 0 15

fertilizer-to-water map:
49 53 8
0 11 42
42 0 7
57 7 4

water-to-light map:
88 18 7
18 25 70

light-to-temperature map:
45 77 23
81 45 19
68 64 13

temperature-to-humidity map:
0 69 1
1 0 69

humidity-to-location map:
60 56 37
56 93 4
`

// isolate points config and cache lookups at empty temp dirs and silences
// status output.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	orig := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = orig })
	return cacheHome
}

// run executes the CLI with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSolveCommand(t *testing.T) {
	isolate(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"solve", "--no-cache"}, "35\n"},
		{[]string{"solve", "--no-cache", "--mode", "exact", "-"}, "35\n"},
		{[]string{"solve", "--no-cache", "-q", "--mode", "ranged", "--workers", "2", "--batch-size", "3"}, "46\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			got, err := run(t, example, tt.args...)
			if err != nil {
				t.Fatalf("solve: %v", err)
			}
			if got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSolveCommandFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte(example), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "", "solve", "-q", "-m", "ranged", path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "46\n" {
		t.Errorf("stdout = %q, want 46", got)
	}

	// Second run is served from the file cache.
	got, err = run(t, "", "solve", "-q", "-m", "ranged", path)
	if err != nil || got != "46\n" {
		t.Errorf("cached run = %q, %v", got, err)
	}
}

func TestSolveCommandErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  errs.Code
	}{
		{"bad mode", example, []string{"solve", "--mode", "fast"}, errs.ErrCodeInvalidMode},
		{"bad input", "seeds: 1 x", []string{"solve", "--no-cache"}, errs.ErrCodeInvalidNumber},
		{"no seeds", "", []string{"solve", "--no-cache"}, errs.ErrCodeEmptySeeds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.stdin, tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	if _, err := run(t, "", "solve", filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("missing input file should fail")
	}
}

func TestSolveCommandConfig(t *testing.T) {
	isolate(t)
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("mode = \"ranged\"\n[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, example, "--config", cfg, "solve", "-q")
	if err != nil {
		t.Fatal(err)
	}
	if got != "46\n" {
		t.Errorf("config mode ignored: stdout = %q", got)
	}

	// Flags beat the file.
	got, err = run(t, example, "--config", cfg, "solve", "-q", "--mode", "exact")
	if err != nil {
		t.Fatal(err)
	}
	if got != "35\n" {
		t.Errorf("flag should override config: stdout = %q", got)
	}
}

func TestGraphCommand(t *testing.T) {
	isolate(t)

	got, err := run(t, example, "graph")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "digraph almanac {") {
		t.Errorf("graph stdout = %.60q", got)
	}

	out := filepath.Join(t.TempDir(), "g.dot")
	if _, err := run(t, example, "graph", "-o", out); err != nil {
		t.Fatal(err)
	}
	if data, err := os.ReadFile(out); err != nil || !bytes.Contains(data, []byte(`"seed" -> "soil"`)) {
		t.Errorf("graph file = %.60q, %v", data, err)
	}

	if _, err := run(t, example, "graph", "--format", "png"); err == nil {
		t.Error("png to stdout should fail")
	}
	if _, err := run(t, example, "graph", "--format", "gif"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		got, err := run(t, "", "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(got, "almanac") {
			t.Errorf("completion %s output does not mention almanac", shell)
		}
	}
	if _, err := run(t, "", "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
