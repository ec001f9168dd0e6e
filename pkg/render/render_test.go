package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/almanac/pkg/almanac"
)

const chainInput = `seeds: 79 14

seed-to-soil map:
50 98 2
52 50 48

soil-to-location map:
0 15 37

water-to-light map:
88 18 7
`

func parse(t *testing.T, s string) *almanac.Almanac {
	t.Helper()
	a, err := almanac.ParseString(s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return a
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(parse(t, chainInput), Options{})

	for _, want := range []string{
		"digraph almanac {",
		`"seed" [label="seed"`,
		`"location" [label="location"`,
		`"seed" -> "soil" [label="2 entries", penwidth=2]`,
		`"soil" -> "location" [label="1 entry", penwidth=2]`,
		`"water" -> "light" [label="1 entry", style=dashed, color=grey]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if !strings.Contains(dot, `"water" [label="water", style="rounded,filled,dashed"`) {
		t.Errorf("off-path category should be dashed\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(parse(t, chainInput), Options{Detailed: true})
	if !strings.Contains(dot, `label="50 98 2\n52 50 48"`) {
		t.Errorf("detailed label should list entries\n%s", dot)
	}
}

func TestToDOTBrokenChain(t *testing.T) {
	// No stage reaches location, so nothing is highlighted.
	dot := ToDOT(parse(t, "seeds: 1\n\nseed-to-soil map:\n1 2 3\n"), Options{})
	if !strings.Contains(dot, `"seed" -> "soil" [label="1 entry", style=dashed, color=grey]`) {
		t.Errorf("broken chain should not highlight edges\n%s", dot)
	}
	if strings.Contains(dot, `"location"`) {
		t.Errorf("location node should only appear when a stage names it\n%s", dot)
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	dot := "digraph { a -> b }"
	out, err := Render(context.Background(), dot, FormatDOT)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != dot {
		t.Errorf("Render(dot) = %q", out)
	}
	if _, err := Render(context.Background(), dot, "gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz wasm startup is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(parse(t, chainInput), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("seed")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", out, want)
	}

	plain := []byte("<svg><g/></svg>")
	if !bytes.Equal(normalizeViewBox(plain), plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
