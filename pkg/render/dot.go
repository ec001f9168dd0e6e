package render

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/almanac/pkg/almanac"
)

// Options configures category graph generation.
type Options struct {
	// Detailed lists every mapping entry in edge labels.
	// When false, only the entry count is shown.
	Detailed bool
}

// ToDOT converts the stages of a into Graphviz DOT format.
//
// Nodes are categories in first-seen order. When the chain from "seed" to
// "location" compiles, its categories are filled and its edges drawn bold;
// stages off that path are dashed.
func ToDOT(a *almanac.Almanac, opts Options) string {
	onPath := map[string]bool{}
	if c, err := a.Chain(); err == nil {
		for _, cat := range c.Categories() {
			onPath[cat] = true
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph almanac {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, cat := range categories(a) {
		fmt.Fprintf(&buf, "  %q [%s];\n", cat, strings.Join(nodeAttrs(cat, onPath[cat]), ", "))
	}

	buf.WriteString("\n")
	for _, s := range a.Stages {
		attrs := []string{fmt.Sprintf("label=%q", edgeLabel(s, opts.Detailed))}
		if onPath[s.From] && onPath[s.To] {
			attrs = append(attrs, "penwidth=2")
		} else {
			attrs = append(attrs, "style=dashed", "color=grey")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", s.From, s.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// categories lists every category named by a stage, seed first.
func categories(a *almanac.Almanac) []string {
	cats := []string{almanac.CategorySeed}
	for _, s := range a.Stages {
		for _, c := range []string{s.From, s.To} {
			if !slices.Contains(cats, c) {
				cats = append(cats, c)
			}
		}
	}
	return cats
}

func nodeAttrs(cat string, onPath bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", cat)}
	switch {
	case cat == almanac.CategorySeed || cat == almanac.CategoryLocation:
		attrs = append(attrs, "fillcolor=\"#fde68a\"", "penwidth=2")
	case onPath:
		attrs = append(attrs, "fillcolor=\"#e0f2fe\"")
	default:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

func edgeLabel(s almanac.Stage, detailed bool) string {
	if !detailed {
		if len(s.Entries) == 1 {
			return "1 entry"
		}
		return fmt.Sprintf("%d entries", len(s.Entries))
	}
	lines := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
