// Package render draws the category graph of an almanac.
//
// # Overview
//
// Every stage of an almanac is an edge between two categories. [ToDOT]
// turns those edges into Graphviz DOT source, highlighting the path a seed
// takes from "seed" to "location" when the chain compiles. [RenderSVG] and
// [RenderPNG] lay the DOT out in-process.
//
//	a, _ := almanac.ParseString(text)
//	dot := render.ToDOT(a, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: edge labels list every mapping entry instead of the entry count.
//
// # Dependencies
//
// Layout uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no system Graphviz install is needed.
package render
