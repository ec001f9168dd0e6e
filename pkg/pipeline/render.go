package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/almanac/pkg/render"
)

// RenderOptions configures category graph rendering.
type RenderOptions struct {
	Format   string `json:"format,omitempty"` // dot, svg or png; defaults to dot
	Detailed bool   `json:"detailed,omitempty"`
}

// Graph parses input and renders its category graph.
func Graph(ctx context.Context, input []byte, opts RenderOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = render.FormatDOT
	}
	if err := render.ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	a, err := Parse(ctx, input)
	if err != nil {
		return nil, err
	}

	dot := render.ToDOT(a, render.Options{Detailed: opts.Detailed})
	out, err := render.Render(ctx, dot, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return out, nil
}
