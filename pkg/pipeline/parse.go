package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/observability"
)

// Parse reads almanac text and reports the parse to the solver hooks.
func Parse(ctx context.Context, input []byte) (*almanac.Almanac, error) {
	hooks := observability.Solver()
	hooks.OnParseStart(ctx, len(input))

	start := time.Now()
	a, err := almanac.Parse(bytes.NewReader(input))
	if err != nil {
		hooks.OnParseComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnParseComplete(ctx, len(a.Seeds), len(a.Stages), time.Since(start), nil)
	return a, nil
}
