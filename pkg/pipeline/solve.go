package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/observability"
)

// Solve finds the lowest location of a in opts.Mode. It returns the location
// and the number of seeds resolved through the pipeline.
//
// opts must have been validated. A positive opts.Timeout bounds the whole
// search; on expiry the error carries code TIMEOUT.
func Solve(ctx context.Context, a *almanac.Almanac, opts Options) (uint64, uint64, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	if opts.IsRanged() {
		return solveRanged(ctx, a, opts)
	}
	return solveExact(ctx, a, opts)
}

func solveExact(ctx context.Context, a *almanac.Almanac, opts Options) (uint64, uint64, error) {
	hooks := observability.Solver()
	n := uint64(len(a.Seeds))
	hooks.OnSolveStart(ctx, ModeExact, n)

	start := time.Now()
	loc, err := almanac.MinLocation(ctx, a)
	hooks.OnSolveComplete(ctx, ModeExact, loc, time.Since(start), err)
	if err != nil {
		return 0, 0, err
	}
	return loc, n, nil
}

func solveRanged(ctx context.Context, a *almanac.Almanac, opts Options) (uint64, uint64, error) {
	f, err := almanac.NewFixed(a)
	if err != nil {
		return 0, 0, err
	}
	if empty := f.EmptyStages(); len(empty) > 0 {
		opts.Logger.Warn("stages missing from input, treating as identity", "stages", empty)
	}

	hooks := observability.Solver()
	n := f.TotalValues()
	hooks.OnSolveStart(ctx, ModeRanged, n)

	scan := opts.ScanOptions()
	userOnRange := scan.OnRange
	scan.OnRange = func(r almanac.RangeResult) {
		hooks.OnRangeComplete(ctx, r.Index, r.Range.Length, r.Min, r.Duration)
		opts.Logger.Debug("scanned range",
			"index", r.Index,
			"start", r.Range.Start,
			"length", r.Range.Length,
			"min", r.Min,
			"duration", r.Duration)
		if userOnRange != nil {
			userOnRange(r)
		}
	}

	start := time.Now()
	loc, err := almanac.MinLocationRanged(ctx, f, scan)
	hooks.OnSolveComplete(ctx, ModeRanged, loc, time.Since(start), err)
	if err != nil {
		return 0, 0, err
	}
	return loc, n, nil
}
