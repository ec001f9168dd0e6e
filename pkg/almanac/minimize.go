package almanac

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	errs "github.com/matzehuels/almanac/pkg/errors"
)

// DefaultBatchSize is the number of consecutive values one ranged-scan task
// evaluates before handing its local minimum back.
const DefaultBatchSize = 1_000_000

// cancelCheckInterval is how many values a batch evaluates between context checks.
const cancelCheckInterval = 1 << 16

// RangeResult reports the outcome of scanning one seed range.
type RangeResult struct {
	Index    int
	Range    SeedRange
	Min      uint64
	Duration time.Duration
}

// ScanOptions tunes the ranged scan. The zero value is usable.
type ScanOptions struct {
	// Workers bounds how many batches are evaluated at once across all
	// ranges. Defaults to GOMAXPROCS.
	Workers int

	// BatchSize is the number of values per task. Defaults to DefaultBatchSize.
	BatchSize uint64

	// OnProgress is called after every batch with the number of values it
	// evaluated. It is called from worker goroutines concurrently.
	OnProgress func(n uint64)

	// OnRange is called once per non-empty range after all of its batches
	// finished. It is called from range goroutines concurrently.
	OnRange func(RangeResult)
}

func (o *ScanOptions) setDefaults() {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
}

// MinLocation returns the lowest location over every listed seed, resolving
// each through the category chain. An empty seed list is an error.
func MinLocation(ctx context.Context, a *Almanac) (uint64, error) {
	if len(a.Seeds) == 0 {
		return 0, errs.New(errs.ErrCodeEmptySeeds, "almanac lists no seeds")
	}
	c, err := a.Chain()
	if err != nil {
		return 0, err
	}

	lowest := c.Resolve(a.Seeds[0])
	for i, seed := range a.Seeds[1:] {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, errs.FromContext(err, "seed scan interrupted")
			}
		}
		lowest = min(lowest, c.Resolve(seed))
	}
	return lowest, nil
}

// MinLocationRanged returns the lowest location over every value of every
// seed range, resolving each through the fixed pipeline.
//
// One goroutine is started per range; each range is split into batches of
// opts.BatchSize values and the batches of all ranges share opts.Workers
// slots. Every value is evaluated exactly once and local minima are combined
// with min, so the result does not depend on Workers or BatchSize.
func MinLocationRanged(ctx context.Context, f *Fixed, opts ScanOptions) (uint64, error) {
	opts.setDefaults()
	if len(f.Seeds) == 0 {
		return 0, errs.New(errs.ErrCodeEmptySeeds, "almanac lists no seed ranges")
	}
	if f.TotalValues() == 0 {
		return 0, errs.New(errs.ErrCodeEmptySeeds, "every seed range is empty")
	}

	sem := semaphore.NewWeighted(int64(opts.Workers))
	mins := make([]uint64, len(f.Seeds))
	found := make([]bool, len(f.Seeds))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range f.Seeds {
		if r.Length == 0 {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			m, err := scanRange(gctx, f, r, sem, opts)
			if err != nil {
				return err
			}
			mins[i], found[i] = m, true
			if opts.OnRange != nil {
				opts.OnRange(RangeResult{Index: i, Range: r, Min: m, Duration: time.Since(start)})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, errs.FromContext(err, "ranged scan interrupted")
	}

	var lowest uint64
	first := true
	for i, m := range mins {
		if !found[i] {
			continue
		}
		if first || m < lowest {
			lowest, first = m, false
		}
	}
	return lowest, nil
}

// scanRange evaluates every value of a non-empty range in batches and
// returns the range minimum.
func scanRange(ctx context.Context, f *Fixed, r SeedRange, sem *semaphore.Weighted, opts ScanOptions) (uint64, error) {
	n := r.Length / opts.BatchSize
	if r.Length%opts.BatchSize != 0 {
		n++
	}
	mins := make([]uint64, n)

	g, gctx := errgroup.WithContext(ctx)
	for j := range n {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		lo := r.Start + j*opts.BatchSize
		size := min(opts.BatchSize, r.Length-j*opts.BatchSize)
		g.Go(func() error {
			defer sem.Release(1)
			m, err := scanBatch(gctx, f, lo, size)
			if err != nil {
				return err
			}
			mins[j] = m
			if opts.OnProgress != nil {
				opts.OnProgress(size)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	lowest := mins[0]
	for _, m := range mins[1:] {
		lowest = min(lowest, m)
	}
	return lowest, nil
}

// scanBatch evaluates the size values starting at lo. size is never zero.
func scanBatch(ctx context.Context, f *Fixed, lo, size uint64) (uint64, error) {
	lowest := f.Resolve(lo)
	for k := uint64(1); k < size; k++ {
		if k%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		lowest = min(lowest, f.Resolve(lo+k))
	}
	return lowest, nil
}
