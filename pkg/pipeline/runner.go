package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/almanac/pkg/cache"
	"github.com/matzehuels/almanac/pkg/observability"
)

// keyTypeResult labels result keys in cache hooks.
const keyTypeResult = "result"

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long results stay cached. Zero means cache.TTLResult.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedResult is the cache payload for one solved input.
type cachedResult struct {
	Location    uint64 `json:"location"`
	Seeds       int    `json:"seeds"`
	Stages      int    `json:"stages"`
	Evaluations uint64 `json:"evaluations"`
}

// Execute runs parse → solve with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Mode:      opts.Mode,
		InputHash: cache.Hash(opts.Input),
		RunID:     uuid.NewString(),
	}
	logger := opts.Logger.With("run", result.RunID[:8])
	opts.Logger = logger

	key := r.Keyer.ResultKey(result.InputHash, opts.ResultKeyOpts())
	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key); ok {
			result.Location = cached.Location
			result.Stats.Seeds = cached.Seeds
			result.Stats.Stages = cached.Stages
			result.Stats.Evaluations = cached.Evaluations
			result.CacheHit = true
			logger.Info("cache hit", "mode", opts.Mode, "location", cached.Location)
			return result, nil
		}
	}

	// Stage 1: Parse
	parseStart := time.Now()
	a, err := Parse(ctx, opts.Input)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Seeds = len(a.Seeds)
	result.Stats.Stages = len(a.Stages)

	logger.Info("parsed almanac",
		"seeds", result.Stats.Seeds,
		"stages", result.Stats.Stages,
		"duration", result.Stats.ParseTime)

	// Stage 2: Solve
	logger.Debug("solving", "options", opts.String())
	solveStart := time.Now()
	loc, evals, err := Solve(ctx, a, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Location = loc
	result.Stats.Evaluations = evals
	result.Stats.SolveTime = time.Since(solveStart)

	logger.Info("solved",
		"mode", opts.Mode,
		"location", loc,
		"evaluations", evals,
		"duration", result.Stats.SolveTime)

	r.store(ctx, key, cachedResult{
		Location:    loc,
		Seeds:       result.Stats.Seeds,
		Stages:      result.Stats.Stages,
		Evaluations: evals,
	})
	return result, nil
}

// lookup reads a cached result. Backend errors and undecodable payloads are
// treated as misses.
func (r *Runner) lookup(ctx context.Context, key string) (cachedResult, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	var cached cachedResult
	if err != nil || !hit || json.Unmarshal(data, &cached) != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeResult)
		return cachedResult{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeResult)
	return cached, true
}

// store writes a result to the cache. Failures are logged, never returned:
// the result is already computed.
func (r *Runner) store(ctx context.Context, key string, res cachedResult) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = cache.TTLResult
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeResult, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
