// Package pipeline runs the almanac solver end to end for the CLI and the
// API server.
//
// By centralizing parse → solve → cache in one place, every entry point
// reports the same results, errors and statistics.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Parse: read almanac text into an [almanac.Almanac]
//  2. Solve: find the lowest location, either over the listed seeds
//     ([ModeExact]) or over every value of every seed range ([ModeRanged])
//
// Results are cached under a key derived from the input hash and the mode,
// so repeating a long ranged scan returns immediately.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Input: text,
//	    Mode:  pipeline.ModeRanged,
//	})
//	fmt.Println(res.Location)
package pipeline

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/almanac/pkg/almanac"
	"github.com/matzehuels/almanac/pkg/cache"
	errs "github.com/matzehuels/almanac/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// Search modes.
const (
	// ModeExact resolves each listed seed through the category chain.
	ModeExact = "exact"

	// ModeRanged treats seeds as (start, length) pairs and scans every value
	// through the fixed seven-stage pipeline.
	ModeRanged = "ranged"
)

// DefaultMode is used when Options.Mode is empty.
const DefaultMode = ModeExact

// DefaultBatchSize is the number of values per ranged-scan task.
const DefaultBatchSize = almanac.DefaultBatchSize

// ValidModes is the set of supported search modes.
var ValidModes = map[string]bool{
	ModeExact:  true,
	ModeRanged: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one solver run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the almanac text.
	Input []byte `json:"-"`

	Mode      string        `json:"mode,omitempty"`
	Workers   int           `json:"workers,omitempty"`
	BatchSize uint64        `json:"batch_size,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"` // zero means no deadline
	Refresh   bool          `json:"refresh,omitempty"` // skip the cache lookup

	// Runtime options (not serialized)
	Logger     *log.Logger                `json:"-"`
	OnProgress func(n uint64)             `json:"-"` // ranged mode only
	OnRange    func(almanac.RangeResult) `json:"-"` // ranged mode only

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Location is the lowest location number found.
	Location uint64 `json:"location"`

	// Mode is the search mode that produced Location.
	Mode string `json:"mode"`

	// InputHash is the SHA-256 of the almanac text.
	InputHash string `json:"input_hash"`

	// RunID identifies this run in logs and API responses.
	RunID string `json:"run_id"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit reports whether Location came from the cache.
	CacheHit bool `json:"cached"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Seeds       int           `json:"seeds"`
	Stages      int           `json:"stages"`
	Evaluations uint64        `json:"evaluations"` // seeds resolved through the pipeline
	ParseTime   time.Duration `json:"parse_time"`
	SolveTime   time.Duration `json:"solve_time"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a search mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errs.New(errs.ErrCodeInvalidMode, "invalid mode: %q (must be one of: exact, ranged)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Workers < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "workers must not be negative, got %d", o.Workers)
	}
	if o.Timeout < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "timeout must not be negative, got %s", o.Timeout)
	}
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// IsRanged returns true for a ranged scan.
func (o *Options) IsRanged() bool {
	return o.Mode == ModeRanged
}

// ScanOptions returns the ranged-scan tuning derived from o.
func (o *Options) ScanOptions() almanac.ScanOptions {
	return almanac.ScanOptions{
		Workers:    o.Workers,
		BatchSize:  o.BatchSize,
		OnProgress: o.OnProgress,
		OnRange:    o.OnRange,
	}
}

// ResultKeyOpts returns cache key options for the result.
// Workers and BatchSize are left out: they never change the result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{Mode: o.Mode}
}

// String summarizes the options for logging.
func (o *Options) String() string {
	return fmt.Sprintf("mode=%s workers=%d batch=%d timeout=%s", o.Mode, o.Workers, o.BatchSize, o.Timeout)
}
