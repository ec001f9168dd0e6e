package almanac

import (
	errs "github.com/matzehuels/almanac/pkg/errors"
)

// Well-known category names. The chain always starts at CategorySeed and
// ends at CategoryLocation; intermediate names come from the input.
const (
	CategorySeed     = "seed"
	CategoryLocation = "location"
)

// Almanac is a parsed puzzle: the raw seed list and every stage in the order
// it was declared. It is not modified after [Parse] returns.
type Almanac struct {
	Seeds  []uint64
	Stages []Stage
}

// Stage returns the stage whose From category is from.
func (a *Almanac) Stage(from string) (*Stage, bool) {
	for i := range a.Stages {
		if a.Stages[i].From == from {
			return &a.Stages[i], true
		}
	}
	return nil, false
}

// Resolve maps a single seed to its location by walking the category graph.
// Callers resolving many seeds should compile a [Chain] once instead.
func (a *Almanac) Resolve(seed uint64) (uint64, error) {
	c, err := a.Chain()
	if err != nil {
		return 0, err
	}
	return c.Resolve(seed), nil
}

// SeedRange is the half-open interval [Start, Start+Length).
type SeedRange struct {
	Start  uint64
	Length uint64
}

// End returns the exclusive end of the range.
func (r SeedRange) End() uint64 { return r.Start + r.Length }

// SeedRanges reads the seed list as consecutive (start, length) pairs.
func (a *Almanac) SeedRanges() ([]SeedRange, error) {
	if len(a.Seeds)%2 != 0 {
		return nil, errs.New(errs.ErrCodeInvalidFieldCount, "seed ranges need an even number of values, got %d", len(a.Seeds))
	}
	ranges := make([]SeedRange, 0, len(a.Seeds)/2)
	for i := 0; i < len(a.Seeds); i += 2 {
		ranges = append(ranges, SeedRange{Start: a.Seeds[i], Length: a.Seeds[i+1]})
	}
	return ranges, nil
}
