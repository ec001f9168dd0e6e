package almanac

import (
	"strings"

	errs "github.com/matzehuels/almanac/pkg/errors"
)

// Chain is the compiled path through the category graph from "seed" to
// "location". Categories are nodes and stages are edges; the path is found by
// lookup on the From category, so section order in the input does not matter.
type Chain struct {
	categories []string
	stages     []*Stage
}

// Chain compiles the category path. It returns DUPLICATE_STAGE when two
// stages leave the same category, and UNREACHABLE_LOCATION when the walk from
// "seed" dead-ends or revisits a category before reaching "location".
func (a *Almanac) Chain() (*Chain, error) {
	out := make(map[string]*Stage, len(a.Stages))
	for i := range a.Stages {
		s := &a.Stages[i]
		if prev, ok := out[s.From]; ok {
			return nil, errs.New(errs.ErrCodeDuplicateStage, "category %q has two outgoing stages: %s and %s", s.From, prev.Name(), s.Name())
		}
		out[s.From] = s
	}

	c := &Chain{categories: []string{CategorySeed}}
	visited := map[string]bool{CategorySeed: true}
	for cur := CategorySeed; cur != CategoryLocation; {
		s, ok := out[cur]
		if !ok {
			return nil, errs.New(errs.ErrCodeUnreachableLocation, "no stage leaves category %q (path: %s)", cur, c.path())
		}
		if visited[s.To] {
			return nil, errs.New(errs.ErrCodeUnreachableLocation, "stage %s closes a cycle (path: %s)", s.Name(), c.path())
		}
		visited[s.To] = true
		c.stages = append(c.stages, s)
		c.categories = append(c.categories, s.To)
		cur = s.To
	}
	return c, nil
}

// Resolve maps seed through every stage of the chain in order.
func (c *Chain) Resolve(seed uint64) uint64 {
	v := seed
	for _, s := range c.stages {
		v = s.Apply(v)
	}
	return v
}

// Trace returns the value after each category, starting with the seed itself.
func (c *Chain) Trace(seed uint64) []uint64 {
	values := make([]uint64, 0, len(c.categories))
	v := seed
	values = append(values, v)
	for _, s := range c.stages {
		v = s.Apply(v)
		values = append(values, v)
	}
	return values
}

// Categories returns the category names along the path, "seed" first.
func (c *Chain) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Stages returns the stages along the path.
func (c *Chain) Stages() []*Stage {
	return append([]*Stage(nil), c.stages...)
}

// Len returns the number of stages on the path.
func (c *Chain) Len() int { return len(c.stages) }

func (c *Chain) path() string {
	return strings.Join(c.categories, " -> ")
}
