package almanac

import (
	"fmt"

	errs "github.com/matzehuels/almanac/pkg/errors"
)

// Entry is a single piecewise-linear rule. Values in the half-open source
// window [Source, Source+Length) map onto [Destination, Destination+Length)
// by a constant offset.
type Entry struct {
	Destination uint64
	Source      uint64
	Length      uint64
}

// NewEntry returns an Entry, rejecting zero-length windows.
func NewEntry(destination, source, length uint64) (Entry, error) {
	if length == 0 {
		return Entry{}, errs.New(errs.ErrCodeInvalidEntry, "entry %d %d %d has zero length", destination, source, length)
	}
	return Entry{Destination: destination, Source: source, Length: length}, nil
}

// SourceEnd returns the exclusive end of the source window.
func (e Entry) SourceEnd() uint64 { return e.Source + e.Length }

// Contains reports whether v lies inside the source window.
func (e Entry) Contains(v uint64) bool {
	return v >= e.Source && v-e.Source < e.Length
}

// Map translates v, which must lie inside the source window.
func (e Entry) Map(v uint64) uint64 {
	return e.Destination + (v - e.Source)
}

func (e Entry) String() string {
	return fmt.Sprintf("%d %d %d", e.Destination, e.Source, e.Length)
}
