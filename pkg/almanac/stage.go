package almanac

// Stage converts values of category From into values of category To.
// Entries are consulted in declaration order; they may overlap and are never
// sorted or merged.
type Stage struct {
	From    string
	To      string
	Entries []Entry
}

// Apply maps v through the first entry whose source window contains it.
// Values outside every window are returned unchanged.
func (s *Stage) Apply(v uint64) uint64 {
	for _, e := range s.Entries {
		if e.Contains(v) {
			return e.Map(v)
		}
	}
	return v
}

// Name returns the stage label as written in section headers, e.g. "seed-to-soil".
func (s *Stage) Name() string {
	return s.From + "-to-" + s.To
}
