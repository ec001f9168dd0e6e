package almanac

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	errs "github.com/matzehuels/almanac/pkg/errors"
)

const (
	seedsPrefix  = "seeds:"
	headerSuffix = " map:"
	categorySep  = "-to-"

	// maxLineSize bounds a single input line; seed lists can be long.
	maxLineSize = 1 << 20
)

// Parse reads an almanac in the text format described in the package
// documentation. Lines are trimmed and blank lines are ignored. Entry lines
// belong to the most recent section header; repeating a header appends to the
// earlier section. Any malformed line aborts parsing with a coded error that
// names the line number.
func Parse(r io.Reader) (*Almanac, error) {
	a := &Almanac{}
	index := make(map[string]int) // section name -> index in a.Stages
	current := -1
	seenSeeds := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue

		case strings.HasPrefix(line, seedsPrefix):
			if seenSeeds {
				return nil, errs.New(errs.ErrCodeInvalidHeader, "line %d: duplicate seeds line", lineNo)
			}
			seeds, err := parseNumbers(lineNo, strings.TrimPrefix(line, seedsPrefix))
			if err != nil {
				return nil, err
			}
			a.Seeds, seenSeeds = seeds, true

		case strings.HasSuffix(line, headerSuffix):
			name := strings.TrimSuffix(line, headerSuffix)
			if i, ok := index[name]; ok {
				current = i
				continue
			}
			from, to, err := parseHeader(lineNo, name)
			if err != nil {
				return nil, err
			}
			a.Stages = append(a.Stages, Stage{From: from, To: to})
			current = len(a.Stages) - 1
			index[name] = current

		default:
			if current < 0 {
				return nil, errs.New(errs.ErrCodeInvalidHeader, "line %d: %q appears before any map header", lineNo, line)
			}
			e, err := parseEntry(lineNo, line)
			if err != nil {
				return nil, err
			}
			a.Stages[current].Entries = append(a.Stages[current].Entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidHeader, err, "read almanac")
	}
	return a, nil
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) (*Almanac, error) {
	return Parse(strings.NewReader(s))
}

func parseHeader(lineNo int, name string) (string, string, error) {
	from, to, ok := strings.Cut(name, categorySep)
	if !ok {
		return "", "", errs.New(errs.ErrCodeInvalidHeader, "line %d: header %q is not of the form <from>-to-<to> map:", lineNo, name+headerSuffix)
	}
	for _, c := range []string{from, to} {
		if err := errs.ValidateCategory(c); err != nil {
			return "", "", errs.Wrap(errs.ErrCodeInvalidHeader, err, "line %d", lineNo)
		}
	}
	if from == to {
		return "", "", errs.New(errs.ErrCodeInvalidHeader, "line %d: stage maps %q onto itself", lineNo, from)
	}
	return from, to, nil
}

func parseEntry(lineNo int, line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return Entry{}, errs.New(errs.ErrCodeInvalidFieldCount, "line %d: want 3 numbers (destination source length), got %d", lineNo, len(fields))
	}
	nums, err := parseNumbers(lineNo, line)
	if err != nil {
		return Entry{}, err
	}
	e, err := NewEntry(nums[0], nums[1], nums[2])
	if err != nil {
		return Entry{}, errs.Wrap(errs.ErrCodeInvalidEntry, err, "line %d", lineNo)
	}
	return e, nil
}

func parseNumbers(lineNo int, s string) ([]uint64, error) {
	fields := strings.Fields(s)
	nums := make([]uint64, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidNumber, err, "line %d: %q is not an unsigned integer", lineNo, f)
		}
		nums = append(nums, n)
	}
	return nums, nil
}
