package almanac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/almanac/pkg/errors"
)

func TestSeedRanges(t *testing.T) {
	a := &Almanac{Seeds: []uint64{79, 14, 55, 13}}
	ranges, err := a.SeedRanges()
	require.NoError(t, err)
	assert.Equal(t, []SeedRange{{Start: 79, Length: 14}, {Start: 55, Length: 13}}, ranges)
	assert.Equal(t, uint64(93), ranges[0].End())

	_, err = (&Almanac{Seeds: []uint64{1, 2, 3}}).SeedRanges()
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFieldCount))
}

func TestNewFixed(t *testing.T) {
	a := loadExample(t)
	f, err := NewFixed(a)
	require.NoError(t, err)

	assert.Equal(t, []SeedRange{{79, 14}, {55, 13}}, f.Seeds)
	assert.Equal(t, uint64(27), f.TotalValues())
	assert.Empty(t, f.EmptyStages())

	assert.Equal(t, "seed", f.SeedToSoil.From)
	assert.Equal(t, "soil", f.SeedToSoil.To)
	assert.Equal(t, []Entry{{50, 98, 2}, {52, 50, 48}}, f.SeedToSoil.Entries)
	assert.Equal(t, "humidity-to-location", f.HumidityToLocation.Name())
}

func TestFixedMatchesChain(t *testing.T) {
	a := loadExample(t)
	c, err := a.Chain()
	require.NoError(t, err)
	f, err := NewFixed(a)
	require.NoError(t, err)

	for seed := uint64(0); seed < 200; seed++ {
		require.Equal(t, c.Resolve(seed), f.Resolve(seed), "seed %d", seed)
	}
}

func TestNewFixedMissingStagesAreIdentity(t *testing.T) {
	a, err := ParseString(`
		seeds: 79 14 55 13

		seed-to-soil map:
		50 98 2
		52 50 48

		soil-to-fertilizer map:
		0 15 37
		37 52 2
		39 0 15
	`)
	require.NoError(t, err)

	f, err := NewFixed(a)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"fertilizer-to-water",
		"water-to-light",
		"light-to-temperature",
		"temperature-to-humidity",
		"humidity-to-location",
	}, f.EmptyStages())

	// seed 79 -> soil 81 -> fertilizer 81, then identity.
	assert.Equal(t, uint64(81), f.Resolve(79))
}

func TestNewFixedOddSeeds(t *testing.T) {
	_, err := NewFixed(&Almanac{Seeds: []uint64{1}})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFieldCount))
}
