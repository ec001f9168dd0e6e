package almanac

// FixedCategories is the hard-coded category order of the ranged pipeline.
var FixedCategories = [...]string{
	CategorySeed, "soil", "fertilizer", "water", "light", "temperature", "humidity", CategoryLocation,
}

// Fixed is the seven-stage pipeline used by the ranged scan. Stage order is
// structural: Resolve never looks up categories by name, which keeps the
// per-value cost to seven slice scans.
type Fixed struct {
	Seeds []SeedRange

	SeedToSoil            Stage
	SoilToFertilizer      Stage
	FertilizerToWater     Stage
	WaterToLight          Stage
	LightToTemperature    Stage
	TemperatureToHumidity Stage
	HumidityToLocation    Stage
}

// NewFixed builds a ranged pipeline from a parsed almanac. Seeds are read as
// (start, length) pairs. A stage missing from the input is left empty and
// therefore maps every value to itself; stages outside the fixed order are
// ignored.
func NewFixed(a *Almanac) (*Fixed, error) {
	ranges, err := a.SeedRanges()
	if err != nil {
		return nil, err
	}

	f := &Fixed{Seeds: ranges}
	slots := f.slots()
	for i, slot := range slots {
		from, to := FixedCategories[i], FixedCategories[i+1]
		slot.From, slot.To = from, to
		if s, ok := a.Stage(from); ok && s.To == to {
			slot.Entries = s.Entries
		}
	}
	return f, nil
}

// Resolve maps seed through the seven stages in their fixed order.
func (f *Fixed) Resolve(seed uint64) uint64 {
	soil := f.SeedToSoil.Apply(seed)
	fertilizer := f.SoilToFertilizer.Apply(soil)
	water := f.FertilizerToWater.Apply(fertilizer)
	light := f.WaterToLight.Apply(water)
	temperature := f.LightToTemperature.Apply(light)
	humidity := f.TemperatureToHumidity.Apply(temperature)
	return f.HumidityToLocation.Apply(humidity)
}

// TotalValues returns the number of pipeline evaluations a full scan performs.
func (f *Fixed) TotalValues() uint64 {
	var total uint64
	for _, r := range f.Seeds {
		total += r.Length
	}
	return total
}

// EmptyStages returns the names of stages without entries. Such stages map
// every value to itself, which usually means the input lacked that section.
func (f *Fixed) EmptyStages() []string {
	var names []string
	for _, s := range f.slots() {
		if len(s.Entries) == 0 {
			names = append(names, s.Name())
		}
	}
	return names
}

func (f *Fixed) slots() []*Stage {
	return []*Stage{
		&f.SeedToSoil,
		&f.SoilToFertilizer,
		&f.FertilizerToWater,
		&f.WaterToLight,
		&f.LightToTemperature,
		&f.TemperatureToHumidity,
		&f.HumidityToLocation,
	}
}
