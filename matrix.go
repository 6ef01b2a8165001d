package dstglide

import (
	"fmt"
)

// Scenario identifies one of the three clock policies.
type Scenario int

const (
	// StandardShift follows the location's real civil clock, including
	// the seasonal shift.
	StandardShift Scenario = iota
	// NeverShift keeps the standard (winter) offset all year.
	NeverShift
	// PermanentShift keeps the standard offset plus SeasonalShiftMinutes
	// all year.
	PermanentShift

	// NumScenarios is the number of layers in a Matrix.
	NumScenarios = 3
)

const (
	// DaysPerYear is the fixed row count. Leap years lose December 31.
	DaysPerYear = 365
	// MinutesPerDay is the fixed column count.
	MinutesPerDay = 1440
	// SeasonalShiftMinutes is how far PermanentShift moves the clock.
	SeasonalShiftMinutes = 60

	cellsPerLayer = DaysPerYear * MinutesPerDay
)

// Scenarios returns all scenarios in layer order.
func Scenarios() []Scenario {
	return []Scenario{StandardShift, NeverShift, PermanentShift}
}

func (s Scenario) String() string {
	switch s {
	case StandardShift:
		return "Standard DST"
	case NeverShift:
		return "No DST"
	case PermanentShift:
		return "Permanent DST"
	default:
		return fmt.Sprintf("Scenario(%d)", int(s))
	}
}

// Valid reports whether s is one of the three defined scenarios.
func (s Scenario) Valid() bool {
	return s >= StandardShift && s <= PermanentShift
}

// Matrix is the daylight record for one location and year: for each
// scenario, DaysPerYear rows (day of year, 0-based) of MinutesPerDay
// columns (minute of day on that scenario's clock). A cell is 1 when the
// Sun is up during that minute and 0 otherwise.
//
// A Matrix is immutable; accessors return copies. Out-of-range indices
// panic like slice indexing.
type Matrix struct {
	Year     int
	Location Location
	// Offset is the standard UTC offset, in minutes, the run assumed.
	Offset int

	layers [NumScenarios][]uint8
}

// NewMatrix assembles a Matrix from flat row-major layers, each of
// DaysPerYear*MinutesPerDay cells in {0, 1}. The layers are copied.
func NewMatrix(year int, loc Location, offset int, layers [NumScenarios][]uint8) (*Matrix, error) {
	m := &Matrix{Year: year, Location: loc, Offset: offset}
	for s, layer := range layers {
		if len(layer) != cellsPerLayer {
			return nil, fmt.Errorf("%w: %s has %d cells, want %d", ErrInvalidMatrix, Scenario(s), len(layer), cellsPerLayer)
		}
		for i, v := range layer {
			if v > 1 {
				return nil, fmt.Errorf("%w: %s cell %d = %d", ErrInvalidMatrix, Scenario(s), i, v)
			}
		}
		m.layers[s] = append([]uint8(nil), layer...)
	}
	return m, nil
}

// Days returns the row count, always DaysPerYear.
func (m *Matrix) Days() int { return DaysPerYear }

// Minutes returns the column count, always MinutesPerDay.
func (m *Matrix) Minutes() int { return MinutesPerDay }

// At returns the cell for scenario s, 0-based day of year and minute.
func (m *Matrix) At(s Scenario, day, minute int) uint8 {
	return m.row(s, day)[minute]
}

// Row returns a copy of one day of scenario s.
func (m *Matrix) Row(s Scenario, day int) []uint8 {
	return append([]uint8(nil), m.row(s, day)...)
}

// Layer returns a copy of scenario s as DaysPerYear rows.
func (m *Matrix) Layer(s Scenario) [][]uint8 {
	out := make([][]uint8, DaysPerYear)
	for d := range out {
		out[d] = m.Row(s, d)
	}
	return out
}

// DaylightMinutes counts the daylight cells in one row.
func (m *Matrix) DaylightMinutes(s Scenario, day int) int {
	n := 0
	for _, v := range m.row(s, day) {
		n += int(v)
	}
	return n
}

// TotalDaylight counts the daylight cells of a whole scenario.
func (m *Matrix) TotalDaylight(s Scenario) int {
	n := 0
	for d := 0; d < DaysPerYear; d++ {
		n += m.DaylightMinutes(s, d)
	}
	return n
}

// Sunlit returns the first and last daylight minute of a row; ok is false
// for a row without daylight. A row whose daylight wraps past midnight
// reports the overall first and last set columns.
func (m *Matrix) Sunlit(s Scenario, day int) (first, last int, ok bool) {
	row := m.row(s, day)
	first, last = -1, -1
	for i, v := range row {
		if v == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last, first >= 0
}

func (m *Matrix) row(s Scenario, day int) []uint8 {
	if !s.Valid() {
		panic(fmt.Sprintf("dstglide: invalid scenario %d", int(s)))
	}
	if day < 0 || day >= DaysPerYear {
		panic(fmt.Sprintf("dstglide: day %d out of range [0, %d)", day, DaysPerYear))
	}
	start := day * MinutesPerDay
	return m.layers[s][start : start+MinutesPerDay]
}
