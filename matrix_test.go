package dstglide

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layersWith(fill func(s Scenario, day, minute int) uint8) [NumScenarios][]uint8 {
	var layers [NumScenarios][]uint8
	for s := range layers {
		layers[s] = make([]uint8, cellsPerLayer)
		for i := range layers[s] {
			layers[s][i] = fill(Scenario(s), i/MinutesPerDay, i%MinutesPerDay)
		}
	}
	return layers
}

func TestNewMatrix(t *testing.T) {
	layers := layersWith(func(s Scenario, day, minute int) uint8 {
		if minute >= 360+60*int(s) && minute < 1080+60*int(s) {
			return 1
		}
		return 0
	})

	m, err := NewMatrix(2022, Location{Name: "Test"}, -300, layers)
	require.NoError(t, err)

	assert.Equal(t, 720, m.DaylightMinutes(NeverShift, 0))
	assert.Equal(t, 720*DaysPerYear, m.TotalDaylight(StandardShift))
	assert.Equal(t, uint8(1), m.At(PermanentShift, 10, 1130))
	assert.Equal(t, uint8(0), m.At(StandardShift, 10, 1130))

	first, last, ok := m.Sunlit(PermanentShift, 3)
	assert.True(t, ok)
	assert.Equal(t, 480, first)
	assert.Equal(t, 1199, last)

	// Copies, not views.
	layers[NeverShift][0] = 1
	assert.Equal(t, uint8(0), m.At(NeverShift, 0, 0))
	row := m.Row(NeverShift, 0)
	row[0] = 1
	assert.Equal(t, uint8(0), m.At(NeverShift, 0, 0))
}

func TestNewMatrix_Invalid(t *testing.T) {
	layers := layersWith(func(Scenario, int, int) uint8 { return 0 })
	layers[PermanentShift] = layers[PermanentShift][:100]
	_, err := NewMatrix(2022, Location{}, 0, layers)
	assert.ErrorIs(t, err, ErrInvalidMatrix)

	layers = layersWith(func(Scenario, int, int) uint8 { return 0 })
	layers[NeverShift][42] = 2
	_, err = NewMatrix(2022, Location{}, 0, layers)
	assert.ErrorIs(t, err, ErrInvalidMatrix)
}

func TestMatrix_PanicsOutOfRange(t *testing.T) {
	m, err := NewMatrix(2022, Location{}, 0, layersWith(func(Scenario, int, int) uint8 { return 0 }))
	require.NoError(t, err)

	assert.Panics(t, func() { m.At(NeverShift, DaysPerYear, 0) })
	assert.Panics(t, func() { m.At(Scenario(7), 0, 0) })
	assert.Panics(t, func() { m.At(NeverShift, 0, MinutesPerDay) })

	_, _, ok := m.Sunlit(NeverShift, 0)
	assert.False(t, ok)
}

func TestScenarioString(t *testing.T) {
	assert.Equal(t, "Standard DST", StandardShift.String())
	assert.Equal(t, "No DST", NeverShift.String())
	assert.Equal(t, "Permanent DST", PermanentShift.String())
	assert.Equal(t, "Scenario(9)", Scenario(9).String())
	assert.Len(t, Scenarios(), NumScenarios)
}

func TestTrim_Alignment(t *testing.T) {
	buf := make([]uint8, cellsPerLayer+100)

	out, err := trim(NeverShift, buf, 100)
	require.NoError(t, err)
	assert.Len(t, out, cellsPerLayer)

	tests := []struct {
		name  string
		start int
	}{
		{"before window", -60},
		{"past window", 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := trim(PermanentShift, buf, tt.start)
			if !errors.Is(err, ErrAlignment) {
				t.Fatalf("trim(%d) error = %v, want ErrAlignment", tt.start, err)
			}
			assert.Contains(t, err.Error(), "Permanent DST")
		})
	}
}
