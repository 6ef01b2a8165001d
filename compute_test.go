package dstglide_test

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/dstglide"
	"github.com/thurmanmarka/dstglide/internal/sun"
)

var nyc = dstglide.Location{
	Name:        "New York",
	Coordinates: dstglide.Coordinates{Lat: 40.7128, Lon: -74.0060},
	TimeZone:    "America/New_York",
}

var phoenix = dstglide.Location{
	Name:        "Phoenix",
	Coordinates: dstglide.Coordinates{Lat: 33.4484, Lon: -112.0740},
	TimeZone:    "America/Phoenix",
}

// scheduleProvider puts sunrise and sunset at fixed standard-time clock
// readings every day.
type scheduleProvider struct {
	rise, set int // minutes after standard midnight
	std       *time.Location
}

func (p scheduleProvider) SunEvent(date time.Time, _ dstglide.Coordinates, _ *time.Location) (dstglide.SunEvent, error) {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, p.std)
	return dstglide.SunEvent{
		Sunrise: midnight.Add(time.Duration(p.rise) * time.Minute),
		Sunset:  midnight.Add(time.Duration(p.set) * time.Minute),
	}, nil
}

type funcProvider func(date time.Time) (dstglide.SunEvent, error)

func (f funcProvider) SunEvent(date time.Time, _ dstglide.Coordinates, _ *time.Location) (dstglide.SunEvent, error) {
	return f(date)
}

var (
	nycOnce   sync.Once
	nycMatrix *dstglide.Matrix
	nycErr    error
)

// nyc2022 computes the real New York 2022 matrix once per test binary.
func nyc2022(t *testing.T) *dstglide.Matrix {
	t.Helper()
	if _, err := time.LoadLocation(nyc.TimeZone); err != nil {
		t.Skipf("time zone unavailable: %v", err)
	}
	nycOnce.Do(func() {
		nycMatrix, nycErr = dstglide.Compute(nyc, 2022)
	})
	require.NoError(t, nycErr)
	return nycMatrix
}

func setColumns(row []uint8) []int {
	var cols []int
	for c, v := range row {
		if v == 1 {
			cols = append(cols, c)
		}
	}
	return cols
}

func requireBlock(t *testing.T, row []uint8, first, last int, msg string) {
	t.Helper()
	cols := setColumns(row)
	require.NotEmpty(t, cols, msg)
	assert.Equal(t, first, cols[0], "%s: first daylight column", msg)
	assert.Equal(t, last, cols[len(cols)-1], "%s: last daylight column", msg)
	assert.Len(t, cols, last-first+1, "%s: daylight not contiguous", msg)
}

func TestCompute_FixedSchedule(t *testing.T) {
	if _, err := time.LoadLocation(nyc.TimeZone); err != nil {
		t.Skipf("time zone unavailable: %v", err)
	}
	est := time.FixedZone("EST", -5*3600)

	// 06:00 to 18:00 EST; boundary minutes are excluded.
	m, err := dstglide.Compute(nyc, 2022, dstglide.WithProvider(scheduleProvider{rise: 360, set: 1080, std: est}))
	require.NoError(t, err)

	assert.Equal(t, -300, m.Offset)
	assert.Equal(t, 2022, m.Year)

	for d := 0; d < dstglide.DaysPerYear; d++ {
		requireBlock(t, m.Row(dstglide.NeverShift, d), 361, 1079, "never shift")
		requireBlock(t, m.Row(dstglide.PermanentShift, d), 421, 1139, "permanent shift")
	}

	tests := []struct {
		name        string
		day         int
		first, last int
	}{
		{"Jan 1", 0, 361, 1079},
		{"Mar 13, day of spring forward", 71, 361, 1079},
		{"Mar 14", 72, 421, 1139},
		{"Jul 4", 184, 421, 1139},
		{"Nov 6, day of fall back", 309, 421, 1139},
		{"Nov 7", 310, 361, 1079},
		{"Dec 31", 364, 361, 1079},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireBlock(t, m.Row(dstglide.StandardShift, tt.day), tt.first, tt.last, tt.name)
		})
	}
}

func TestCompute_NoShiftZoneMatchesNeverShift(t *testing.T) {
	if _, err := time.LoadLocation(phoenix.TimeZone); err != nil {
		t.Skipf("time zone unavailable: %v", err)
	}
	m, err := dstglide.Compute(phoenix, 2022)
	require.NoError(t, err)

	assert.Equal(t, -420, m.Offset)
	for d := 0; d < dstglide.DaysPerYear; d++ {
		require.Equal(t, m.Row(dstglide.NeverShift, d), m.Row(dstglide.StandardShift, d), "day %d", d)
	}
}

func TestCompute_CellsAreBinary(t *testing.T) {
	m := nyc2022(t)
	for _, s := range dstglide.Scenarios() {
		for d := 0; d < m.Days(); d++ {
			for c := 0; c < m.Minutes(); c++ {
				if v := m.At(s, d, c); v > 1 {
					t.Fatalf("%s day %d minute %d = %d", s, d, c, v)
				}
			}
		}
	}
}

func TestCompute_PermanentIsShiftedNever(t *testing.T) {
	m := nyc2022(t)
	for d := 0; d < dstglide.DaysPerYear; d++ {
		never := m.Row(dstglide.NeverShift, d)
		perm := m.Row(dstglide.PermanentShift, d)
		for c := 0; c < dstglide.MinutesPerDay; c++ {
			shifted := (c + dstglide.SeasonalShiftMinutes) % dstglide.MinutesPerDay
			if never[c] != perm[shifted] {
				t.Fatalf("day %d: never[%d]=%d but permanent[%d]=%d", d, c, never[c], shifted, perm[shifted])
			}
		}
	}
}

func TestCompute_StandardShiftFollowsClock(t *testing.T) {
	m := nyc2022(t)

	// Winter rows equal the never-shift rows; summer rows equal the
	// permanent-shift rows.
	assert.Equal(t, m.Row(dstglide.NeverShift, 20), m.Row(dstglide.StandardShift, 20))
	assert.Equal(t, m.Row(dstglide.PermanentShift, 180), m.Row(dstglide.StandardShift, 180))
	assert.Equal(t, m.Row(dstglide.NeverShift, 340), m.Row(dstglide.StandardShift, 340))
}

func TestCompute_EquinoxDayLength(t *testing.T) {
	m := nyc2022(t)

	// Mar 17 is about when day and night are equal at 40°N.
	const mar17 = 75
	got := m.DaylightMinutes(dstglide.NeverShift, mar17)
	t.Logf("NYC 2022-03-17: %d daylight minutes", got)
	assert.InDelta(t, 720, got, 5)
}

func TestCompute_DayLengthSeasons(t *testing.T) {
	m := nyc2022(t)

	const (
		summerSolstice = 171 // Jun 21
		winterSolstice = 354 // Dec 21
	)
	count := func(d int) int { return m.DaylightMinutes(dstglide.NeverShift, d) }

	for d := 7; d <= summerSolstice; d += 7 {
		if count(d) < count(d-7)-1 {
			t.Errorf("daylight shrank from day %d (%d) to day %d (%d)", d-7, count(d-7), d, count(d))
		}
	}
	for d := summerSolstice + 7; d <= winterSolstice; d += 7 {
		if count(d) > count(d-7)+1 {
			t.Errorf("daylight grew from day %d (%d) to day %d (%d)", d-7, count(d-7), d, count(d))
		}
	}
	assert.Greater(t, count(summerSolstice), count(winterSolstice)+300)
}

func TestCompute_SymmetricAroundSolarNoon(t *testing.T) {
	m := nyc2022(t)
	std := time.FixedZone("EST", m.Offset*60)

	// Rise and set are rounded to whole minutes and the declination drifts
	// between them, so the centre can sit up to about a minute off transit.
	for d := 0; d < dstglide.DaysPerYear; d += 5 {
		noon := transit(nyc.Coordinates, time.Date(2022, time.January, 1+d, 12, 0, 0, 0, std))
		noonMinute := float64(noon.Hour()*60+noon.Minute()) + float64(noon.Second())/60

		first, last, ok := m.Sunlit(dstglide.NeverShift, d)
		require.True(t, ok)
		mid := float64(first+last) / 2
		if math.Abs(mid-noonMinute) > 1.5 {
			t.Errorf("day %d: daylight centred on %.1f, solar noon at %.1f", d, mid, noonMinute)
		}
	}
}

// transit finds the Sun's highest point within two hours of clockNoon by
// ternary search on its altitude.
func transit(at dstglide.Coordinates, clockNoon time.Time) time.Time {
	lo, hi := clockNoon.Add(-2*time.Hour), clockNoon.Add(2*time.Hour)
	for hi.Sub(lo) > time.Second {
		third := hi.Sub(lo) / 3
		a, b := lo.Add(third), hi.Add(-third)
		if sun.Altitude(at.Lat, at.Lon, a) < sun.Altitude(at.Lat, at.Lon, b) {
			lo = a
		} else {
			hi = b
		}
	}
	return lo.Add(hi.Sub(lo) / 2)
}

func TestCompute_BoundaryRowsPopulated(t *testing.T) {
	m := nyc2022(t)
	tz, err := nyc.Load()
	require.NoError(t, err)

	for _, d := range []int{0, dstglide.DaysPerYear - 1} {
		date := time.Date(2022, time.January, 1+d, 0, 0, 0, 0, time.UTC)
		ev, err := dstglide.AstroProvider{}.SunEvent(date, nyc.Coordinates, tz)
		require.NoError(t, err)
		want := ev.Daylight().Minutes()

		for _, s := range dstglide.Scenarios() {
			first, last, ok := m.Sunlit(s, d)
			require.True(t, ok, "%s day %d empty", s, d)
			n := m.DaylightMinutes(s, d)
			assert.Equal(t, last-first+1, n, "%s day %d has gaps", s, d)
			assert.InDelta(t, want, n, 1.5, "%s day %d", s, d)
		}
	}
}

func TestCompute_LeapYearTruncated(t *testing.T) {
	m, err := dstglide.Compute(dstglide.Location{Name: "Greenwich", Coordinates: dstglide.Coordinates{Lat: 51.48}, TimeZone: "UTC"}, 2024)
	require.NoError(t, err)

	assert.Equal(t, 365, m.Days())
	assert.Len(t, m.Layer(dstglide.NeverShift), 365)
	// Row 364 is Dec 30 in a leap year; Dec 31 is dropped.
	assert.Positive(t, m.DaylightMinutes(dstglide.NeverShift, 364))
	assert.Positive(t, m.DaylightMinutes(dstglide.PermanentShift, 364))
}

func TestCompute_DegenerateDaysStayDark(t *testing.T) {
	tests := []struct {
		name     string
		provider dstglide.SunEventProvider
	}{
		{"ErrNoRiseNoSet", funcProvider(func(time.Time) (dstglide.SunEvent, error) {
			return dstglide.SunEvent{}, dstglide.ErrNoRiseNoSet
		})},
		{"zero events", funcProvider(func(time.Time) (dstglide.SunEvent, error) {
			return dstglide.SunEvent{}, nil
		})},
		{"set before rise", funcProvider(func(d time.Time) (dstglide.SunEvent, error) {
			return dstglide.SunEvent{Sunrise: d.Add(18 * time.Hour), Sunset: d.Add(6 * time.Hour)}, nil
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := dstglide.Compute(dstglide.Location{Name: "Nowhere", TimeZone: "UTC"}, 2022, dstglide.WithProvider(tt.provider))
			require.NoError(t, err)
			for _, s := range dstglide.Scenarios() {
				assert.Zero(t, m.TotalDaylight(s), s.String())
			}
		})
	}
}

func TestCompute_ProviderFailureAborts(t *testing.T) {
	boom := errors.New("ephemeris offline")
	calls := 0
	p := funcProvider(func(d time.Time) (dstglide.SunEvent, error) {
		calls++
		if d.Month() == time.June {
			return dstglide.SunEvent{}, boom
		}
		return dstglide.SunEvent{Sunrise: d.Add(6 * time.Hour), Sunset: d.Add(18 * time.Hour)}, nil
	})

	m, err := dstglide.Compute(dstglide.Location{Name: "Nowhere", TimeZone: "UTC"}, 2022, dstglide.WithProvider(p))
	require.Error(t, err)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, dstglide.ErrProvider)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "2022-06-01")
	assert.Less(t, calls, 369)
}

func TestCompute_InvalidInput(t *testing.T) {
	_, err := dstglide.Compute(dstglide.Location{Name: "Atlantis", TimeZone: "Atlantis/Capital"}, 2022)
	assert.ErrorIs(t, err, dstglide.ErrInvalidTimeZone)

	_, err = dstglide.Compute(dstglide.Location{Name: "Nowhere"}, 2022)
	assert.ErrorIs(t, err, dstglide.ErrInvalidTimeZone)

	_, err = dstglide.Compute(dstglide.Location{Name: "Nowhere", TimeZone: "UTC"}, 0)
	assert.Error(t, err)
}
