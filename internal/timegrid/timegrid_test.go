package timegrid

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("time zone %s unavailable: %v", name, err)
	}
	return loc
}

func TestBuild_NewYork2022(t *testing.T) {
	locNY := loadZone(t, "America/New_York")

	g, err := Build(2022, locNY)
	require.NoError(t, err)

	// Dec 30 .. Jan 2 is 368 days; the clock changes cancel out.
	assert.Equal(t, 368*1440, g.Len())
	assert.Len(t, g.Absolute, 368*1440)
	assert.Len(t, g.Days, 369)

	assert.Equal(t, 2*1440, g.LocalYearStart)
	assert.Equal(t, 2*1440+365*1440, g.LocalYearEnd)
	// Local midnight is 05:00 UTC in winter.
	assert.Equal(t, 2*1440+300, g.AbsoluteYearStart)
	assert.Equal(t, 2*1440+300+365*1440, g.AbsoluteYearEnd)

	assert.Equal(t, time.UTC, g.Absolute[0].Location())
	assert.Equal(t, locNY, g.Local[0].Location())
	assert.Equal(t, time.Date(2021, time.December, 30, 0, 0, 0, 0, time.UTC), g.Days[0])
	assert.Equal(t, time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC), g.Days[len(g.Days)-1])

	// Spring forward on Mar 13 and fall back on Nov 6.
	require.Len(t, g.Transitions, 2)
	assert.Equal(t, time.March, g.Local[g.Transitions[0]].Month())
	assert.Equal(t, time.November, g.Local[g.Transitions[1]].Month())
}

func TestBuild_LocalDaysAreUneven(t *testing.T) {
	locNY := loadZone(t, "America/New_York")

	g, err := Build(2022, locNY)
	require.NoError(t, err)

	perDay := map[string]int{}
	for _, ts := range g.Local {
		perDay[ts.Format("2006-01-02")]++
	}

	assert.Equal(t, 1440, perDay["2022-01-15"])
	assert.Equal(t, 1380, perDay["2022-03-13"])
	assert.Equal(t, 1500, perDay["2022-11-06"])
}

func TestBuild_LeapYear(t *testing.T) {
	g, err := Build(2024, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, 369*1440, g.Len())
	assert.Len(t, g.Days, 370)
	assert.Equal(t, 366*1440, g.AbsoluteYearEnd-g.AbsoluteYearStart)
	assert.Empty(t, g.Transitions)
}

func TestBuild_EvenSpacing(t *testing.T) {
	g, err := Build(2022, loadZone(t, "America/Chicago"))
	require.NoError(t, err)

	for i := 1; i < g.Len(); i++ {
		if g.LocalUnix[i]-g.LocalUnix[i-1] != 60 || g.AbsoluteUnix[i]-g.AbsoluteUnix[i-1] != 60 {
			t.Fatalf("grid not 60s-spaced at %d", i)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(2022, nil)
	assert.ErrorIs(t, err, ErrNilLocation)

	_, err = Build(0, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidYear)

	_, err = Build(9999, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidYear)
}

func TestBuild_WindowMismatch(t *testing.T) {
	// Samoa skipped 2011-12-30 when it crossed the date line.
	apia := loadZone(t, "Pacific/Apia")

	_, err := Build(2011, apia)
	if !errors.Is(err, ErrWindowMismatch) {
		t.Fatalf("Build(2011, Apia) error = %v, want ErrWindowMismatch", err)
	}
}
