// Package timegrid builds the parallel minute grids that the daylight
// matrix is assembled on.
//
// Both grids cover the padded window from December 30 of the previous
// year to January 2 of the next, one entry per absolute minute. The local
// grid is tagged with the location's zone, so its wall-clock labels jump
// across a seasonal clock change; the absolute grid is tagged UTC.
package timegrid

import (
	"errors"
	"fmt"
	"time"

	"github.com/thurmanmarka/dstglide/internal/timeutil"
)

var (
	// ErrInvalidYear is returned for years the padded window cannot hold.
	ErrInvalidYear = errors.New("timegrid: year out of range")

	// ErrNilLocation is returned when no time zone is given.
	ErrNilLocation = errors.New("timegrid: nil location")

	// ErrWindowMismatch is returned when the local and absolute grids
	// differ in length, i.e. the zone's offset on December 30 differs
	// from its offset on January 2.
	ErrWindowMismatch = errors.New("timegrid: local and absolute windows differ in length")
)

// Grids is the immutable result of Build.
type Grids struct {
	Year     int
	Location *time.Location

	Local    []time.Time // minute steps, tagged Location
	Absolute []time.Time // minute steps, tagged UTC
	Days     []time.Time // UTC midnights, Dec 30 .. Jan 2 inclusive

	LocalUnix    []float64
	AbsoluteUnix []float64

	// Indices nearest to local Jan 1 00:00 of Year and of Year+1.
	LocalYearStart, LocalYearEnd       int
	AbsoluteYearStart, AbsoluteYearEnd int

	// Transitions lists local-grid indices whose UTC offset differs from
	// the previous entry's.
	Transitions []int
}

// Window returns the padded local window [start, end) for year.
func Window(year int, loc *time.Location) (start, end time.Time) {
	return time.Date(year-1, time.December, 30, 0, 0, 0, 0, loc),
		time.Date(year+1, time.January, 2, 0, 0, 0, 0, loc)
}

// Build constructs the grids for year in loc.
func Build(year int, loc *time.Location) (*Grids, error) {
	if loc == nil {
		return nil, ErrNilLocation
	}
	if year < 1 || year > 9998 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	localStart, localEnd := Window(year, loc)
	absStart, absEnd := Window(year, time.UTC)

	g := &Grids{
		Year:     year,
		Location: loc,
		Local:    minutes(localStart, localEnd),
		Absolute: minutes(absStart, absEnd),
	}
	if len(g.Local) != len(g.Absolute) {
		return nil, fmt.Errorf("%w: %d local vs %d absolute minutes in %s",
			ErrWindowMismatch, len(g.Local), len(g.Absolute), loc)
	}

	for d := absStart; !d.After(absEnd); d = d.AddDate(0, 0, 1) {
		g.Days = append(g.Days, d)
	}

	g.LocalUnix = timeutil.UnixSecondsAll(g.Local)
	g.AbsoluteUnix = timeutil.UnixSecondsAll(g.Absolute)

	// Nearest-instant search rather than day arithmetic: local days are
	// not all 1440 minutes long.
	jan1 := timeutil.UnixSeconds(time.Date(year, time.January, 1, 0, 0, 0, 0, loc))
	nextJan1 := timeutil.UnixSeconds(time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc))
	g.LocalYearStart = timeutil.NearestIndex(g.LocalUnix, jan1)
	g.LocalYearEnd = timeutil.NearestIndex(g.LocalUnix, nextJan1)
	g.AbsoluteYearStart = timeutil.NearestIndex(g.AbsoluteUnix, jan1)
	g.AbsoluteYearEnd = timeutil.NearestIndex(g.AbsoluteUnix, nextJan1)

	g.Transitions = transitions(g.Local)

	return g, nil
}

// Len is the number of minutes in each grid.
func (g *Grids) Len() int {
	return len(g.Local)
}

func minutes(start, end time.Time) []time.Time {
	n := int(end.Sub(start) / time.Minute)
	if n < 0 {
		n = 0
	}
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Minute)
	}
	return out
}

func transitions(ts []time.Time) []int {
	var out []int
	prev := 0
	for i, t := range ts {
		_, off := t.Zone()
		if i > 0 && off != prev {
			out = append(out, i)
		}
		prev = off
	}
	return out
}
