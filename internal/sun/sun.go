// Package sun computes sunrise and sunset from a low-precision solar
// position model.
package sun

import (
	"time"

	"github.com/thurmanmarka/dstglide/internal/solver"
)

// HorizonAltitude is the altitude of the Sun's center when its upper limb
// touches the horizon under standard refraction (90°50' zenith).
const HorizonAltitude = -0.833

const (
	samplesPerDay = 48 // every 30 minutes
	tolerance     = 30 * time.Second
)

// Events are the rise and set instants (UTC) found on one local day.
// A false HasRise or HasSet means the Sun did not cross the horizon in
// that direction during the day.
type Events struct {
	Rise, Set       time.Time
	HasRise, HasSet bool
}

// Degenerate reports whether either event is missing.
func (e Events) Degenerate() bool {
	return !e.HasRise || !e.HasSet
}

// RiseSet finds sunrise and sunset during the local calendar day of date
// (midnight to midnight in date.Location()) for an observer at lat, lon.
func RiseSet(lat, lon float64, date time.Time) Events {
	year, month, day := date.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)

	alt := func(t time.Time) float64 {
		return Altitude(lat, lon, t)
	}

	var ev Events
	if c := solver.Search(alt, start, end, HorizonAltitude, solver.Up, samplesPerDay, tolerance); c.OK {
		ev.Rise, ev.HasRise = c.Time.UTC(), true
	}
	if c := solver.Search(alt, start, end, HorizonAltitude, solver.Down, samplesPerDay, tolerance); c.OK {
		ev.Set, ev.HasSet = c.Time.UTC(), true
	}
	return ev
}
