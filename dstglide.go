// Package dstglide computes, for one location and one calendar year, a
// minute-by-minute record of whether the Sun is up under three clock
// policies: the real seasonally-shifting clock, a clock that never
// shifts, and a clock permanently shifted forward by an hour.
//
// The result is a Matrix of 3 scenarios × 365 days × 1440 minutes with
// cells in {0, 1}, meant to be rendered as a heat-map:
//
//	nyc := dstglide.Location{
//		Name:        "New York",
//		Coordinates: dstglide.Coordinates{Lat: 40.7128, Lon: -74.0060},
//		TimeZone:    "America/New_York",
//	}
//	m, err := dstglide.Compute(nyc, 2022)
//
// Sunrise and sunset come from a SunEventProvider. The default is the
// built-in low-precision solar model (about ±1 minute); go-sunrise is
// available as an alternative, and either can be wrapped in a cache.
//
// The engine assumes a northern-hemisphere style seasonal shift: the
// zone's offset at the start of the window (late December) is taken as
// the standard offset for the whole year.
package dstglide

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoRiseNoSet is returned when the Sun does not rise or set on that
	// date at that location. The assembler treats it as a day without
	// daylight rather than a failure.
	ErrNoRiseNoSet = errors.New("sun does not rise or set on this date")

	// ErrInvalidTimeZone is returned when a Location's zone cannot be loaded.
	ErrInvalidTimeZone = errors.New("invalid time zone")

	// ErrProvider wraps any other failure of a SunEventProvider; it aborts
	// the whole computation.
	ErrProvider = errors.New("sun event provider failed")

	// ErrAlignment is returned when the year cannot be sliced out of the
	// padded window. It indicates a configuration problem, never bad luck.
	ErrAlignment = errors.New("grid alignment out of bounds")

	// ErrUnknownProvider is returned by ProviderByName.
	ErrUnknownProvider = errors.New("unknown sun event provider")

	// ErrInvalidMatrix is returned by NewMatrix for malformed layers.
	ErrInvalidMatrix = errors.New("invalid daylight matrix")
)

// Coordinates represent an observer's location.
type Coordinates struct {
	Lat       float64 `json:"lat" yaml:"lat"`                       // degrees, north positive
	Lon       float64 `json:"lon" yaml:"lon"`                       // degrees, east positive
	Elevation float64 `json:"elevation,omitempty" yaml:"elevation"` // meters, unused by the solar model
}

// Location is a resolved place: coordinates plus an IANA zone name.
type Location struct {
	Name        string `json:"name" yaml:"name"`
	Coordinates `yaml:",inline"`
	TimeZone    string `json:"timezone" yaml:"timezone"`
}

// Load returns the location's time zone.
func (l Location) Load() (*time.Location, error) {
	if l.TimeZone == "" {
		return nil, fmt.Errorf("%w: empty zone for %q", ErrInvalidTimeZone, l.Name)
	}
	tz, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimeZone, l.TimeZone, err)
	}
	return tz, nil
}

// SunEvent holds sunrise and sunset instants for one day.
// A zero Sunrise or Sunset means that event did not happen.
type SunEvent struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`
}

// Degenerate reports whether the day lacks a sunrise or a sunset, or has
// them out of order.
func (e SunEvent) Degenerate() bool {
	return e.Sunrise.IsZero() || e.Sunset.IsZero() || !e.Sunrise.Before(e.Sunset)
}

// Daylight returns the time between sunrise and sunset, or zero for a
// degenerate day.
func (e SunEvent) Daylight() time.Duration {
	if e.Degenerate() {
		return 0
	}
	return e.Sunset.Sub(e.Sunrise)
}

// SunEventProvider computes sunrise and sunset for the calendar date of
// date (year, month and day only) reckoned in tz, at the given
// coordinates. Implementations must be deterministic.
type SunEventProvider interface {
	SunEvent(date time.Time, at Coordinates, tz *time.Location) (SunEvent, error)
}

// SlideIntoSunset returns sunrise and sunset at loc on date's calendar
// day, in date's time zone, using the built-in solar model.
func SlideIntoSunset(loc Coordinates, date time.Time) (SunEvent, error) {
	return AstroProvider{}.SunEvent(date, loc, date.Location())
}

// DaylightHours returns the time between sunrise and sunset in hours.
// It returns 0 and ErrNoRiseNoSet when either event is missing.
func DaylightHours(loc Coordinates, date time.Time) (float64, error) {
	ev, err := SlideIntoSunset(loc, date)
	if err != nil {
		return 0, err
	}
	if ev.Degenerate() {
		return 0, ErrNoRiseNoSet
	}
	return ev.Daylight().Hours(), nil
}
