package dstglide

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/nathan-osman/go-sunrise"

	"github.com/thurmanmarka/dstglide/internal/sun"
)

// AstroProvider is the built-in solar model: sampled altitude curve,
// bracketed and bisected to 30 seconds around the standard -0.833°
// horizon. Accurate to about a minute at mid-latitudes.
type AstroProvider struct{}

// SunEvent implements SunEventProvider. The local day runs from midnight
// to midnight in tz.
func (AstroProvider) SunEvent(date time.Time, at Coordinates, tz *time.Location) (SunEvent, error) {
	if tz == nil {
		tz = time.UTC
	}
	year, month, day := date.Date()

	ev := sun.RiseSet(at.Lat, at.Lon, time.Date(year, month, day, 0, 0, 0, 0, tz))
	if !ev.HasRise && !ev.HasSet {
		return SunEvent{}, ErrNoRiseNoSet
	}

	var out SunEvent
	if ev.HasRise {
		out.Sunrise = ev.Rise.In(tz)
	}
	if ev.HasSet {
		out.Sunset = ev.Set.In(tz)
	}
	return out, nil
}

// SunriseProvider computes events with github.com/nathan-osman/go-sunrise.
// That package reckons the day around the solar transit nearest noon UTC
// of the given date, which matches the local day for any zone within
// about twelve hours of its solar time.
type SunriseProvider struct{}

// SunEvent implements SunEventProvider.
func (SunriseProvider) SunEvent(date time.Time, at Coordinates, tz *time.Location) (SunEvent, error) {
	if tz == nil {
		tz = time.UTC
	}
	year, month, day := date.Date()

	rise, set := sunrise.SunriseSunset(at.Lat, at.Lon, year, month, day)
	if rise.IsZero() && set.IsZero() {
		return SunEvent{}, ErrNoRiseNoSet
	}
	return SunEvent{Sunrise: rise.In(tz), Sunset: set.In(tz)}, nil
}

// Provider names accepted by ProviderByName.
const (
	ProviderAstro   = "astro"
	ProviderSunrise = "sunrise"
)

// ProviderNames lists the names ProviderByName understands.
func ProviderNames() []string {
	return []string{ProviderAstro, ProviderSunrise}
}

// ProviderByName returns the provider registered under name. The empty
// name selects the built-in model.
func ProviderByName(name string) (SunEventProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ProviderAstro:
		return AstroProvider{}, nil
	case ProviderSunrise:
		return SunriseProvider{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use %s)", ErrUnknownProvider, name, strings.Join(ProviderNames(), " or "))
	}
}

type eventKey struct {
	date     string
	lat, lon float64
	zone     string
}

type cachedEvent struct {
	event       SunEvent
	noRiseNoSet bool
}

// CachedProvider memoizes another provider's results in an in-memory
// otter cache. Only successful lookups and ErrNoRiseNoSet are cached;
// other errors pass through and are retried on the next call.
type CachedProvider struct {
	next  SunEventProvider
	cache *otter.Cache[eventKey, cachedEvent]
}

// NewCachedProvider wraps next with a cache holding up to size entries.
func NewCachedProvider(next SunEventProvider, size int) *CachedProvider {
	if size <= 0 {
		size = 4096
	}
	return &CachedProvider{
		next: next,
		cache: otter.Must(&otter.Options[eventKey, cachedEvent]{
			MaximumSize: size,
		}),
	}
}

// SunEvent implements SunEventProvider.
func (c *CachedProvider) SunEvent(date time.Time, at Coordinates, tz *time.Location) (SunEvent, error) {
	if tz == nil {
		tz = time.UTC
	}
	key := eventKey{
		date: date.Format("2006-01-02"),
		lat:  at.Lat,
		lon:  at.Lon,
		zone: tz.String(),
	}

	if hit, ok := c.cache.GetIfPresent(key); ok {
		if hit.noRiseNoSet {
			return SunEvent{}, ErrNoRiseNoSet
		}
		return hit.event, nil
	}

	ev, err := c.next.SunEvent(date, at, tz)
	switch {
	case errors.Is(err, ErrNoRiseNoSet):
		c.cache.Set(key, cachedEvent{noRiseNoSet: true})
		return SunEvent{}, err
	case err != nil:
		return SunEvent{}, err
	}

	c.cache.Set(key, cachedEvent{event: ev})
	return ev, nil
}
