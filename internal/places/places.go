// Package places resolves place names to coordinates and time zones.
package places

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/thurmanmarka/dstglide"
)

// ErrUnknownPlace is returned by Lookup for a name with no entry.
var ErrUnknownPlace = errors.New("unknown place")

// Place is a named location with an optional state or region code.
type Place struct {
	dstglide.Location
	State string
}

// builtin covers the continental US, where the seasonal shift follows
// the northern-hemisphere pattern the engine assumes.
var builtin = []Place{
	{dstglide.Location{Name: "Albuquerque", Coordinates: dstglide.Coordinates{Lat: 35.0844, Lon: -106.6504}, TimeZone: "America/Denver"}, "NM"},
	{dstglide.Location{Name: "Atlanta", Coordinates: dstglide.Coordinates{Lat: 33.7490, Lon: -84.3880}, TimeZone: "America/New_York"}, "GA"},
	{dstglide.Location{Name: "Austin", Coordinates: dstglide.Coordinates{Lat: 30.2672, Lon: -97.7431}, TimeZone: "America/Chicago"}, "TX"},
	{dstglide.Location{Name: "Boise", Coordinates: dstglide.Coordinates{Lat: 43.6150, Lon: -116.2023}, TimeZone: "America/Boise"}, "ID"},
	{dstglide.Location{Name: "Boston", Coordinates: dstglide.Coordinates{Lat: 42.3601, Lon: -71.0589}, TimeZone: "America/New_York"}, "MA"},
	{dstglide.Location{Name: "Charlotte", Coordinates: dstglide.Coordinates{Lat: 35.2271, Lon: -80.8431}, TimeZone: "America/New_York"}, "NC"},
	{dstglide.Location{Name: "Chicago", Coordinates: dstglide.Coordinates{Lat: 41.8781, Lon: -87.6298}, TimeZone: "America/Chicago"}, "IL"},
	{dstglide.Location{Name: "Dallas", Coordinates: dstglide.Coordinates{Lat: 32.7767, Lon: -96.7970}, TimeZone: "America/Chicago"}, "TX"},
	{dstglide.Location{Name: "Denver", Coordinates: dstglide.Coordinates{Lat: 39.7392, Lon: -104.9903}, TimeZone: "America/Denver"}, "CO"},
	{dstglide.Location{Name: "Detroit", Coordinates: dstglide.Coordinates{Lat: 42.3314, Lon: -83.0458}, TimeZone: "America/Detroit"}, "MI"},
	{dstglide.Location{Name: "El Paso", Coordinates: dstglide.Coordinates{Lat: 31.7619, Lon: -106.4850}, TimeZone: "America/Denver"}, "TX"},
	{dstglide.Location{Name: "Houston", Coordinates: dstglide.Coordinates{Lat: 29.7604, Lon: -95.3698}, TimeZone: "America/Chicago"}, "TX"},
	{dstglide.Location{Name: "Indianapolis", Coordinates: dstglide.Coordinates{Lat: 39.7684, Lon: -86.1581}, TimeZone: "America/Indiana/Indianapolis"}, "IN"},
	{dstglide.Location{Name: "Kansas City", Coordinates: dstglide.Coordinates{Lat: 39.0997, Lon: -94.5786}, TimeZone: "America/Chicago"}, "MO"},
	{dstglide.Location{Name: "Las Vegas", Coordinates: dstglide.Coordinates{Lat: 36.1699, Lon: -115.1398}, TimeZone: "America/Los_Angeles"}, "NV"},
	{dstglide.Location{Name: "Los Angeles", Coordinates: dstglide.Coordinates{Lat: 34.0522, Lon: -118.2437}, TimeZone: "America/Los_Angeles"}, "CA"},
	{dstglide.Location{Name: "Miami", Coordinates: dstglide.Coordinates{Lat: 25.7617, Lon: -80.1918}, TimeZone: "America/New_York"}, "FL"},
	{dstglide.Location{Name: "Minneapolis", Coordinates: dstglide.Coordinates{Lat: 44.9778, Lon: -93.2650}, TimeZone: "America/Chicago"}, "MN"},
	{dstglide.Location{Name: "Nashville", Coordinates: dstglide.Coordinates{Lat: 36.1627, Lon: -86.7816}, TimeZone: "America/Chicago"}, "TN"},
	{dstglide.Location{Name: "New Orleans", Coordinates: dstglide.Coordinates{Lat: 29.9511, Lon: -90.0715}, TimeZone: "America/Chicago"}, "LA"},
	{dstglide.Location{Name: "New York", Coordinates: dstglide.Coordinates{Lat: 40.7128, Lon: -74.0060}, TimeZone: "America/New_York"}, "NY"},
	{dstglide.Location{Name: "Philadelphia", Coordinates: dstglide.Coordinates{Lat: 39.9526, Lon: -75.1652}, TimeZone: "America/New_York"}, "PA"},
	{dstglide.Location{Name: "Phoenix", Coordinates: dstglide.Coordinates{Lat: 33.4484, Lon: -112.0740}, TimeZone: "America/Phoenix"}, "AZ"},
	{dstglide.Location{Name: "Portland", Coordinates: dstglide.Coordinates{Lat: 45.5152, Lon: -122.6784}, TimeZone: "America/Los_Angeles"}, "OR"},
	{dstglide.Location{Name: "Salt Lake City", Coordinates: dstglide.Coordinates{Lat: 40.7608, Lon: -111.8910}, TimeZone: "America/Denver"}, "UT"},
	{dstglide.Location{Name: "San Antonio", Coordinates: dstglide.Coordinates{Lat: 29.4241, Lon: -98.4936}, TimeZone: "America/Chicago"}, "TX"},
	{dstglide.Location{Name: "San Diego", Coordinates: dstglide.Coordinates{Lat: 32.7157, Lon: -117.1611}, TimeZone: "America/Los_Angeles"}, "CA"},
	{dstglide.Location{Name: "San Francisco", Coordinates: dstglide.Coordinates{Lat: 37.7749, Lon: -122.4194}, TimeZone: "America/Los_Angeles"}, "CA"},
	{dstglide.Location{Name: "Seattle", Coordinates: dstglide.Coordinates{Lat: 47.6062, Lon: -122.3321}, TimeZone: "America/Los_Angeles"}, "WA"},
	{dstglide.Location{Name: "St. Louis", Coordinates: dstglide.Coordinates{Lat: 38.6270, Lon: -90.1994}, TimeZone: "America/Chicago"}, "MO"},
	{dstglide.Location{Name: "Tucson", Coordinates: dstglide.Coordinates{Lat: 32.2226, Lon: -110.9747}, TimeZone: "America/Phoenix"}, "AZ"},
	{dstglide.Location{Name: "Washington", Coordinates: dstglide.Coordinates{Lat: 38.9072, Lon: -77.0369}, TimeZone: "America/New_York"}, "DC"},
}

// Registry is an immutable set of places indexed by normalized name.
type Registry struct {
	places []Place
	index  map[string]int
}

// New returns a registry of the built-in places plus extra. An extra
// location whose name matches a built-in one replaces it.
func New(extra ...dstglide.Location) *Registry {
	r := &Registry{index: make(map[string]int, 2*(len(builtin)+len(extra)))}
	for _, p := range builtin {
		r.add(p)
	}
	for _, loc := range extra {
		r.add(Place{Location: loc})
	}
	return r
}

func (r *Registry) add(p Place) {
	name := normalize(p.Name)
	if i, ok := r.index[name]; ok {
		if p.State == "" {
			p.State = r.places[i].State
		}
		r.places[i] = p
	} else {
		r.places = append(r.places, p)
		i = len(r.places) - 1
		r.index[name] = i
	}
	if p.State != "" {
		r.index[normalize(p.Name+" "+p.State)] = r.index[name]
	}
}

// Lookup resolves a place by name. Matching ignores case, punctuation,
// dashes and an optional trailing state code, so "new york",
// "New York, NY" and "new-york" all resolve to the same entry.
func (r *Registry) Lookup(name string) (dstglide.Location, error) {
	if i, ok := r.index[normalize(name)]; ok {
		return r.places[i].Location, nil
	}
	return dstglide.Location{}, fmt.Errorf("%w: %q", ErrUnknownPlace, name)
}

// All returns every place sorted by name.
func (r *Registry) All() []Place {
	out := append([]Place(nil), r.places...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Slug returns a file- and URL-safe form of a place name:
// "St. Louis" becomes "st-louis".
func Slug(name string) string {
	return strings.Join(strings.Fields(normalize(name)), "-")
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '\'':
			return -1
		default:
			return ' '
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
