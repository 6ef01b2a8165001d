package sun

import (
	"math"
	"time"

	"github.com/thurmanmarka/dstglide/internal/timeutil"
)

// Equatorial holds right ascension and declination in degrees.
type Equatorial struct {
	RA  float64 // [0, 360)
	Dec float64
}

// Position returns the Sun's approximate geocentric RA/Dec at t.
//
// It is a low-precision NOAA / Meeus style model, good to about an
// arcminute in RA/Dec over a few centuries either side of J2000:
//
//	g   = mean anomaly of the Sun
//	q   = mean longitude of the Sun
//	L   = ecliptic longitude (q plus the equation of center)
//	eps = obliquity of the ecliptic
//
// The ecliptic latitude of the Sun is taken as zero.
func Position(t time.Time) Equatorial {
	d := timeutil.DaysSinceJ2000(t)

	// Mean anomaly (deg)
	g := timeutil.Deg2Rad(357.529 + 0.98560028*d)

	// Mean longitude (deg)
	q := timeutil.Deg2Rad(280.459 + 0.98564736*d)

	// Ecliptic longitude: first two terms of the equation of center.
	L := q +
		timeutil.Deg2Rad(1.915)*math.Sin(g) +
		timeutil.Deg2Rad(0.020)*math.Sin(2*g)

	// Obliquity, drifting slowly from its J2000 value.
	eps := timeutil.Deg2Rad(23.439 - 0.00000036*d)

	// Rotate the ecliptic unit vector about the x axis by eps.
	x := math.Cos(L)
	y := math.Cos(eps) * math.Sin(L)
	z := math.Sin(eps) * math.Sin(L)

	ra := math.Atan2(y, x)
	if ra < 0 {
		ra += 2 * math.Pi
	}

	return Equatorial{
		RA:  timeutil.Rad2Deg(ra),
		Dec: timeutil.Rad2Deg(math.Asin(z)),
	}
}

// Altitude is the Sun's geometric altitude in degrees seen from (lat, lon)
// at t. Refraction is folded into HorizonAltitude instead.
func Altitude(lat, lon float64, t time.Time) float64 {
	eq := Position(t)

	dec := timeutil.Deg2Rad(eq.Dec)
	phi := timeutil.Deg2Rad(lat)

	// Greenwich mean sidereal time (deg), then local sidereal time.
	gmst := 280.46061837 + 360.98564736629*timeutil.DaysSinceJ2000(t)
	lst := timeutil.Normalize360(gmst + lon)

	// Hour angle in [-180, 180).
	h := timeutil.Normalize360(lst-eq.RA+180) - 180

	// sin(alt) = sin(phi)sin(dec) + cos(phi)cos(dec)cos(H)
	sinAlt := math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(timeutil.Deg2Rad(h))
	return timeutil.Rad2Deg(math.Asin(sinAlt))
}
