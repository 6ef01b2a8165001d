// Package solver finds the instants where a smooth altitude curve crosses
// a target value.
package solver

import (
	"time"
)

// AltitudeFunc returns altitude in degrees at time t.
type AltitudeFunc func(t time.Time) float64

// Direction selects rising or setting crossings.
type Direction int

const (
	// Up means altitude increases through the target (rise).
	Up Direction = iota
	// Down means altitude decreases through the target (set).
	Down
)

// Crossing is the result of a search. OK is false when the curve never
// crosses the target in the requested direction.
type Crossing struct {
	Time time.Time
	OK   bool
}

// Search samples f at steps evenly spaced points over [start, end], takes
// the first bracket where f crosses targetDeg in direction dir, and bisects
// it down to tol.
func Search(f AltitudeFunc, start, end time.Time, targetDeg float64, dir Direction, steps int, tol time.Duration) Crossing {
	if !start.Before(end) {
		return Crossing{}
	}
	if steps < 2 {
		steps = 2
	}

	interval := end.Sub(start) / time.Duration(steps-1)

	prevT := start
	prevAlt := f(prevT) - targetDeg
	for i := 1; i < steps; i++ {
		t := start.Add(time.Duration(i) * interval)
		alt := f(t) - targetDeg

		if crosses(prevAlt, alt, dir) {
			return bisect(f, prevT, t, prevAlt, targetDeg, dir, tol)
		}
		prevT, prevAlt = t, alt
	}

	return Crossing{}
}

func crosses(a1, a2 float64, dir Direction) bool {
	if dir == Up {
		return a1 < 0 && a2 >= 0
	}
	return a1 > 0 && a2 <= 0
}

// bisect narrows a bracket [a, b] known to contain a crossing; altA is
// f(a) - targetDeg.
func bisect(f AltitudeFunc, a, b time.Time, altA, targetDeg float64, dir Direction, tol time.Duration) Crossing {
	for b.Sub(a) > tol {
		mid := a.Add(b.Sub(a) / 2)
		altM := f(mid) - targetDeg

		if crosses(altA, altM, dir) {
			b = mid
		} else {
			a, altA = mid, altM
		}
	}

	return Crossing{Time: a.Add(b.Sub(a) / 2), OK: true}
}
