package timeutil

import (
	"sort"
	"time"
)

// MinutesPerDay is the width of one day-of-year row.
const MinutesPerDay = 1440

// UnixSeconds returns t as fractional seconds since 1970-01-01T00:00:00Z.
// The zone attached to t does not matter; only the instant does.
func UnixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// UnixSecondsAll converts every instant in ts. Ascending input gives
// ascending output.
func UnixSecondsAll(ts []time.Time) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		out[i] = UnixSeconds(t)
	}
	return out
}

// NearestIndex returns the index of the element of the ascending slice xs
// closest to target. Ties go to the lower index. It returns -1 for an
// empty slice.
func NearestIndex(xs []float64, target float64) int {
	if len(xs) == 0 {
		return -1
	}

	// First element >= target.
	i := sort.SearchFloat64s(xs, target)
	switch {
	case i == 0:
		return 0
	case i == len(xs):
		return len(xs) - 1
	}
	if target-xs[i-1] <= xs[i]-target {
		return i - 1
	}
	return i
}

// MinuteOfDay returns the wall-clock minute of t in its own location,
// in [0, 1440).
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Mod returns a mod m with the sign of m, unlike Go's % operator.
func Mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
