package clockmap

import (
	"time"

	"github.com/thurmanmarka/dstglide/internal/timegrid"
)

// DayOffset is the zone offset observed at local midnight of one day.
type DayOffset struct {
	Date   time.Time
	Offset int // minutes east of UTC
}

// Report compares the sampled scalar offset with the offset actually in
// force on each day of the window.
type Report struct {
	Sampled int
	Days    []DayOffset
	// Deviations are the days whose offset differs from Sampled.
	Deviations []DayOffset
}

// Shifts reports whether any day deviates from the sampled offset.
func (r Report) Shifts() bool {
	return len(r.Deviations) > 0
}

// NewReport samples the offset at local midnight of every day in g.Days.
func NewReport(g *timegrid.Grids) Report {
	r := Report{Sampled: Offset(g)}
	for _, d := range g.Days {
		y, mo, dd := d.Date()
		_, sec := time.Date(y, mo, dd, 0, 0, 0, 0, g.Location).Zone()
		do := DayOffset{Date: d, Offset: sec / 60}
		r.Days = append(r.Days, do)
		if do.Offset != r.Sampled {
			r.Deviations = append(r.Deviations, do)
		}
	}
	return r
}
