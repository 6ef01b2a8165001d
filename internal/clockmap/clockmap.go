// Package clockmap relates the local and absolute minute grids: the fixed
// UTC offset sampled at the start of the window, the per-minute relabeling
// used by the standard-shift scenario, and the mapping from absolute days
// to local-grid index ranges.
package clockmap

import (
	"sort"
	"time"

	"github.com/thurmanmarka/dstglide/internal/timegrid"
	"github.com/thurmanmarka/dstglide/internal/timeutil"
)

// Offset is the UTC offset of the first local grid entry, in minutes.
// It is treated as constant for the whole window, so it is off by the
// seasonal shift on shifted days; NewReport lists those days.
func Offset(g *timegrid.Grids) int {
	if len(g.Local) == 0 {
		return 0
	}
	_, sec := g.Local[0].Zone()
	return sec / 60
}

// Transform returns, for every grid index i,
//
//	(2*minuteOfDay(Absolute[i]) - minuteOfDay(Local[i])) mod 1440
//
// Sorting a day's indices by this key moves each minute to the column of
// the wall-clock label it carries under the seasonal shift.
func Transform(g *timegrid.Grids) []int {
	out := make([]int, g.Len())
	for i := range out {
		abs := timeutil.MinuteOfDay(g.Absolute[i])
		local := timeutil.MinuteOfDay(g.Local[i])
		out[i] = timeutil.Mod(2*abs-local, timeutil.MinutesPerDay)
	}
	return out
}

// Mapper precomputes Offset and Transform once per run.
type Mapper struct {
	grids     *timegrid.Grids
	offset    int
	transform []int
}

// New builds a Mapper over g.
func New(g *timegrid.Grids) *Mapper {
	return &Mapper{
		grids:     g,
		offset:    Offset(g),
		transform: Transform(g),
	}
}

// Offset returns the sampled UTC offset in minutes.
func (m *Mapper) Offset() int {
	return m.offset
}

// Bounds maps the absolute day starting at the UTC midnight day to a
// half-open range of local grid indices: the nearest local entries to day
// and day+24h, shifted by the offset and clamped to the grid.
func (m *Mapper) Bounds(day time.Time) (start, end int) {
	t := timeutil.UnixSeconds(day)
	start = m.clamp(timeutil.NearestIndex(m.grids.LocalUnix, t) - m.offset)
	end = m.clamp(timeutil.NearestIndex(m.grids.LocalUnix, t+86400) - m.offset)
	if end < start {
		end = start
	}
	return start, end
}

// Permutation returns the indices start..end-1 stably sorted by Transform.
func (m *Mapper) Permutation(start, end int) []int {
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return m.transform[idx[a]] < m.transform[idx[b]]
	})
	return idx
}

func (m *Mapper) clamp(i int) int {
	switch {
	case i < 0:
		return 0
	case i > m.grids.Len():
		return m.grids.Len()
	}
	return i
}
