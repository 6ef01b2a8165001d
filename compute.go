package dstglide

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/thurmanmarka/dstglide/internal/clockmap"
	"github.com/thurmanmarka/dstglide/internal/timegrid"
	"github.com/thurmanmarka/dstglide/internal/timeutil"
)

type options struct {
	provider SunEventProvider
	logger   *slog.Logger
}

// Option configures Compute.
type Option func(*options)

// WithProvider sets the sunrise/sunset source. The default is
// AstroProvider.
func WithProvider(p SunEventProvider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithLogger sets the logger used for progress and diagnostics. Nothing
// is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Compute builds the daylight Matrix for loc and year.
//
// Every calendar day from December 30 of the previous year to January 2
// of the next is evaluated, so the first and last rows are complete.
// Leap years are truncated to 365 rows. A day without sunrise or sunset
// (ErrNoRiseNoSet or a degenerate SunEvent) is left dark; any other
// provider error aborts the run with ErrProvider.
func Compute(loc Location, year int, opts ...Option) (*Matrix, error) {
	o := options{
		provider: AstroProvider{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	tz, err := loc.Load()
	if err != nil {
		return nil, err
	}

	grids, err := timegrid.Build(year, tz)
	if err != nil {
		return nil, fmt.Errorf("building grids for %q: %w", loc.Name, err)
	}

	logger := o.logger.With("place", loc.Name, "year", year)
	a := newAssembler(grids, clockmap.New(grids))
	logger.Debug("assembling daylight matrix",
		"minutes", grids.Len(), "days", len(grids.Days), "offset", a.mapper.Offset())

	if report := clockmap.NewReport(grids); report.Shifts() {
		first, last := report.Deviations[0], report.Deviations[len(report.Deviations)-1]
		logger.Debug("zone shifts during the year; standard offset held fixed",
			"sampled", report.Sampled,
			"shifted_days", len(report.Deviations),
			"first", first.Date.Format("2006-01-02"),
			"last", last.Date.Format("2006-01-02"))
	}

	for _, day := range grids.Days {
		ev, err := o.provider.SunEvent(day, loc.Coordinates, tz)
		if errors.Is(err, ErrNoRiseNoSet) || (err == nil && ev.Degenerate()) {
			a.dark++
			logger.Debug("no sunrise or sunset", "date", day.Format("2006-01-02"))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s on %s: %w", ErrProvider, loc.Name, day.Format("2006-01-02"), err)
		}
		a.addDay(day, ev)
	}

	m, err := a.matrix(loc, year)
	if err != nil {
		return nil, err
	}

	logger.Debug("daylight matrix ready",
		"dark_days", a.dark,
		"standard", m.TotalDaylight(StandardShift),
		"never", m.TotalDaylight(NeverShift),
		"permanent", m.TotalDaylight(PermanentShift))
	return m, nil
}

// assembler owns the two flat accumulation buffers for one run.
// Scenario 2 has no buffer of its own: it is sliced out of the
// never-shift buffer.
type assembler struct {
	grids  *timegrid.Grids
	mapper *clockmap.Mapper

	standard []uint8 // indexed like grids.Local
	never    []uint8 // indexed like grids.Absolute
	dark     int
}

func newAssembler(g *timegrid.Grids, m *clockmap.Mapper) *assembler {
	return &assembler{
		grids:    g,
		mapper:   m,
		standard: make([]uint8, g.Len()),
		never:    make([]uint8, g.Len()),
	}
}

// addDay marks the minutes strictly between sunrise and sunset.
func (a *assembler) addDay(day time.Time, ev SunEvent) {
	rise := timeutil.UnixSeconds(ev.Sunrise)
	set := timeutil.UnixSeconds(ev.Sunset)

	// Standard shift: the day's local block, written in the order of the
	// clock labels the seasonal shift gives each minute.
	start, end := a.mapper.Bounds(day)
	var perm []int
	for j := start; j < end; j++ {
		if t := a.grids.LocalUnix[j]; t > rise && t < set {
			if perm == nil {
				perm = a.mapper.Permutation(start, end)
			}
			a.standard[perm[j-start]] = 1
		}
	}

	// Never shift: plain interval membership on the absolute grid.
	xs := a.grids.AbsoluteUnix
	lo := sort.Search(len(xs), func(i int) bool { return xs[i] > rise })
	hi := sort.Search(len(xs), func(i int) bool { return xs[i] >= set })
	for i := lo; i < hi; i++ {
		a.never[i] = 1
	}
}

// matrix trims the padded buffers to the target year.
func (a *assembler) matrix(loc Location, year int) (*Matrix, error) {
	var layers [NumScenarios][]uint8
	var err error

	if layers[StandardShift], err = trim(StandardShift, a.standard, a.grids.LocalYearStart); err != nil {
		return nil, err
	}
	if layers[NeverShift], err = trim(NeverShift, a.never, a.grids.AbsoluteYearStart); err != nil {
		return nil, err
	}
	// Living an hour east: the never-shift timeline read an hour early.
	if layers[PermanentShift], err = trim(PermanentShift, a.never, a.grids.AbsoluteYearStart-SeasonalShiftMinutes); err != nil {
		return nil, err
	}

	m := &Matrix{Year: year, Location: loc, Offset: a.mapper.Offset(), layers: layers}
	return m, nil
}

func trim(s Scenario, buf []uint8, start int) ([]uint8, error) {
	end := start + cellsPerLayer
	if start < 0 || end > len(buf) {
		return nil, fmt.Errorf("%w: %s needs minutes [%d, %d) of a %d-minute window",
			ErrAlignment, s, start, end, len(buf))
	}
	return append([]uint8(nil), buf[start:end]...), nil
}
