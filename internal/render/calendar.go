package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/thurmanmarka/dstglide"
)

// Reference clock times drawn on every chart.
const (
	MorningMinute = 8 * 60
	EveningMinute = 20 * 60
)

// ErrBucket is returned for a bucket width that does not divide a day.
var ErrBucket = errors.New("bucket width must divide 1440 minutes")

// MonthStarts returns the 0-based day of year of the first of each month.
func MonthStarts(year int) [12]int {
	var out [12]int
	for i := range out {
		out[i] = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).YearDay() - 1
	}
	return out
}

// DayLabel names row day of year as "Jan 2".
func DayLabel(year, day int) string {
	return time.Date(year, time.January, 1+day, 0, 0, 0, 0, time.UTC).Format("Jan 2")
}

// Clock formats a minute of the day on a 12-hour clock: 0 is "12AM",
// 405 is "6:45AM", 1200 is "8PM".
func Clock(minute int) string {
	minute = ((minute % dstglide.MinutesPerDay) + dstglide.MinutesPerDay) % dstglide.MinutesPerDay
	h, mm := minute/60, minute%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	if h %= 12; h == 0 {
		h = 12
	}
	if mm == 0 {
		return fmt.Sprintf("%d%s", h, suffix)
	}
	return fmt.Sprintf("%d:%02d%s", h, mm, suffix)
}

// Downsample averages each row of scenario s into buckets of the given
// width. Every value is the daylight fraction of its bucket.
func Downsample(m *dstglide.Matrix, s dstglide.Scenario, bucket int) ([][]float64, error) {
	if bucket <= 0 || dstglide.MinutesPerDay%bucket != 0 {
		return nil, fmt.Errorf("%w: %d", ErrBucket, bucket)
	}
	cols := dstglide.MinutesPerDay / bucket

	out := make([][]float64, m.Days())
	for d := range out {
		row := m.Row(s, d)
		out[d] = make([]float64, cols)
		for c := range out[d] {
			n := 0
			for _, v := range row[c*bucket : (c+1)*bucket] {
				n += int(v)
			}
			out[d][c] = float64(n) / float64(bucket)
		}
	}
	return out, nil
}
