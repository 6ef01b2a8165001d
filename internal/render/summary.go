package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/thurmanmarka/dstglide"
)

// MonthStats averages one scenario over the days of a month.
type MonthStats struct {
	Month string `json:"month"`
	Days  int    `json:"days"`
	// Sunrise and Sunset are average clock minutes over days with
	// daylight, or -1 when the month had none.
	Sunrise  float64 `json:"sunrise"`
	Sunset   float64 `json:"sunset"`
	Daylight float64 `json:"daylight"`
}

// ScenarioStats summarizes one layer of a matrix.
type ScenarioStats struct {
	Scenario string `json:"scenario"`
	// TotalMinutes is the number of daylight cells in the year.
	TotalMinutes int `json:"total_minutes"`
	// DarkMornings counts days still dark at 8AM.
	DarkMornings int `json:"dark_mornings"`
	// LightEvenings counts days still light at 8PM.
	LightEvenings int          `json:"light_evenings"`
	Months        []MonthStats `json:"months"`
	PerDay        []int        `json:"per_day,omitempty"`
}

// Overview is the whole-year summary of a matrix.
type Overview struct {
	Place     string          `json:"place"`
	Year      int             `json:"year"`
	Offset    int             `json:"offset"`
	Scenarios []ScenarioStats `json:"scenarios"`
}

// Summarize computes per-scenario and per-month statistics. perDay adds
// the daylight minute count of every row.
func Summarize(m *dstglide.Matrix, perDay bool) Overview {
	out := Overview{Place: m.Location.Name, Year: m.Year, Offset: m.Offset}
	starts := MonthStarts(m.Year)

	for _, s := range dstglide.Scenarios() {
		st := ScenarioStats{Scenario: s.String(), TotalMinutes: m.TotalDaylight(s)}
		if perDay {
			st.PerDay = make([]int, m.Days())
		}

		for i, start := range starts {
			end := m.Days()
			if i+1 < len(starts) {
				end = min(starts[i+1], end)
			}

			ms := MonthStats{Month: time.Month(i + 1).String(), Sunrise: -1, Sunset: -1}
			var rise, set, lit float64
			sunny := 0
			for d := start; d < end; d++ {
				n := m.DaylightMinutes(s, d)
				if perDay {
					st.PerDay[d] = n
				}
				if m.At(s, d, MorningMinute) == 0 {
					st.DarkMornings++
				}
				if m.At(s, d, EveningMinute) == 1 {
					st.LightEvenings++
				}
				ms.Days++
				lit += float64(n)

				if first, last, ok := m.Sunlit(s, d); ok {
					rise += float64(first)
					set += float64(last + 1)
					sunny++
				}
			}
			if ms.Days > 0 {
				ms.Daylight = lit / float64(ms.Days)
			}
			if sunny > 0 {
				ms.Sunrise = rise / float64(sunny)
				ms.Sunset = set / float64(sunny)
			}
			st.Months = append(st.Months, ms)
		}
		out.Scenarios = append(out.Scenarios, st)
	}
	return out
}

// Summary writes a colored per-month table for every scenario.
func Summary(w io.Writer, m *dstglide.Matrix) error {
	return WriteOverview(w, Summarize(m, false))
}

// WriteOverview prints ov as a table. Colors honor color.NoColor.
func WriteOverview(w io.Writer, ov Overview) error {
	header := color.New(color.Bold)
	dark := color.New(color.FgBlue)
	light := color.New(color.FgYellow)

	var b strings.Builder
	header.Fprintf(&b, "%s %d (standard offset UTC%s)\n", ov.Place, ov.Year, offsetLabel(ov.Offset))
	b.WriteString(strings.Repeat("─", 50) + "\n")

	for _, st := range ov.Scenarios {
		header.Fprintf(&b, "\n%s\n", st.Scenario)
		fmt.Fprintf(&b, "  %-10s %8s %8s %9s\n", "Month", "Sunrise", "Sunset", "Daylight")
		for _, ms := range st.Months {
			rise, set := "-", "-"
			if ms.Sunrise >= 0 {
				rise, set = Clock(int(math.Round(ms.Sunrise))), Clock(int(math.Round(ms.Sunset)))
			}
			fmt.Fprintf(&b, "  %-10s %8s %8s %9s\n", ms.Month, rise, set, hoursLabel(ms.Daylight))
		}
		fmt.Fprintf(&b, "  Dark at %s: %s   Light at %s: %s\n",
			Clock(MorningMinute), dark.Sprintf("%d days", st.DarkMornings),
			Clock(EveningMinute), light.Sprintf("%d days", st.LightEvenings))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func hoursLabel(minutes float64) string {
	total := int(math.Round(minutes))
	return fmt.Sprintf("%dh%02dm", total/60, total%60)
}

func offsetLabel(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign, minutes = "-", -minutes
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%s%d", sign, minutes/60)
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}
