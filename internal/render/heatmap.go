// Package render turns a daylight matrix into an HTML heat-map page and a
// terminal summary.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/thurmanmarka/dstglide"
)

// ChartOptions controls HeatmapPage.
type ChartOptions struct {
	BucketMinutes int
	NightColor    string
	DayColor      string
	MonthLines    bool
}

// DefaultChartOptions matches the classic royalblue/orange plot.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		BucketMinutes: 10,
		NightColor:    "royalblue",
		DayColor:      "orange",
		MonthLines:    true,
	}
}

func (o ChartOptions) withDefaults() ChartOptions {
	d := DefaultChartOptions()
	if o.BucketMinutes == 0 {
		o.BucketMinutes = d.BucketMinutes
	}
	if o.NightColor == "" {
		o.NightColor = d.NightColor
	}
	if o.DayColor == "" {
		o.DayColor = d.DayColor
	}
	return o
}

// HeatmapPage builds one heat-map per scenario, side by side. Rows are
// days (January at the top), columns are clock time.
func HeatmapPage(m *dstglide.Matrix, o ChartOptions) (*components.Page, error) {
	o = o.withDefaults()

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("%s %d", m.Location.Name, m.Year)
	page.SetLayout(components.PageFlexLayout)

	for _, s := range dstglide.Scenarios() {
		hm, err := heatmap(m, s, o)
		if err != nil {
			return nil, err
		}
		page.AddCharts(hm)
	}
	return page, nil
}

// WriteHTML renders HeatmapPage to w.
func WriteHTML(w io.Writer, m *dstglide.Matrix, o ChartOptions) error {
	page, err := HeatmapPage(m, o)
	if err != nil {
		return err
	}
	return page.Render(w)
}

func heatmap(m *dstglide.Matrix, s dstglide.Scenario, o ChartOptions) (*charts.HeatMap, error) {
	grid, err := Downsample(m, s, o.BucketMinutes)
	if err != nil {
		return nil, err
	}
	days := len(grid)
	cols := dstglide.MinutesPerDay / o.BucketMinutes

	xLabels := make([]string, cols)
	for c := range xLabels {
		xLabels[c] = Clock(c * o.BucketMinutes)
	}

	// Category axes grow upwards, so the first day goes last.
	yLabels := make([]string, days)
	for d := 0; d < days; d++ {
		yLabels[days-1-d] = DayLabel(m.Year, d)
	}

	data := make([]opts.HeatMapData, 0, days*cols)
	for d, row := range grid {
		for c, v := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, days - 1 - d, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "560px",
			Height: "900px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    s.String(),
			Subtitle: m.Location.Name,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			Data: xLabels,
			AxisLabel: &opts.AxisLabel{
				Show:     opts.Bool(true),
				Interval: fmt.Sprint(4*60/o.BucketMinutes - 1),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: yLabels,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(false),
			Min:        0,
			Max:        1,
			InRange: &opts.VisualMapInRange{
				Color: []string{o.NightColor, o.DayColor},
			},
		}),
	)

	series := []charts.SeriesOpts{
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			LineStyle: &opts.LineStyle{Color: "black", Type: "dashed", Width: 2},
		}),
	}
	for _, minute := range []int{MorningMinute, EveningMinute} {
		if minute%o.BucketMinutes == 0 {
			series = append(series, charts.WithMarkLineNameXAxisItemOpts(opts.MarkLineNameXAxisItem{
				Name:  Clock(minute),
				XAxis: Clock(minute),
			}))
		}
	}
	if o.MonthLines {
		for i, start := range MonthStarts(m.Year) {
			if start >= days {
				continue
			}
			series = append(series, charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
				Name:  time.Month(i + 1).String(),
				YAxis: yLabels[days-1-start],
			}))
		}
	}

	hm.SetXAxis(xLabels).AddSeries(s.String(), data, series...)
	return hm, nil
}
