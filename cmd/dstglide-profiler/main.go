package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/thurmanmarka/dstglide"
	"github.com/thurmanmarka/dstglide/internal/places"
)

type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	s.sum += v
	s.count++
}

func (s *stats) avg() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) print(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s:\n", title)
	fmt.Fprintf(w, "  count: %d\n", s.count)
	fmt.Fprintf(w, "  min:   %.3f\n", s.min)
	fmt.Fprintf(w, "  max:   %.3f\n", s.max)
	fmt.Fprintf(w, "  avg:   %.3f\n", s.avg())
}

// diffMinutes returns got - ref in minutes, or NaN when either is missing.
func diffMinutes(got, ref time.Time) float64 {
	if got.IsZero() || ref.IsZero() {
		return math.NaN()
	}
	return got.Sub(ref).Minutes()
}

// sample is one day to compare.
type sample struct {
	label string
	date  time.Time
	ref   dstglide.SunEvent
}

type profile struct {
	rise, set             stats
	riseSigned, setSigned stats
	processed, skipped    int
}

func (p *profile) add(got, ref dstglide.SunEvent) (riseErr, setErr float64) {
	riseErr = diffMinutes(got.Sunrise, ref.Sunrise)
	setErr = diffMinutes(got.Sunset, ref.Sunset)
	p.rise.add(math.Abs(riseErr))
	p.set.add(math.Abs(setErr))
	p.riseSigned.add(riseErr)
	p.setSigned.add(setErr)
	p.processed++
	return riseErr, setErr
}

// CSV format:
//
// date,rise,set
// 2025-01-01,07:32,17:12
// 2025-01-02,07:32,17:13
//
// - date is YYYY-MM-DD
// - rise/set are local times in HH:MM (24-hour clock)
// - All times are in the zone of the place.
//
// Without -refcsv the provider is compared against -against for every
// day of -year.
func main() {
	var (
		placeName = flag.String("place", "", "known place name")
		lat       = flag.Float64("lat", 0, "latitude in degrees (north positive)")
		lon       = flag.Float64("lon", 0, "longitude in degrees (east positive, west negative)")
		tzName    = flag.String("tz", "", "IANA time zone name (e.g. America/Phoenix), with -lat/-lon")
		provName  = flag.String("provider", dstglide.ProviderAstro, "provider under test")
		against   = flag.String("against", dstglide.ProviderSunrise, "reference provider when no -refcsv is given")
		year      = flag.Int("year", 0, "year to profile against -against (default: current year)")
		refCSV    = flag.String("refcsv", "", "path to reference ephemeris CSV file (date,rise,set)")
		verbose   = flag.Bool("verbose", false, "print per-day errors instead of only the summary")
		outCSV    = flag.String("outcsv", "", "optional path to write per-row error CSV")
	)
	flag.Parse()
	log.SetFlags(0)

	loc, err := resolve(*placeName, *lat, *lon, *tzName)
	if err != nil {
		log.Fatalf("%v", err)
	}
	tz, err := loc.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	provider, err := dstglide.ProviderByName(*provName)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var samples []sample
	var refDesc string
	if *refCSV != "" {
		f, err := os.Open(*refCSV)
		if err != nil {
			log.Fatalf("failed to open refcsv %q: %v", *refCSV, err)
		}
		samples, err = readReference(f, tz)
		f.Close()
		if err != nil {
			log.Fatalf("%v", err)
		}
		refDesc = *refCSV
	} else {
		ref, err := dstglide.ProviderByName(*against)
		if err != nil {
			log.Fatalf("%v", err)
		}
		y := *year
		if y == 0 {
			y = time.Now().Year()
		}
		samples = providerSamples(ref, loc.Coordinates, tz, y)
		refDesc = fmt.Sprintf("provider %s, %d", strings.ToLower(*against), y)
	}

	var outWriter *csv.Writer
	if *outCSV != "" {
		outFile, err := os.Create(*outCSV)
		if err != nil {
			log.Fatalf("failed to create outcsv %q: %v", *outCSV, err)
		}
		defer outFile.Close()

		outWriter = csv.NewWriter(outFile)
		defer outWriter.Flush()

		if err := outWriter.Write([]string{"date", "rise_signed", "set_signed", "daylight_ref", "daylight_got"}); err != nil {
			log.Fatalf("failed to write outcsv header: %v", err)
		}
	}

	var p profile
	for _, s := range samples {
		got, err := provider.SunEvent(s.date, loc.Coordinates, tz)
		if err != nil {
			log.Printf("%s: %s error: %v, skipping", s.label, *provName, err)
			p.skipped++
			continue
		}

		riseErr, setErr := p.add(got, s.ref)
		if *verbose {
			fmt.Printf("%s: rise err=%+.2f min (got=%s ref=%s), set err=%+.2f min (got=%s ref=%s)\n",
				s.label,
				riseErr, clock(got.Sunrise), clock(s.ref.Sunrise),
				setErr, clock(got.Sunset), clock(s.ref.Sunset))
		}

		if outWriter != nil {
			rec := []string{
				s.label,
				fmt.Sprintf("%.6f", riseErr),
				fmt.Sprintf("%.6f", setErr),
				fmt.Sprintf("%.3f", s.ref.Daylight().Minutes()),
				fmt.Sprintf("%.3f", got.Daylight().Minutes()),
			}
			if err := outWriter.Write(rec); err != nil {
				log.Printf("%s: failed to write outcsv: %v", s.label, err)
			}
		}
	}

	fmt.Println("=== dstglide profiler summary ===")
	fmt.Printf("Provider:  %s\n", strings.ToLower(*provName))
	fmt.Printf("Reference: %s\n", refDesc)
	fmt.Printf("Place:     %s (%.4f / %.4f)\n", loc.Name, loc.Lat, loc.Lon)
	fmt.Printf("TZ:        %s\n", tz.String())
	fmt.Printf("Rows:      %d (processed), %d skipped\n", p.processed, p.skipped)

	if p.rise.count == 0 {
		fmt.Println("No valid rows to compute stats.")
		return
	}

	p.rise.print(os.Stdout, "Rise error (minutes)")
	p.set.print(os.Stdout, "Set error (minutes)")
	p.riseSigned.print(os.Stdout, "Rise signed error (minutes, got - ref)")
	p.setSigned.print(os.Stdout, "Set signed error (minutes, got - ref)")
}

func resolve(name string, lat, lon float64, tz string) (dstglide.Location, error) {
	if tz != "" {
		if lat == 0 && lon == 0 {
			log.Println("warning: lat=0 lon=0 (Gulf of Guinea). Did you mean to set -lat/-lon?")
		}
		return dstglide.Location{Name: "custom", Coordinates: dstglide.Coordinates{Lat: lat, Lon: lon}, TimeZone: tz}, nil
	}
	if name == "" {
		return dstglide.Location{}, fmt.Errorf("missing -place (or -lat/-lon/-tz)")
	}
	return places.New().Lookup(name)
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Format("15:04")
}

// providerSamples evaluates ref on every day of year.
func providerSamples(ref dstglide.SunEventProvider, at dstglide.Coordinates, tz *time.Location, year int) []sample {
	var out []sample
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, tz); d.Year() == year; d = d.AddDate(0, 0, 1) {
		ev, err := ref.SunEvent(d, at, tz)
		if err != nil {
			log.Printf("%s: reference error: %v, skipping", d.Format("2006-01-02"), err)
			continue
		}
		out = append(out, sample{label: d.Format("2006-01-02"), date: d, ref: ev})
	}
	return out
}

// readReference parses the reference CSV. Bad rows are logged and
// skipped; a header row is optional.
func readReference(r io.Reader, tz *time.Location) ([]sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV file")
	}

	start := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "date") {
		start = 1
	}

	var out []sample
	for i := start; i < len(records); i++ {
		row := records[i]
		if len(row) < 3 {
			log.Printf("row %d: expected at least 3 columns (date,rise,set), got %d, skipping", i+1, len(row))
			continue
		}
		dateStr := strings.TrimSpace(row[0])

		date, err := time.ParseInLocation("2006-01-02", dateStr, tz)
		if err != nil {
			log.Printf("row %d: invalid date %q: %v, skipping", i+1, dateStr, err)
			continue
		}
		rise, err := parseLocalTime(date, strings.TrimSpace(row[1]), tz)
		if err != nil {
			log.Printf("row %d: invalid rise time %q: %v, skipping", i+1, row[1], err)
			continue
		}
		set, err := parseLocalTime(date, strings.TrimSpace(row[2]), tz)
		if err != nil {
			log.Printf("row %d: invalid set time %q: %v, skipping", i+1, row[2], err)
			continue
		}
		out = append(out, sample{label: dateStr, date: date, ref: dstglide.SunEvent{Sunrise: rise, Sunset: set}})
	}
	return out, nil
}

// parseLocalTime parses "HH:MM" or "HH:MM:SS" on date's calendar day in
// tz. An empty field or "--:--" means no event.
func parseLocalTime(date time.Time, s string, tz *time.Location) (time.Time, error) {
	if s == "" || s == "--:--" {
		return time.Time{}, nil
	}
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.ParseInLocation(layout, s, tz)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, tz), nil
}
