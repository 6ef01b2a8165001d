package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/thurmanmarka/dstglide"
	"github.com/thurmanmarka/dstglide/internal/config"
	"github.com/thurmanmarka/dstglide/internal/places"
	"github.com/thurmanmarka/dstglide/internal/render"
	"github.com/thurmanmarka/dstglide/internal/store"
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	default:
		fmt.Fprintf(os.Stderr, "dstglide: %v\n", err)
		os.Exit(1)
	}
}

// run dispatches on the first argument. Anything that is not a known
// subcommand is the place of the default (matrix) mode.
func run(args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "sun":
			return runSun(args[1:], stdout, stderr)
		case "places":
			return runPlaces(args[1:], stdout, stderr)
		case "help":
			usage(stderr)
			return nil
		}
	}
	return runMatrix(args, stdout, stderr)
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `dstglide – daylight under three clock policies

Usage:
  dstglide [flags] <place> [year]   # heat-map page + summary (default mode)
  dstglide sun [flags]              # sunrise/sunset for one day
  dstglide places [flags]           # list known places

Default mode writes <out>/<place>.html and prints a per-month summary of
the "Standard DST", "No DST" and "Permanent DST" scenarios. The year
defaults to the current year.

Run "dstglide -h" or "dstglide sun -h" for flags.
`)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// locationFlags are shared by the modes that need a place.
type locationFlags struct {
	lat, lon float64
	tz       string
}

func (f *locationFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&f.lat, "lat", 0, "latitude in degrees (north positive), for a place not in the table")
	fs.Float64Var(&f.lon, "lon", 0, "longitude in degrees (east positive, west negative)")
	fs.StringVar(&f.tz, "tz", "", "IANA time zone name (e.g. America/Phoenix); required with -lat/-lon")
}

// resolve returns the named place, or an ad-hoc one when -tz is given.
func (f *locationFlags) resolve(reg *places.Registry, name string) (dstglide.Location, error) {
	if f.tz != "" {
		if name == "" {
			name = fmt.Sprintf("%.4f,%.4f", f.lat, f.lon)
		}
		loc := dstglide.Location{
			Name:        name,
			Coordinates: dstglide.Coordinates{Lat: f.lat, Lon: f.lon},
			TimeZone:    f.tz,
		}
		if _, err := loc.Load(); err != nil {
			return dstglide.Location{}, err
		}
		return loc, nil
	}
	if name == "" {
		return dstglide.Location{}, errors.New("missing place (or -lat/-lon/-tz)")
	}
	return reg.Lookup(name)
}

// ---------------------
// Matrix (default) mode
// ---------------------

func runMatrix(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("dstglide", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var lf locationFlags
	lf.register(fs)
	configPath := fs.String("config", "", "path to a YAML config file (created with defaults if missing)")
	outDir := fs.String("out", "", "output directory for the heat-map page (default from config, \"figures\")")
	providerName := fs.String("provider", "", "sunrise/sunset source: "+strings.Join(dstglide.ProviderNames(), " or "))
	bucket := fs.Int("bucket", 0, "heat-map column width in minutes; must divide 1440 (default from config, 10)")
	noHTML := fs.Bool("no-html", false, "skip writing the heat-map page")
	refresh := fs.Bool("refresh", false, "recompute even if redis holds the matrix")
	jsonOut := fs.Bool("json", false, "print the summary as JSON")
	verbose := fs.Bool("verbose", false, "enable debug logging")

	fs.Usage = func() {
		usage(stderr)
		fmt.Fprintf(stderr, "\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	logger := newLogger(stderr, *verbose)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *outDir != "" {
		cfg.Output = *outDir
	}
	if *providerName != "" {
		cfg.Provider = *providerName
	}
	if *bucket != 0 {
		cfg.Chart.BucketMinutes = *bucket
	}

	name := cfg.Place
	if fs.NArg() > 0 {
		name = fs.Arg(0)
	}
	year := cfg.Year
	if fs.NArg() > 1 {
		if year, err = strconv.Atoi(fs.Arg(1)); err != nil {
			return fmt.Errorf("invalid year %q: %w", fs.Arg(1), err)
		}
	}
	if year == 0 {
		year = time.Now().Year()
	}
	if fs.NArg() > 2 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args()[2:], " "))
	}

	loc, err := lf.resolve(places.New(cfg.Places...), name)
	if err != nil {
		return err
	}
	provider, err := dstglide.ProviderByName(cfg.Provider)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var st *store.Store
	if cfg.Redis.Enabled() {
		client, err := store.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, computing without it", "error", err)
		} else {
			defer client.Close()
			st = store.New(client, cfg.Redis.Prefix,
				store.WithTTL(cfg.Redis.TTL),
				store.WithLogger(logger))
		}
	}

	m, err := matrixFor(ctx, st, *refresh, loc, year, cfg.Provider, provider, logger)
	if err != nil {
		return err
	}

	if !*noHTML {
		path, err := writePage(cfg, m)
		if err != nil {
			return err
		}
		logger.Info("heat-map written", "path", path)
		fmt.Fprintf(stderr, "wrote %s\n", path)
	}

	if *jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(render.Summarize(m, false))
	}
	return render.Summary(stdout, m)
}

// matrixFor loads the matrix from st when possible, otherwise computes
// and saves it. With refresh the stored entry is dropped first.
func matrixFor(ctx context.Context, st *store.Store, refresh bool, loc dstglide.Location, year int, providerName string,
	provider dstglide.SunEventProvider, logger *slog.Logger,
) (*dstglide.Matrix, error) {
	if st != nil && refresh {
		if err := st.Delete(ctx, loc, year, providerName); err != nil {
			logger.Warn("redis delete failed", "error", err)
		}
	} else if st != nil {
		m, err := st.Load(ctx, loc, year, providerName)
		if err == nil {
			logger.Debug("matrix loaded from redis", "place", loc.Name, "year", year)
			return m, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			logger.Warn("redis lookup failed", "error", err)
		}
	}

	m, err := dstglide.Compute(loc, year, dstglide.WithProvider(provider), dstglide.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if st != nil {
		if err := st.Save(ctx, m, providerName); err != nil {
			logger.Warn("redis save failed", "error", err)
		}
	}
	return m, nil
}

func writePage(cfg *config.Config, m *dstglide.Matrix) (string, error) {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(cfg.Output, places.Slug(m.Location.Name)+".html")

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	opts := render.ChartOptions{
		BucketMinutes: cfg.Chart.BucketMinutes,
		NightColor:    cfg.Chart.NightColor,
		DayColor:      cfg.Chart.DayColor,
		MonthLines:    cfg.Chart.MonthLines,
	}
	if err := render.WriteHTML(f, m, opts); err != nil {
		return "", fmt.Errorf("rendering %s: %w", path, err)
	}
	return path, f.Close()
}

// ---------------------
// Sun subcommand
// ---------------------

func runSun(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("sun", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var lf locationFlags
	lf.register(fs)
	place := fs.String("place", "", "known place name (see \"dstglide places\")")
	dateS := fs.String("date", "", "date in YYYY-MM-DD (optional, defaults to today in the place's zone)")
	event := fs.String("event", "both", "event: rise, set, or both")
	providerName := fs.String("provider", "", "sunrise/sunset source: "+strings.Join(dstglide.ProviderNames(), " or ")+" (default from config, astro)")
	configPath := fs.String("config", "", "path to a YAML config file with extra places")
	jsonOut := fs.Bool("json", false, "output result as JSON")

	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage: dstglide sun [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *providerName == "" {
		*providerName = cfg.Provider
	}

	loc, err := lf.resolve(places.New(cfg.Places...), *place)
	if err != nil {
		return err
	}
	tz, err := loc.Load()
	if err != nil {
		return err
	}

	var date time.Time
	if *dateS == "" {
		now := time.Now().In(tz)
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tz)
	} else if date, err = time.ParseInLocation("2006-01-02", *dateS, tz); err != nil {
		return fmt.Errorf("invalid -date %q: %w", *dateS, err)
	}

	provider, err := dstglide.ProviderByName(*providerName)
	if err != nil {
		return err
	}
	ev, err := provider.SunEvent(date, loc.Coordinates, tz)
	if err != nil && !errors.Is(err, dstglide.ErrNoRiseNoSet) {
		return fmt.Errorf("computing sunrise/sunset: %w", err)
	}

	if *jsonOut {
		return printJSON(stdout, loc, date, *event, ev)
	}
	printHuman(stdout, stderr, loc, date, *event, ev)
	return nil
}

func formatEvent(t time.Time) string {
	if t.IsZero() {
		return "none"
	}
	return t.Format(time.RFC3339)
}

func printHuman(stdout, stderr io.Writer, loc dstglide.Location, date time.Time, event string, ev dstglide.SunEvent) {
	fmt.Fprintf(stdout, "Sun rise/set for %s (lat=%.6f lon=%.6f)\n", loc.Name, loc.Lat, loc.Lon)
	fmt.Fprintf(stdout, "Date: %s (%s)\n\n", date.Format("2006-01-02"), date.Location())

	switch strings.ToLower(event) {
	case "rise":
		fmt.Fprintf(stdout, "Rise: %s\n", formatEvent(ev.Sunrise))
	case "set":
		fmt.Fprintf(stdout, "Set:  %s\n", formatEvent(ev.Sunset))
	default:
		if e := strings.ToLower(event); e != "both" {
			fmt.Fprintf(stderr, "unknown event %q, showing both\n", event)
		}
		fmt.Fprintf(stdout, "Rise: %s\n", formatEvent(ev.Sunrise))
		fmt.Fprintf(stdout, "Set:  %s\n", formatEvent(ev.Sunset))
		if d := ev.Daylight(); d > 0 {
			fmt.Fprintf(stdout, "Daylight: %s\n", d.Round(time.Minute))
		}
	}
}

type jsonOutput struct {
	Place     string     `json:"place"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Rise      *time.Time `json:"rise,omitempty"`
	Set       *time.Time `json:"set,omitempty"`
	Timezone  string     `json:"timezone"`
	Daylight  float64    `json:"daylight_minutes"`
}

func printJSON(w io.Writer, loc dstglide.Location, date time.Time, event string, ev dstglide.SunEvent) error {
	out := jsonOutput{
		Place:     loc.Name,
		Latitude:  loc.Lat,
		Longitude: loc.Lon,
		Date:      date.Format("2006-01-02"),
		Timezone:  date.Location().String(),
		Daylight:  ev.Daylight().Minutes(),
	}

	e := strings.ToLower(event)
	if e != "set" && !ev.Sunrise.IsZero() {
		out.Rise = &ev.Sunrise
	}
	if e != "rise" && !ev.Sunset.IsZero() {
		out.Set = &ev.Sunset
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ---------------------
// Places subcommand
// ---------------------

func runPlaces(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("places", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML config file with extra places")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSTATE\tLAT\tLON\tTIME ZONE")
	for _, p := range places.New(cfg.Places...).All() {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%s\n", p.Name, p.State, p.Lat, p.Lon, p.TimeZone)
	}
	return tw.Flush()
}
