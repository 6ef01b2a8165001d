package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/thurmanmarka/dstglide"
)

// Defaults applied by Normalize.
const (
	DefaultProvider      = dstglide.ProviderAstro
	DefaultOutput        = "figures"
	DefaultBucketMinutes = 10
	DefaultListen        = "127.0.0.1:8080"
	DefaultRedisPrefix   = "dstglide"
	DefaultCacheSize     = 64
)

// ChartConfig controls the HTML heat-map.
type ChartConfig struct {
	// BucketMinutes is the width of one heat-map column. It must divide
	// 1440; anything else falls back to the default.
	BucketMinutes int `yaml:"bucket_minutes" json:"bucket_minutes"`

	// NightColor and DayColor are the ends of the color scale.
	NightColor string `yaml:"night_color" json:"night_color"`
	DayColor   string `yaml:"day_color" json:"day_color"`

	// MonthLines draws a horizontal line at the first day of each month.
	MonthLines bool `yaml:"month_lines" json:"month_lines"`
}

// RedisConfig enables matrix persistence when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password,omitempty" json:"-"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`

	// TTL expires stored matrices (for example "720h"). Zero keeps them.
	TTL time.Duration `yaml:"ttl,omitempty" json:"ttl,omitempty"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool { return strings.TrimSpace(r.Addr) != "" }

// Config is the top-level configuration shared by the CLI and the server.
type Config struct {
	// Year is the default year; 0 means the current year.
	Year int `yaml:"year" json:"year"`

	// Place is the default place name for the CLI.
	Place string `yaml:"place" json:"place"`

	// Provider selects the sunrise/sunset source ("astro" or "sunrise").
	Provider string `yaml:"provider" json:"provider"`

	// CacheSize bounds the server's in-memory matrix cache.
	CacheSize int `yaml:"cache_size" json:"cache_size"`

	// Output is the directory heat-map pages are written to.
	Output string `yaml:"output" json:"output"`

	Chart ChartConfig `yaml:"chart" json:"chart"`

	// Places adds to (or overrides) the built-in place table.
	Places []dstglide.Location `yaml:"places" json:"places"`

	Redis RedisConfig `yaml:"redis" json:"redis"`

	// Listen is the HTTP listen address of dstglide-server.
	Listen string `yaml:"listen" json:"listen"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider:  DefaultProvider,
		CacheSize: DefaultCacheSize,
		Output:    DefaultOutput,
		Chart: ChartConfig{
			BucketMinutes: DefaultBucketMinutes,
			NightColor:    "royalblue",
			DayColor:      "orange",
			MonthLines:    true,
		},
		Places: []dstglide.Location{},
		Redis:  RedisConfig{Prefix: DefaultRedisPrefix},
		Listen: DefaultListen,
	}
}

// Normalize fills in missing or out-of-range values with defaults.
func (c *Config) Normalize() {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Year < 0 {
		c.Year = 0
	}
	if c.CacheSize <= 0 {
		c.CacheSize = DefaultCacheSize
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if b := c.Chart.BucketMinutes; b <= 0 || dstglide.MinutesPerDay%b != 0 {
		c.Chart.BucketMinutes = DefaultBucketMinutes
	}
	if c.Chart.NightColor == "" {
		c.Chart.NightColor = "royalblue"
	}
	if c.Chart.DayColor == "" {
		c.Chart.DayColor = "orange"
	}
	if c.Places == nil {
		c.Places = []dstglide.Location{}
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = DefaultRedisPrefix
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
}

// Validate reports settings Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := dstglide.ProviderByName(c.Provider); err != nil {
		return err
	}
	for i, p := range c.Places {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("places[%d]: missing name", i)
		}
		if p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
			return fmt.Errorf("places[%d] %q: coordinates out of range", i, p.Name)
		}
		if _, err := p.Load(); err != nil {
			return fmt.Errorf("places[%d]: %w", i, err)
		}
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis.ttl %s is negative", c.Redis.TTL)
	}
	return nil
}

// Load reads configuration from a YAML file. A missing file is created
// with the defaults (mode 0600) and those defaults are returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename), mode 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".dstglide-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
