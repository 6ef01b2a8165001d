package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dstglide.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// Second load reads the file back.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFileIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dstglide.yaml")
	yml := `
year: 2022
provider: " Sunrise "
chart:
  bucket_minutes: 7
places:
  - name: Boulder
    lat: 40.015
    lon: -105.2705
    timezone: America/Denver
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2022, cfg.Year)
	assert.Equal(t, "sunrise", cfg.Provider)
	assert.Equal(t, DefaultBucketMinutes, cfg.Chart.BucketMinutes, "7 does not divide a day")
	assert.Equal(t, "royalblue", cfg.Chart.NightColor)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.False(t, cfg.Redis.Enabled())

	require.Len(t, cfg.Places, 1)
	assert.Equal(t, "Boulder", cfg.Places[0].Name)
	assert.InDelta(t, 40.015, cfg.Places[0].Lat, 1e-9)
	assert.Equal(t, "America/Denver", cfg.Places[0].TimeZone)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"bad yaml", "year: [1, 2"},
		{"unknown provider", "provider: sundial"},
		{"place without name", "places:\n  - lat: 1\n    lon: 2\n    timezone: UTC\n"},
		{"place out of range", "places:\n  - name: X\n    lat: 91\n    lon: 0\n    timezone: UTC\n"},
		{"place bad zone", "places:\n  - name: X\n    lat: 1\n    lon: 0\n    timezone: Mars/Olympus\n"},
		{"negative ttl", "redis:\n  addr: localhost:6379\n  ttl: -1h\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dstglide.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yml), 0o600))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dstglide.yaml")

	cfg := DefaultConfig()
	cfg.Place = "Chicago"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.TTL = 720 * time.Hour
	require.NoError(t, cfg.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "ttl: 720h0m0s")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Chicago", got.Place)
	assert.True(t, got.Redis.Enabled())
	assert.Equal(t, 720*time.Hour, got.Redis.TTL)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSave_Errors(t *testing.T) {
	assert.Error(t, Save("", DefaultConfig()))
	assert.Error(t, Save(filepath.Join(t.TempDir(), "x.yaml"), nil))
	_, err := Load("")
	assert.Error(t, err)
}
