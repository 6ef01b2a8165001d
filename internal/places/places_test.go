package places

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/dstglide"
)

func TestLookup(t *testing.T) {
	r := New()

	tests := []struct {
		query string
		want  string
	}{
		{"New York", "New York"},
		{"  new york ", "New York"},
		{"New York, NY", "New York"},
		{"new-york", "New York"},
		{"NEW_YORK ny", "New York"},
		{"St. Louis", "St. Louis"},
		{"st-louis", "St. Louis"},
		{"Phoenix, AZ", "Phoenix"},
		{"salt lake city", "Salt Lake City"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			loc, err := r.Lookup(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.Name)
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	r := New()
	for _, q := range []string{"", "Atlantis", "New York, CA"} {
		_, err := r.Lookup(q)
		assert.ErrorIs(t, err, ErrUnknownPlace, q)
	}
}

func TestNew_ExtraPlaces(t *testing.T) {
	boulder := dstglide.Location{
		Name:        "Boulder",
		Coordinates: dstglide.Coordinates{Lat: 40.015, Lon: -105.2705},
		TimeZone:    "America/Denver",
	}
	denver := dstglide.Location{
		Name:        "Denver",
		Coordinates: dstglide.Coordinates{Lat: 39.75, Lon: -105.0},
		TimeZone:    "America/Denver",
	}
	r := New(boulder, denver)

	got, err := r.Lookup("boulder")
	require.NoError(t, err)
	assert.Equal(t, boulder, got)

	// Overrides keep the built-in state code.
	got, err = r.Lookup("Denver, CO")
	require.NoError(t, err)
	assert.Equal(t, denver, got)

	assert.Len(t, r.All(), len(New().All())+1)

	// The default registry is untouched.
	orig, err := New().Lookup("Denver")
	require.NoError(t, err)
	assert.InDelta(t, 39.7392, orig.Lat, 1e-9)
}

func TestAll_SortedAndLoadable(t *testing.T) {
	all := New().All()
	require.NotEmpty(t, all)

	for i, p := range all {
		if i > 0 {
			assert.Less(t, all[i-1].Name, p.Name)
		}
		assert.True(t, p.Lat > 24 && p.Lat < 50, "%s outside the continental US", p.Name)
		if _, err := time.LoadLocation(p.TimeZone); err != nil {
			t.Errorf("%s: zone %q: %v", p.Name, p.TimeZone, err)
		}
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "new-york", Slug("New York"))
	assert.Equal(t, "st-louis", Slug("St. Louis"))
	assert.Equal(t, "salt-lake-city", Slug("  Salt  Lake City "))
	assert.Equal(t, "", Slug("..."))
}
