// Package store persists daylight matrices in Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/thurmanmarka/dstglide"
	"github.com/thurmanmarka/dstglide/internal/places"
)

var (
	// ErrNotFound is returned when no matrix is stored under a key.
	ErrNotFound = errors.New("matrix not found")
	// ErrCorrupt is returned when stored bytes do not decode.
	ErrCorrupt = errors.New("corrupt matrix encoding")
)

// Store saves and loads matrices under
// "{prefix}:matrix:{place}:{lat},{lon}:{zone}:{year}:{provider}". The
// coordinates and zone are part of the key so two places that share a
// name never share an entry.
type Store struct {
	client RedisClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires saved matrices after d. Zero keeps them forever.
func WithTTL(d time.Duration) Option {
	return func(s *Store) { s.ttl = d }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a Store backed by client. An empty prefix means "dstglide".
func New(client RedisClient, prefix string, opts ...Option) *Store {
	if prefix == "" {
		prefix = "dstglide"
	}
	s := &Store{
		client: client,
		prefix: prefix,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key for a location, year and provider.
// Coordinates are rounded to four decimals (about 11 m).
func (s *Store) Key(loc dstglide.Location, year int, provider string) string {
	return strings.Join([]string{
		s.prefix,
		"matrix",
		places.Slug(loc.Name),
		coord(loc.Lat) + "," + coord(loc.Lon),
		loc.TimeZone,
		strconv.Itoa(year),
		strings.ToLower(provider),
	}, ":")
}

func coord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	if s == "-0.0000" {
		s = "0.0000"
	}
	return s
}

// Save stores m, computed with the named provider.
func (s *Store) Save(ctx context.Context, m *dstglide.Matrix, provider string) error {
	key := s.Key(m.Location, m.Year, provider)
	data := Encode(m)
	if err := s.client.Set(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	s.logger.Debug("matrix saved", "key", key, "bytes", len(data))
	return nil
}

// Load returns the matrix stored for loc, year and provider, or an error
// wrapping ErrNotFound. A corrupt entry is deleted before ErrCorrupt is
// returned.
func (s *Store) Load(ctx context.Context, loc dstglide.Location, year int, provider string) (*dstglide.Matrix, error) {
	key := s.Key(loc, year, provider)
	data, err := s.client.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	m, err := Decode(data, loc)
	if err != nil {
		s.logger.Warn("dropping undecodable matrix", "key", key, "error", err)
		if delErr := s.client.Del(ctx, key); delErr != nil {
			s.logger.Warn("delete failed", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if m.Year != year {
		return nil, fmt.Errorf("%w: %s holds year %d", ErrCorrupt, key, m.Year)
	}
	return m, nil
}

// Delete removes a stored matrix. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, loc dstglide.Location, year int, provider string) error {
	return s.client.Del(ctx, s.Key(loc, year, provider))
}
