package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maypok86/otter/v2"

	"github.com/thurmanmarka/dstglide"
	"github.com/thurmanmarka/dstglide/internal/places"
	"github.com/thurmanmarka/dstglide/internal/store"
)

type matrixKey struct {
	place string
	year  int
}

// Matrices resolves, computes and caches daylight matrices. Lookups go
// memory cache, then the store (if any), then Compute.
type Matrices struct {
	places       *places.Registry
	provider     dstglide.SunEventProvider
	providerName string
	cache        *otter.Cache[matrixKey, *dstglide.Matrix]
	store        *store.Store
	logger       *slog.Logger
}

// MatricesConfig holds the dependencies of Matrices. Store and Logger
// are optional.
type MatricesConfig struct {
	Places       *places.Registry
	Provider     dstglide.SunEventProvider
	ProviderName string
	CacheSize    int
	Store        *store.Store
	Logger       *slog.Logger
}

// NewMatrices returns a Matrices for cfg.
func NewMatrices(cfg MatricesConfig) *Matrices {
	if cfg.Places == nil {
		cfg.Places = places.New()
	}
	if cfg.Provider == nil {
		cfg.Provider = dstglide.AstroProvider{}
		cfg.ProviderName = dstglide.ProviderAstro
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 64
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Matrices{
		places:       cfg.Places,
		provider:     cfg.Provider,
		providerName: cfg.ProviderName,
		cache: otter.Must(&otter.Options[matrixKey, *dstglide.Matrix]{
			MaximumSize: cfg.CacheSize,
		}),
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// Places returns the registry used to resolve names.
func (s *Matrices) Places() *places.Registry { return s.places }

// Get returns the matrix for a place name and year.
func (s *Matrices) Get(ctx context.Context, place string, year int) (*dstglide.Matrix, error) {
	loc, err := s.places.Lookup(place)
	if err != nil {
		return nil, err
	}

	key := matrixKey{place: places.Slug(loc.Name), year: year}
	if m, ok := s.cache.GetIfPresent(key); ok {
		return m, nil
	}

	if s.store != nil {
		m, err := s.store.Load(ctx, loc, year, s.providerName)
		switch {
		case err == nil:
			s.cache.Set(key, m)
			return m, nil
		case !errors.Is(err, store.ErrNotFound):
			s.logger.Warn("store lookup failed", "place", loc.Name, "year", year, "error", err)
		}
	}

	m, err := dstglide.Compute(loc, year,
		dstglide.WithProvider(s.provider),
		dstglide.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("computing %s %d: %w", loc.Name, year, err)
	}
	s.cache.Set(key, m)

	if s.store != nil {
		if err := s.store.Save(ctx, m, s.providerName); err != nil {
			s.logger.Warn("store save failed", "place", loc.Name, "year", year, "error", err)
		}
	}
	return m, nil
}
