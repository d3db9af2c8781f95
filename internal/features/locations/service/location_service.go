package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/cache"
	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/locations/domain"
	"github.com/CFITire/nexus-sub001/internal/features/locations/ports"

	"go.uber.org/zap"
)

// locationsCacheKey holds the unfiltered live location set.
const locationsCacheKey = "erp:locations"

// locationsCacheTTL bounds how stale the cached directory may get. Location
// master data changes rarely.
const locationsCacheTTL = 5 * time.Minute

// LocationService serves the location directory, filtering server-side and
// substituting the degraded dataset when the live upstream is unavailable.
type LocationService struct {
	live     ports.Provider
	fallback ports.Provider
	degraded bool
	// cache is optional; nil disables caching, never the feature.
	cache cache.Cache
}

// NewLocationService creates a new LocationService.
func NewLocationService(live, fallback ports.Provider, degraded bool, c cache.Cache) *LocationService {
	return &LocationService{
		live:     live,
		fallback: fallback,
		degraded: degraded,
		cache:    c,
	}
}

// Search returns locations matching the term. An empty or whitespace term
// returns the full directory.
func (s *LocationService) Search(ctx context.Context, term string) ([]domain.Location, error) {
	if s.degraded {
		all, err := s.fallback.Locations(ctx)
		if err != nil {
			return nil, err
		}
		return domain.Filter(all, term), nil
	}

	all, err := s.liveLocations(ctx)
	if err != nil {
		if s.fallback == nil {
			return nil, err
		}
		logger.Get().Warn("Live location lookup failed, serving substitute dataset",
			zap.Error(err),
		)
		all, err = s.fallback.Locations(ctx)
		if err != nil {
			return nil, err
		}
	}

	return domain.Filter(all, term), nil
}

// liveLocations fetches the full directory, consulting the cache first.
// Cache failures are logged and ignored; they never fail the lookup.
func (s *LocationService) liveLocations(ctx context.Context) ([]domain.Location, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, locationsCacheKey); err == nil {
			var cached []domain.Location
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			logger.Get().Warn("Discarding undecodable cached location set", zap.Error(err))
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Get().Warn("Location cache read failed", zap.Error(err))
		}
	}

	all, err := s.live.Locations(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(all); err == nil {
			if err := s.cache.Set(ctx, locationsCacheKey, data, locationsCacheTTL); err != nil {
				logger.Get().Warn("Location cache write failed", zap.Error(err))
			}
		}
	}

	return all, nil
}
