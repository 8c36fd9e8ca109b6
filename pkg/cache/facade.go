package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TTL conventions used by the aggregation engine.
const (
	// CharacterTTL covers the mandatory profile entry.
	CharacterTTL = 24 * time.Hour

	// SectionTTL covers each optional section entry independently.
	SectionTTL = 24 * time.Hour

	// SearchTTL covers search/list-style responses.
	SearchTTL = 2 * time.Hour
)

// Facade is a typed get/set wrapper over a Store. Caching is an
// optimization, never a correctness requirement: a failing store degrades
// to always-fetch-upstream behaviour.
type Facade struct {
	store  Store
	logger zerolog.Logger
}

// NewFacade creates a cache facade over the given store.
func NewFacade(store Store) *Facade {
	if store == nil {
		panic("cache store cannot be nil")
	}
	return &Facade{
		store:  store,
		logger: log.With().Str("component", "cache").Logger(),
	}
}

// GetJSON retrieves key and unmarshals it into dest. Returns true on a
// cache hit. Store failures and corrupt entries are logged and treated as
// misses.
func (f *Facade) GetJSON(ctx context.Context, key Key, dest any) bool {
	keyStr := key.String()

	data, err := f.store.Get(ctx, keyStr)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			cacheMisses.Inc()
			return false
		}
		cacheErrors.WithLabelValues("get").Inc()
		f.logger.Warn().Err(err).Str("key", keyStr).Msg("Cache get failed, treating as miss")
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		cacheErrors.WithLabelValues("get").Inc()
		f.logger.Warn().Err(err).Str("key", keyStr).Msg("Corrupt cache entry, treating as miss")
		return false
	}

	cacheHits.Inc()
	f.logger.Debug().Str("key", keyStr).Msg("Cache hit")
	return true
}

// SetJSON marshals value and stores it under key with the given TTL.
// Failures are logged and swallowed.
func (f *Facade) SetJSON(ctx context.Context, key Key, value any, ttl time.Duration) {
	keyStr := key.String()

	data, err := json.Marshal(value)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		f.logger.Warn().Err(err).Str("key", keyStr).Msg("Cache marshal failed")
		return
	}

	if err := f.store.Set(ctx, keyStr, data, ttl); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		f.logger.Warn().Err(err).Str("key", keyStr).Msg("Cache set failed")
		return
	}

	f.logger.Debug().Str("key", keyStr).Dur("ttl", ttl).Msg("Cached entry")
}
