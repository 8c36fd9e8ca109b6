// Package aggregate implements the aggregation and cache orchestration
// engine: it decides which upstream calls a request needs, fans out
// paginated fetches, tolerates section-level failure, derives computed
// fields and keeps per-section cache entries fresh.
package aggregate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/xivtools/lodestone-aggregator/pkg/cache"
	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
	"github.com/xivtools/lodestone-aggregator/pkg/logging"
	"github.com/xivtools/lodestone-aggregator/pkg/pagination"
	"github.com/xivtools/lodestone-aggregator/pkg/ratelimit"
)

// Config holds aggregator configuration.
type Config struct {
	// CacheVersion is the schema version tag baked into every cache key.
	CacheVersion string

	// CharacterTTL covers the mandatory profile entry.
	CharacterTTL time.Duration

	// SectionTTL covers each optional section entry.
	SectionTTL time.Duration

	// SearchTTL covers cached search responses.
	SearchTTL time.Duration

	// Pagination bounds the page fan-out of multi-page sections.
	Pagination pagination.Config

	// MaxBatchSize caps the number of IDs per batch request.
	MaxBatchSize int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		CacheVersion: cache.DefaultVersion,
		CharacterTTL: cache.CharacterTTL,
		SectionTTL:   cache.SectionTTL,
		SearchTTL:    cache.SearchTTL,
		Pagination:   pagination.DefaultConfig(),
		MaxBatchSize: 200,
	}
}

// Options select the behaviour of a single aggregation request.
type Options struct {
	// Sections are the requested optional sections.
	Sections Sections

	// Extended applies registered extenders to the profile and the
	// achievements summary.
	Extended bool

	// ForceFresh bypasses the mandatory cache entry and re-fetches the
	// profile upstream (used when the caller needs fields the cached
	// entry may have truncated, such as the bio).
	ForceFresh bool
}

// Aggregator coordinates the mandatory and optional fetches of one
// character aggregation request.
type Aggregator struct {
	client lodestone.Client
	cache  *cache.Facade
	cfg    Config
	pacer  *ratelimit.Pacer
	logger zerolog.Logger

	converters           []CharacterConverter
	characterExtenders   []CharacterExtender
	achievementExtenders []AchievementsExtender
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPacer installs a token-bucket pacer used between batch items.
func WithPacer(p *ratelimit.Pacer) Option {
	return func(a *Aggregator) { a.pacer = p }
}

// WithConverter registers a profile field converter.
func WithConverter(fn CharacterConverter) Option {
	return func(a *Aggregator) { a.converters = append(a.converters, fn) }
}

// WithCharacterExtender registers an extended-mode profile extender.
func WithCharacterExtender(fn CharacterExtender) Option {
	return func(a *Aggregator) { a.characterExtenders = append(a.characterExtenders, fn) }
}

// WithAchievementsExtender registers an extended-mode achievements extender.
func WithAchievementsExtender(fn AchievementsExtender) Option {
	return func(a *Aggregator) { a.achievementExtenders = append(a.achievementExtenders, fn) }
}

// New creates an Aggregator.
func New(client lodestone.Client, facade *cache.Facade, cfg Config, opts ...Option) *Aggregator {
	if client == nil {
		panic("lodestone client cannot be nil")
	}
	if facade == nil {
		panic("cache facade cannot be nil")
	}
	if cfg.CacheVersion == "" {
		cfg.CacheVersion = cache.DefaultVersion
	}
	if cfg.CharacterTTL <= 0 {
		cfg.CharacterTTL = cache.CharacterTTL
	}
	if cfg.SectionTTL <= 0 {
		cfg.SectionTTL = cache.SectionTTL
	}
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = cache.SearchTTL
	}

	a := &Aggregator{
		client: client,
		cache:  facade,
		cfg:    cfg,
		logger: logging.NewLogger("aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Character aggregates one character. The mandatory profile is always
// resolved (cache-first); requested optional sections are resolved
// independently and a failure or private result in one never prevents
// another from being attached. Only a terminal mandatory failure crosses
// this boundary as an error.
func (a *Aggregator) Character(ctx context.Context, id uint32, opts Options) (*Response, error) {
	start := time.Now()
	defer func() {
		aggregationDuration.Observe(time.Since(start).Seconds())
	}()

	character, err := a.mandatory(ctx, id, opts.ForceFresh)
	if err != nil {
		return nil, err
	}

	// Identifier/encoding normalization. The upstream does not embed the
	// character's own ID and may deliver a bio with broken encoding.
	character.ID = id
	character.Bio = strings.ToValidUTF8(character.Bio, "")

	for _, convert := range a.converters {
		convert(character)
	}
	if opts.Extended {
		for _, extend := range a.characterExtenders {
			extend(character)
		}
	}

	fcID := character.FreeCompanyID
	pvpID := character.PvPTeamID
	b := newBuilder(character)

	if opts.Sections.MinionsMounts {
		a.attachMinionsMounts(ctx, id, b)
	}
	if opts.Sections.Achievements {
		a.attachAchievements(ctx, id, opts.Extended, b)
	}
	if opts.Sections.Friends {
		a.attachFriends(ctx, id, b)
	}
	if opts.Sections.FreeCompany && fcID != "" {
		a.attachFreeCompany(ctx, fcID, b)
	}
	if opts.Sections.FreeCompanyMembers && fcID != "" {
		a.attachFreeCompanyMembers(ctx, fcID, b)
	}
	if opts.Sections.PvPTeam && pvpID != "" {
		a.attachPvPTeam(ctx, pvpID, b)
	}

	a.logger.Info().
		Uint32("character_id", id).
		Dur("duration", time.Since(start)).
		Msg("Aggregation complete")

	return b.build(), nil
}

// mandatory resolves the base profile with its class/job listing,
// cache-first. On a miss the profile and class/job fetches run
// concurrently, the active job is derived, and the merged profile is
// cached with the long TTL.
func (a *Aggregator) mandatory(ctx context.Context, id uint32, forceFresh bool) (*lodestone.Character, error) {
	idStr := strconv.FormatUint(uint64(id), 10)
	key := cache.ProfileKey(a.cfg.CacheVersion, idStr)

	var character lodestone.Character
	if !forceFresh && a.cache.GetJSON(ctx, key, &character) {
		return &character, nil
	}

	var (
		profile    *lodestone.Character
		profileErr error
		classJobs  *lodestone.ClassJobSet
		cjErr      error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		profile, profileErr = a.client.Character(ctx, id)
	}()
	go func() {
		defer wg.Done()
		classJobs, cjErr = a.client.ClassJobs(ctx, id)
	}()
	wg.Wait()

	if profileErr != nil {
		// Terminal: no partial response without the mandatory profile.
		return nil, fmt.Errorf("mandatory fetch for character %d: %w", id, profileErr)
	}

	character = *profile
	if cjErr != nil {
		a.logger.Warn().
			Err(cjErr).
			Uint32("character_id", id).
			Msg("Class/job fetch failed, continuing without listing")
		character.ClassJobs = []lodestone.ClassJob{}
		character.ActiveClassJob = nil
	} else {
		character.ClassJobs = classJobs.ClassJobs
		character.ClassJobsElemental = classJobs.Elemental
		character.ClassJobsBozjan = classJobs.Bozjan
		character.ActiveClassJob = ResolveActiveJob(&character)
	}

	a.cache.SetJSON(ctx, key, character, a.cfg.CharacterTTL)
	return &character, nil
}
