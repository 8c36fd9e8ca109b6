package aggregate

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/xivtools/lodestone-aggregator/pkg/cache"
	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
	"github.com/xivtools/lodestone-aggregator/pkg/pagination"
)

// achievementKinds are the fixed category IDs fetched concurrently after
// the public check on kind 1.
var achievementKinds = []int{2, 3, 4, 5, 6, 8, 11, 12}

// achievementKindSeasonal is fetched synchronously at the end; many
// characters simply have no entries of that kind, so its failure is
// silent.
const achievementKindSeasonal = 13

// Cached section entry shapes. Each optional section is cached as one
// entry with its own TTL; partiality and public-status bookkeeping travel
// with the entry so cache hits reproduce the same response.
type achievementsEntry struct {
	Public       bool
	Achievements *Achievements
}

type friendsEntry struct {
	Public  bool
	Friends []lodestone.CharacterRef
	Partial bool
}

type membersEntry struct {
	Members []lodestone.CharacterRef
	Partial bool
}

type minionsMountsEntry struct {
	Minions []lodestone.Collectable
	Mounts  []lodestone.Collectable
}

func (a *Aggregator) sectionKey(id, section string) cache.Key {
	return cache.SectionKey(a.cfg.CacheVersion, id, section)
}

// attachAchievements resolves the achievements section. Kind 1 determines
// public/private; the remaining kinds are fetched concurrently, each
// independently tolerant of per-kind errors. All records are reduced to
// an (ID, Date) list plus a points total.
func (a *Aggregator) attachAchievements(ctx context.Context, id uint32, extended bool, b *builder) {
	idStr := strconv.FormatUint(uint64(id), 10)
	key := a.sectionKey(idStr, string(SectionAchievements))

	var entry achievementsEntry
	if a.cache.GetJSON(ctx, key, &entry) {
		sectionsTotal.WithLabelValues(string(SectionAchievements), outcomeCached).Inc()
	} else {
		first, err := a.client.Achievements(ctx, id, 1)
		switch {
		case errors.Is(err, lodestone.ErrPrivate):
			entry = achievementsEntry{Public: false, Achievements: &Achievements{List: []AchievementRef{}}}
		case err != nil:
			sectionsTotal.WithLabelValues(string(SectionAchievements), outcomeError).Inc()
			a.logger.Warn().Err(err).Uint32("character_id", id).
				Str("section", string(SectionAchievements)).
				Msg("Section fetch failed, skipping")
			return
		default:
			entry = achievementsEntry{
				Public:       true,
				Achievements: a.collectAchievements(ctx, id, first),
			}
		}
		a.cache.SetJSON(ctx, key, entry, a.cfg.SectionTTL)
		if entry.Public {
			sectionsTotal.WithLabelValues(string(SectionAchievements), outcomePublic).Inc()
		} else {
			sectionsTotal.WithLabelValues(string(SectionAchievements), outcomePrivate).Inc()
		}
	}

	if extended && entry.Public && entry.Achievements != nil {
		for _, extend := range a.achievementExtenders {
			extend(entry.Achievements)
		}
	}

	b.setAchievements(entry.Public, entry.Achievements)
}

// collectAchievements fans out the remaining kind fetches and reduces all
// records to the summary form. Kind order is preserved in the output
// regardless of completion order.
func (a *Aggregator) collectAchievements(ctx context.Context, id uint32, first *lodestone.AchievementList) *Achievements {
	byKind := make(map[int][]lodestone.Achievement, len(achievementKinds)+2)
	byKind[1] = first.Achievements

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, kind := range achievementKinds {
		wg.Add(1)
		go func(kind int) {
			defer wg.Done()
			list, err := a.client.Achievements(ctx, id, kind)
			if err != nil {
				a.logger.Debug().Err(err).Uint32("character_id", id).
					Int("kind", kind).Msg("Achievement kind fetch failed, skipping")
				return
			}
			mu.Lock()
			byKind[kind] = list.Achievements
			mu.Unlock()
		}(kind)
	}
	wg.Wait()

	if list, err := a.client.Achievements(ctx, id, achievementKindSeasonal); err == nil {
		byKind[achievementKindSeasonal] = list.Achievements
	}

	summary := &Achievements{List: []AchievementRef{}}
	order := append([]int{1}, achievementKinds...)
	order = append(order, achievementKindSeasonal)
	for _, kind := range order {
		for _, record := range byKind[kind] {
			summary.Points += record.Points
			summary.List = append(summary.List, AchievementRef{
				ID:   record.ID,
				Date: record.ObtainedTimestamp,
			})
		}
	}
	return summary
}

// attachFriends resolves the friends section through the pagination
// fetcher. Public-status bookkeeping is independent of every other
// section.
func (a *Aggregator) attachFriends(ctx context.Context, id uint32, b *builder) {
	idStr := strconv.FormatUint(uint64(id), 10)
	key := a.sectionKey(idStr, string(SectionFriends))

	var entry friendsEntry
	if a.cache.GetJSON(ctx, key, &entry) {
		sectionsTotal.WithLabelValues(string(SectionFriends), outcomeCached).Inc()
		b.setFriends(entry.Public, entry.Friends, entry.Partial)
		return
	}

	result, err := pagination.FetchAll(ctx, a.cfg.Pagination,
		func(ctx context.Context, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
			return a.client.Friends(ctx, id, page)
		})
	switch {
	case errors.Is(err, lodestone.ErrPrivate):
		entry = friendsEntry{Public: false}
		sectionsTotal.WithLabelValues(string(SectionFriends), outcomePrivate).Inc()
	case err != nil:
		sectionsTotal.WithLabelValues(string(SectionFriends), outcomeError).Inc()
		a.logger.Warn().Err(err).Uint32("character_id", id).
			Str("section", string(SectionFriends)).
			Msg("Section fetch failed, skipping")
		return
	default:
		entry = friendsEntry{Public: true, Friends: result.Items, Partial: result.Partial()}
		sectionsTotal.WithLabelValues(string(SectionFriends), outcomePublic).Inc()
	}

	a.cache.SetJSON(ctx, key, entry, a.cfg.SectionTTL)
	b.setFriends(entry.Public, entry.Friends, entry.Partial)
}

// attachFreeCompany resolves the free company section. Keyed by the free
// company ID, which several characters share.
func (a *Aggregator) attachFreeCompany(ctx context.Context, fcID string, b *builder) {
	key := a.sectionKey(fcID, string(SectionFreeCompany))

	var fc lodestone.FreeCompany
	if a.cache.GetJSON(ctx, key, &fc) {
		sectionsTotal.WithLabelValues(string(SectionFreeCompany), outcomeCached).Inc()
	} else {
		fetched, err := a.client.FreeCompany(ctx, fcID)
		if err != nil {
			sectionsTotal.WithLabelValues(string(SectionFreeCompany), outcomeError).Inc()
			a.logger.Warn().Err(err).Str("free_company_id", fcID).
				Str("section", string(SectionFreeCompany)).
				Msg("Section fetch failed, skipping")
			return
		}
		fc = *fetched
		a.cache.SetJSON(ctx, key, fc, a.cfg.SectionTTL)
		sectionsTotal.WithLabelValues(string(SectionFreeCompany), outcomePublic).Inc()
	}

	// The upstream does not embed the ID on the record.
	fc.ID = fcID
	b.setFreeCompany(&fc)
}

// attachFreeCompanyMembers resolves the member list, keyed by the free
// company ID.
func (a *Aggregator) attachFreeCompanyMembers(ctx context.Context, fcID string, b *builder) {
	key := a.sectionKey(fcID, string(SectionFreeCompanyMembers))

	var entry membersEntry
	if a.cache.GetJSON(ctx, key, &entry) {
		sectionsTotal.WithLabelValues(string(SectionFreeCompanyMembers), outcomeCached).Inc()
		b.setFreeCompanyMembers(entry.Members, entry.Partial)
		return
	}

	result, err := pagination.FetchAll(ctx, a.cfg.Pagination,
		func(ctx context.Context, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
			return a.client.FreeCompanyMembers(ctx, fcID, page)
		})
	if err != nil {
		sectionsTotal.WithLabelValues(string(SectionFreeCompanyMembers), outcomeError).Inc()
		a.logger.Warn().Err(err).Str("free_company_id", fcID).
			Str("section", string(SectionFreeCompanyMembers)).
			Msg("Section fetch failed, skipping")
		return
	}

	entry = membersEntry{Members: result.Items, Partial: result.Partial()}
	a.cache.SetJSON(ctx, key, entry, a.cfg.SectionTTL)
	sectionsTotal.WithLabelValues(string(SectionFreeCompanyMembers), outcomePublic).Inc()
	b.setFreeCompanyMembers(entry.Members, entry.Partial)
}

// attachPvPTeam resolves the PvP team section, keyed by the team ID.
func (a *Aggregator) attachPvPTeam(ctx context.Context, pvpID string, b *builder) {
	key := a.sectionKey(pvpID, string(SectionPvPTeam))

	var team lodestone.PvPTeam
	if a.cache.GetJSON(ctx, key, &team) {
		sectionsTotal.WithLabelValues(string(SectionPvPTeam), outcomeCached).Inc()
	} else {
		fetched, err := a.client.PvPTeam(ctx, pvpID)
		if err != nil {
			sectionsTotal.WithLabelValues(string(SectionPvPTeam), outcomeError).Inc()
			a.logger.Warn().Err(err).Str("pvp_team_id", pvpID).
				Str("section", string(SectionPvPTeam)).
				Msg("Section fetch failed, skipping")
			return
		}
		team = *fetched
		a.cache.SetJSON(ctx, key, team, a.cfg.SectionTTL)
		sectionsTotal.WithLabelValues(string(SectionPvPTeam), outcomePublic).Inc()
	}

	team.ID = pvpID
	b.setPvPTeam(&team)
}

// attachMinionsMounts resolves minions and mounts as two independent
// fetches cached together as one composite entry. A 404 on either just
// means the character owns none of that kind.
func (a *Aggregator) attachMinionsMounts(ctx context.Context, id uint32, b *builder) {
	idStr := strconv.FormatUint(uint64(id), 10)
	key := a.sectionKey(idStr, string(SectionMinionsMounts))

	var entry minionsMountsEntry
	if a.cache.GetJSON(ctx, key, &entry) {
		sectionsTotal.WithLabelValues(string(SectionMinionsMounts), outcomeCached).Inc()
		b.setMinionsMounts(entry.Minions, entry.Mounts)
		return
	}

	cacheable := true

	minions, err := a.client.Minions(ctx, id)
	if err != nil && !errors.Is(err, lodestone.ErrNotFound) {
		cacheable = false
		a.logger.Warn().Err(err).Uint32("character_id", id).
			Str("section", string(SectionMinionsMounts)).
			Msg("Minion fetch failed, continuing without")
	}
	entry.Minions = minions

	mounts, err := a.client.Mounts(ctx, id)
	if err != nil && !errors.Is(err, lodestone.ErrNotFound) {
		cacheable = false
		a.logger.Warn().Err(err).Uint32("character_id", id).
			Str("section", string(SectionMinionsMounts)).
			Msg("Mount fetch failed, continuing without")
	}
	entry.Mounts = mounts

	// Transient failures are not cached; the next request retries.
	if cacheable {
		a.cache.SetJSON(ctx, key, entry, a.cfg.SectionTTL)
	}
	sectionsTotal.WithLabelValues(string(SectionMinionsMounts), outcomePublic).Inc()
	b.setMinionsMounts(entry.Minions, entry.Mounts)
}
