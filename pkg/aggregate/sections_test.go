package aggregate_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivtools/lodestone-aggregator/internal/testutil"
	"github.com/xivtools/lodestone-aggregator/pkg/aggregate"
	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
)

func friendPage(page, total int, names ...string) *lodestone.Page[lodestone.CharacterRef] {
	refs := make([]lodestone.CharacterRef, len(names))
	for i, name := range names {
		refs[i] = lodestone.CharacterRef{Name: name}
	}
	return &lodestone.Page[lodestone.CharacterRef]{
		Results:    refs,
		Pagination: lodestone.Pagination{Page: page, PageTotal: total},
	}
}

func TestAchievements_ReducedAcrossKinds(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.AchievementsFn = func(id uint32, kind int) (*lodestone.AchievementList, error) {
		switch kind {
		case 1:
			return &lodestone.AchievementList{Achievements: []lodestone.Achievement{
				{ID: 101, Points: 10, ObtainedTimestamp: 1700000000},
				{ID: 102, Points: 5, ObtainedTimestamp: 1700000100},
			}}, nil
		case 8:
			// One category failing must not sink the section.
			return nil, fmt.Errorf("upstream hiccup")
		default:
			return &lodestone.AchievementList{Achievements: []lodestone.Achievement{
				{ID: uint32(kind * 1000), Points: kind, ObtainedTimestamp: 1700000000},
			}}, nil
		}
	}
	agg := newTestAggregator(fake, testutil.NewMemoryStore())

	resp, err := agg.Character(context.Background(), testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("AC"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.AchievementsPublic)
	assert.True(t, *resp.AchievementsPublic)
	require.NotNil(t, resp.Achievements)

	// Kind 1 contributes two records, kinds 2,3,4,5,6,11,12,13 one each;
	// kind 8 errored and is skipped.
	assert.Len(t, resp.Achievements.List, 10)
	assert.Equal(t, 10+5+2+3+4+5+6+11+12+13, resp.Achievements.Points)

	// Reduced form only: first record kept as (ID, Date).
	assert.Equal(t, aggregate.AchievementRef{ID: 101, Date: 1700000000}, resp.Achievements.List[0])
}

func TestAchievements_PrivateStopsAfterPublicCheck(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.AchievementsFn = func(id uint32, kind int) (*lodestone.AchievementList, error) {
		return nil, fmt.Errorf("achievements %d: %w", id, lodestone.ErrPrivate)
	}
	agg := newTestAggregator(fake, testutil.NewMemoryStore())

	resp, err := agg.Character(context.Background(), testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("AC"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.AchievementsPublic)
	assert.False(t, *resp.AchievementsPublic)
	assert.Nil(t, resp.Achievements)

	// Only the kind-1 public check hit upstream.
	assert.Equal(t, 1, fake.Calls("Achievements"))
}

func TestAchievements_CacheHitKeepsPrivateFlag(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.AchievementsFn = func(id uint32, kind int) (*lodestone.AchievementList, error) {
		return nil, fmt.Errorf("achievements %d: %w", id, lodestone.ErrPrivate)
	}
	store := testutil.NewMemoryStore()
	agg := newTestAggregator(fake, store)
	ctx := context.Background()
	opts := aggregate.Options{Sections: aggregate.ParseSections("AC")}

	_, err := agg.Character(ctx, testCharacterID, opts)
	require.NoError(t, err)
	assert.True(t, store.Has("lodestone_json_response_v6_123456_AC"))

	resp, err := agg.Character(ctx, testCharacterID, opts)
	require.NoError(t, err)

	// The private outcome is reproduced from cache without another check.
	assert.Equal(t, 1, fake.Calls("Achievements"))
	require.NotNil(t, resp.AchievementsPublic)
	assert.False(t, *resp.AchievementsPublic)
}

func TestAchievements_ExtenderRunsOnExtendedOnly(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.AchievementsFn = func(id uint32, kind int) (*lodestone.AchievementList, error) {
		return &lodestone.AchievementList{}, nil
	}
	extended := 0
	agg := newTestAggregator(fake, testutil.NewMemoryStore(),
		aggregate.WithAchievementsExtender(func(a *aggregate.Achievements) { extended++ }))
	ctx := context.Background()

	_, err := agg.Character(ctx, testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("AC"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, extended)

	_, err = agg.Character(ctx, testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("AC"), Extended: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, extended)
}

func TestFriends_MultiPageMergedInOrder(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.FriendsFn = func(id uint32, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
		switch page {
		case 1:
			return friendPage(1, 3, "Alpha", "Bravo"), nil
		case 2:
			return friendPage(2, 3, "Charlie"), nil
		case 3:
			return friendPage(3, 3, "Delta"), nil
		default:
			return nil, fmt.Errorf("page %d: %w", page, lodestone.ErrNotFound)
		}
	}
	agg := newTestAggregator(fake, testutil.NewMemoryStore())

	resp, err := agg.Character(context.Background(), testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("FR"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.FriendsPublic)
	assert.True(t, *resp.FriendsPublic)
	names := make([]string, 0, len(resp.Friends))
	for _, f := range resp.Friends {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Alpha", "Bravo", "Charlie", "Delta"}, names)
	assert.Empty(t, resp.PartialSections)
	assert.Equal(t, 3, fake.Calls("Friends"))
}

func TestFriends_PrivateIndependentOfAchievements(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.AchievementsFn = func(id uint32, kind int) (*lodestone.AchievementList, error) {
		return &lodestone.AchievementList{Achievements: []lodestone.Achievement{
			{ID: 1, Points: 10},
		}}, nil
	}
	fake.FriendsFn = func(id uint32, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
		return nil, fmt.Errorf("friends %d: %w", id, lodestone.ErrPrivate)
	}
	agg := newTestAggregator(fake, testutil.NewMemoryStore())

	resp, err := agg.Character(context.Background(), testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("AC,FR"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.AchievementsPublic)
	assert.True(t, *resp.AchievementsPublic)
	require.NotNil(t, resp.FriendsPublic)
	assert.False(t, *resp.FriendsPublic)
	assert.Nil(t, resp.Friends)
}

func TestFriends_DroppedPageSurfacedAsPartial(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.FriendsFn = func(id uint32, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
		switch page {
		case 1:
			return friendPage(1, 3, "Alpha"), nil
		case 2:
			return nil, fmt.Errorf("page 2: upstream hiccup")
		default:
			return friendPage(3, 3, "Delta"), nil
		}
	}
	agg := newTestAggregator(fake, testutil.NewMemoryStore())

	resp, err := agg.Character(context.Background(), testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("FR"),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.FriendsPublic)
	assert.True(t, *resp.FriendsPublic)
	assert.Len(t, resp.Friends, 2)
	assert.Equal(t, []aggregate.Section{aggregate.SectionFriends}, resp.PartialSections)
}

func TestFreeCompanyMembers_KeyedByFreeCompanyID(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.FreeCompanyMembersFn = func(id string, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
		assert.Equal(t, testFCID, id)
		return friendPage(page, 1, "Member One"), nil
	}
	store := testutil.NewMemoryStore()
	agg := newTestAggregator(fake, store)

	resp, err := agg.Character(context.Background(), testCharacterID, aggregate.Options{
		Sections: aggregate.ParseSections("FCM"),
	})
	require.NoError(t, err)

	assert.Len(t, resp.FreeCompanyMembers, 1)
	assert.True(t, store.Has("lodestone_json_response_v6_9000_FCM"))
}

func TestFreeCompany_SharedCacheAcrossCharacters(t *testing.T) {
	fake := testutil.NewFakeLodestone()
	scriptBaseCharacter(fake)
	fake.FreeCompanyFn = func(id string) (*lodestone.FreeCompany, error) {
		return &lodestone.FreeCompany{Name: "Mealvaan's Gate"}, nil
	}
	agg := newTestAggregator(fake, testutil.NewMemoryStore())
	ctx := context.Background()
	opts := aggregate.Options{Sections: aggregate.ParseSections("FC")}

	_, err := agg.Character(ctx, 111, opts)
	require.NoError(t, err)
	resp, err := agg.Character(ctx, 222, opts)
	require.NoError(t, err)

	// Both characters share the same FC; the entry is keyed by FC ID, so
	// the second aggregation reuses it.
	assert.Equal(t, 1, fake.Calls("FreeCompany"))
	require.NotNil(t, resp.FreeCompany)
	assert.Equal(t, testFCID, resp.FreeCompany.ID)
}
