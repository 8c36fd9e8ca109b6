package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
)

// FakeLodestone is a scriptable lodestone.Client for unit tests. Each
// method delegates to its Fn field and counts the call; a nil Fn behaves
// as an upstream 404.
type FakeLodestone struct {
	mu    sync.Mutex
	calls map[string]int

	CharacterFn          func(id uint32) (*lodestone.Character, error)
	ClassJobsFn          func(id uint32) (*lodestone.ClassJobSet, error)
	AchievementsFn       func(id uint32, kind int) (*lodestone.AchievementList, error)
	FriendsFn            func(id uint32, page int) (*lodestone.Page[lodestone.CharacterRef], error)
	FreeCompanyFn        func(id string) (*lodestone.FreeCompany, error)
	FreeCompanyMembersFn func(id string, page int) (*lodestone.Page[lodestone.CharacterRef], error)
	PvPTeamFn            func(id string) (*lodestone.PvPTeam, error)
	MinionsFn            func(id uint32) ([]lodestone.Collectable, error)
	MountsFn             func(id uint32) ([]lodestone.Collectable, error)
	SearchFn             func(name, server string, page int) (*lodestone.Page[lodestone.CharacterRef], error)
}

// NewFakeLodestone creates an empty fake client.
func NewFakeLodestone() *FakeLodestone {
	return &FakeLodestone{calls: make(map[string]int)}
}

func (f *FakeLodestone) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

// Calls returns how many times the given method was invoked.
func (f *FakeLodestone) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the total number of upstream calls made.
func (f *FakeLodestone) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FakeLodestone) Character(ctx context.Context, id uint32) (*lodestone.Character, error) {
	f.record("Character")
	if f.CharacterFn == nil {
		return nil, fmt.Errorf("character %d: %w", id, lodestone.ErrNotFound)
	}
	return f.CharacterFn(id)
}

func (f *FakeLodestone) ClassJobs(ctx context.Context, id uint32) (*lodestone.ClassJobSet, error) {
	f.record("ClassJobs")
	if f.ClassJobsFn == nil {
		return nil, fmt.Errorf("classjobs %d: %w", id, lodestone.ErrNotFound)
	}
	return f.ClassJobsFn(id)
}

func (f *FakeLodestone) Achievements(ctx context.Context, id uint32, kind int) (*lodestone.AchievementList, error) {
	f.record("Achievements")
	if f.AchievementsFn == nil {
		return nil, fmt.Errorf("achievements %d: %w", id, lodestone.ErrNotFound)
	}
	return f.AchievementsFn(id, kind)
}

func (f *FakeLodestone) Friends(ctx context.Context, id uint32, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
	f.record("Friends")
	if f.FriendsFn == nil {
		return nil, fmt.Errorf("friends %d: %w", id, lodestone.ErrNotFound)
	}
	return f.FriendsFn(id, page)
}

func (f *FakeLodestone) FreeCompany(ctx context.Context, id string) (*lodestone.FreeCompany, error) {
	f.record("FreeCompany")
	if f.FreeCompanyFn == nil {
		return nil, fmt.Errorf("freecompany %s: %w", id, lodestone.ErrNotFound)
	}
	return f.FreeCompanyFn(id)
}

func (f *FakeLodestone) FreeCompanyMembers(ctx context.Context, id string, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
	f.record("FreeCompanyMembers")
	if f.FreeCompanyMembersFn == nil {
		return nil, fmt.Errorf("freecompany members %s: %w", id, lodestone.ErrNotFound)
	}
	return f.FreeCompanyMembersFn(id, page)
}

func (f *FakeLodestone) PvPTeam(ctx context.Context, id string) (*lodestone.PvPTeam, error) {
	f.record("PvPTeam")
	if f.PvPTeamFn == nil {
		return nil, fmt.Errorf("pvpteam %s: %w", id, lodestone.ErrNotFound)
	}
	return f.PvPTeamFn(id)
}

func (f *FakeLodestone) Minions(ctx context.Context, id uint32) ([]lodestone.Collectable, error) {
	f.record("Minions")
	if f.MinionsFn == nil {
		return nil, fmt.Errorf("minions %d: %w", id, lodestone.ErrNotFound)
	}
	return f.MinionsFn(id)
}

func (f *FakeLodestone) Mounts(ctx context.Context, id uint32) ([]lodestone.Collectable, error) {
	f.record("Mounts")
	if f.MountsFn == nil {
		return nil, fmt.Errorf("mounts %d: %w", id, lodestone.ErrNotFound)
	}
	return f.MountsFn(id)
}

func (f *FakeLodestone) Search(ctx context.Context, name, server string, page int) (*lodestone.Page[lodestone.CharacterRef], error) {
	f.record("Search")
	if f.SearchFn == nil {
		return nil, fmt.Errorf("search %q: %w", name, lodestone.ErrNotFound)
	}
	return f.SearchFn(name, server, page)
}
