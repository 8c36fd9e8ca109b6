package aggregate

import (
	"sort"

	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
)

// AchievementRef is the reduced form of one achievement record. Raw
// achievement metadata is discarded after reduction.
type AchievementRef struct {
	ID   uint32
	Date int64
}

// Achievements is the reduced achievements summary.
type Achievements struct {
	List   []AchievementRef
	Points int
}

// Response is the fully assembled aggregation result. A section field is
// populated only when its flag was requested, its ID prerequisite was
// satisfied and the upstream outcome was public.
type Response struct {
	Character *lodestone.Character

	Achievements       *Achievements `json:",omitempty"`
	AchievementsPublic *bool         `json:",omitempty"`

	Friends       []lodestone.CharacterRef `json:",omitempty"`
	FriendsPublic *bool                    `json:",omitempty"`

	FreeCompany        *lodestone.FreeCompany   `json:",omitempty"`
	FreeCompanyMembers []lodestone.CharacterRef `json:",omitempty"`

	PvPTeam *lodestone.PvPTeam `json:",omitempty"`

	Minions []lodestone.Collectable `json:",omitempty"`
	Mounts  []lodestone.Collectable `json:",omitempty"`

	// PartialSections lists paginated sections that dropped at least one
	// page upstream and therefore hold incomplete data.
	PartialSections []Section `json:",omitempty"`
}

// builder accumulates section outcomes and assembles the Response in one
// step, so no partially-initialized response is ever shared.
type builder struct {
	character *lodestone.Character

	achievements       *Achievements
	achievementsPublic *bool

	friends       []lodestone.CharacterRef
	friendsPublic *bool

	freeCompany        *lodestone.FreeCompany
	freeCompanyMembers []lodestone.CharacterRef

	pvpTeam *lodestone.PvPTeam

	minions []lodestone.Collectable
	mounts  []lodestone.Collectable

	partial map[Section]bool
}

func newBuilder(character *lodestone.Character) *builder {
	return &builder{
		character: character,
		partial:   make(map[Section]bool),
	}
}

func (b *builder) setAchievements(public bool, summary *Achievements) {
	b.achievementsPublic = &public
	if public {
		b.achievements = summary
	}
}

func (b *builder) setFriends(public bool, friends []lodestone.CharacterRef, partial bool) {
	b.friendsPublic = &public
	if public {
		b.friends = friends
	}
	if partial {
		b.partial[SectionFriends] = true
	}
}

func (b *builder) setFreeCompany(fc *lodestone.FreeCompany) {
	b.freeCompany = fc
}

func (b *builder) setFreeCompanyMembers(members []lodestone.CharacterRef, partial bool) {
	b.freeCompanyMembers = members
	if partial {
		b.partial[SectionFreeCompanyMembers] = true
	}
}

func (b *builder) setPvPTeam(team *lodestone.PvPTeam) {
	b.pvpTeam = team
}

func (b *builder) setMinionsMounts(minions, mounts []lodestone.Collectable) {
	b.minions = minions
	b.mounts = mounts
}

func (b *builder) build() *Response {
	resp := &Response{
		Character:          b.character,
		Achievements:       b.achievements,
		AchievementsPublic: b.achievementsPublic,
		Friends:            b.friends,
		FriendsPublic:      b.friendsPublic,
		FreeCompany:        b.freeCompany,
		FreeCompanyMembers: b.freeCompanyMembers,
		PvPTeam:            b.pvpTeam,
		Minions:            b.minions,
		Mounts:             b.mounts,
	}

	for section := range b.partial {
		resp.PartialSections = append(resp.PartialSections, section)
	}
	sort.Slice(resp.PartialSections, func(i, j int) bool {
		return resp.PartialSections[i] < resp.PartialSections[j]
	})

	return resp
}
