package lodestone

import "context"

// Client is the typed contract of the upstream Lodestone data source.
// Every method either returns typed data or fails with an error that wraps
// ErrNotFound, ErrPrivate, or a ResponseError for anything else.
type Client interface {
	// Character fetches the base profile of a character.
	Character(ctx context.Context, id uint32) (*Character, error)

	// ClassJobs fetches the full class/job listing of a character.
	ClassJobs(ctx context.Context, id uint32) (*ClassJobSet, error)

	// Achievements fetches the achievements of one kind category.
	// Kind 1 determines whether achievements are public at all.
	Achievements(ctx context.Context, id uint32, kind int) (*AchievementList, error)

	// Friends fetches one page of the character's friend list.
	Friends(ctx context.Context, id uint32, page int) (*Page[CharacterRef], error)

	// FreeCompany fetches a free company record.
	FreeCompany(ctx context.Context, id string) (*FreeCompany, error)

	// FreeCompanyMembers fetches one page of a free company's member list.
	FreeCompanyMembers(ctx context.Context, id string, page int) (*Page[CharacterRef], error)

	// PvPTeam fetches a PvP team record.
	PvPTeam(ctx context.Context, id string) (*PvPTeam, error)

	// Minions fetches the character's minions.
	Minions(ctx context.Context, id uint32) ([]Collectable, error)

	// Mounts fetches the character's mounts.
	Mounts(ctx context.Context, id uint32) ([]Collectable, error)

	// Search fetches one page of a character name search.
	Search(ctx context.Context, name, server string, page int) (*Page[CharacterRef], error)
}
