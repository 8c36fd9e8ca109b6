package aggregate

import "github.com/xivtools/lodestone-aggregator/pkg/lodestone"

// CharacterConverter reshapes raw upstream profile fields into the public
// schema. Converters run on every request, after the mandatory fetch.
type CharacterConverter func(*lodestone.Character)

// CharacterExtender enriches the assembled profile with additional data.
// Extenders run only when the extended flag is set.
type CharacterExtender func(*lodestone.Character)

// AchievementsExtender enriches the achievements summary. Runs only when
// the extended flag is set and the section is public.
type AchievementsExtender func(*Achievements)
