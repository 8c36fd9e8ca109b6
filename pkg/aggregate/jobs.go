package aggregate

import (
	"strings"

	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
)

// classNameJobIDs maps the class-name token of a main-hand gear category
// to the job ID reported in a character's class/job listing. Base classes
// map to the job they promote into, matching how the listing folds them.
var classNameJobIDs = map[string]int{
	// Disciples of War/Magic
	"Gladiator":   19, // Paladin
	"Pugilist":    20, // Monk
	"Marauder":    21, // Warrior
	"Lancer":      22, // Dragoon
	"Archer":      23, // Bard
	"Conjurer":    24, // White Mage
	"Thaumaturge": 25, // Black Mage
	"Arcanist":    27, // Summoner
	"Scholar":     28,
	"Rogue":       30, // Ninja
	"Machinist":   31,
	"Dark Knight": 32,
	"Astrologian": 33,
	"Samurai":     34,
	"Red Mage":    35,
	"Blue Mage":   36,
	"Gunbreaker":  37,
	"Dancer":      38,
	"Reaper":      39,
	"Sage":        40,
	"Viper":       41,
	"Pictomancer": 42,

	// Disciples of the Hand/Land
	"Carpenter":     8,
	"Blacksmith":    9,
	"Armorer":       10,
	"Goldsmith":     11,
	"Leatherworker": 12,
	"Weaver":        13,
	"Alchemist":     14,
	"Culinarian":    15,
	"Miner":         16,
	"Botanist":      17,
	"Fisher":        18,
}

// jobIDForCategory resolves a category token to a job ID. Exact match
// first; otherwise a substring scan handles decorated tokens such as
// "Two-handed Thaumaturge".
func jobIDForCategory(token string) (int, bool) {
	if id, ok := classNameJobIDs[token]; ok {
		return id, true
	}
	for name, id := range classNameJobIDs {
		if strings.Contains(token, name) {
			return id, true
		}
	}
	return 0, false
}

// ResolveActiveJob derives the character's currently active class/job
// from the equipped main-hand gear category. The result is a copy of the
// matching class/job entry, so later mutation of the listing cannot
// retroactively change it. Any miss (no main hand, unknown category,
// empty listing) yields nil; resolution is best-effort and never fails
// the request.
func ResolveActiveJob(character *lodestone.Character) *lodestone.ClassJob {
	mainHand, ok := character.GearSet.Gear["MainHand"]
	if !ok || mainHand.Category == "" {
		return nil
	}

	token := strings.TrimSpace(strings.SplitN(mainHand.Category, "'", 2)[0])
	jobID, ok := jobIDForCategory(token)
	if !ok {
		return nil
	}

	for i := range character.ClassJobs {
		if character.ClassJobs[i].JobID == jobID {
			active := character.ClassJobs[i]
			return &active
		}
	}
	return nil
}
