// Package lodestone defines the typed contract of the upstream Lodestone
// data source, plus an HTTP client implementation that talks to a parser
// service exposing the same shapes as JSON.
package lodestone

import "encoding/json"

// Pagination describes the page position of a multi-page resource.
type Pagination struct {
	Page         int
	PageNext     *int
	PagePrev     *int
	PageTotal    int
	Results      int
	ResultsTotal int
}

// Page is one page of a paginated resource.
type Page[T any] struct {
	Results    []T
	Pagination Pagination
}

// ClassJob is one class/job entry of a character.
type ClassJob struct {
	ClassID       int
	JobID         int
	Name          string
	Level         int
	ExpLevel      int64
	ExpLevelMax   int64
	ExpLevelTogo  int64
	IsSpecialised bool
}

// ClassJobSet is the full class/job listing of a character, including the
// special progression tracks that are passed through opaquely.
type ClassJobSet struct {
	ClassJobs []ClassJob
	Elemental json.RawMessage
	Bozjan    json.RawMessage
}

// GearItem is one equipped item. Category carries the job-name token used
// for active job resolution (e.g. "Gladiator's Arm").
type GearItem struct {
	ID       string
	Category string
}

// GearSet is the currently equipped gear of a character, keyed by slot
// (MainHand, OffHand, Head, ...).
type GearSet struct {
	ClassID    int
	JobID      int
	Level      int
	Gear       map[string]GearItem
	Attributes json.RawMessage
}

// Character is the core biographical/game record of a character.
type Character struct {
	ID                 uint32
	Name               string
	Server             string
	DC                 string
	Avatar             string
	Portrait           string
	Bio                string
	Race               int
	Tribe              int
	Gender             int
	Town               int
	GuardianDeity      int
	GrandCompany       json.RawMessage
	FreeCompanyID      string
	PvPTeamID          string
	GearSet            GearSet
	ClassJobs          []ClassJob
	ClassJobsElemental json.RawMessage
	ClassJobsBozjan    json.RawMessage
	ActiveClassJob     *ClassJob
	ParseDate          int64
}

// Achievement is one unlocked achievement record.
type Achievement struct {
	ID                uint32
	Name              string
	Points            int
	ObtainedTimestamp int64
}

// AchievementList is the achievements of one kind category.
type AchievementList struct {
	Achievements []Achievement
}

// CharacterRef is a brief character reference as it appears in friend
// lists, free company member lists and search results.
type CharacterRef struct {
	ID       uint32
	Name     string
	Server   string
	Avatar   string
	Rank     string
	RankIcon string
}

// FreeCompany is a free company record.
type FreeCompany struct {
	ID                string
	Name              string
	Tag               string
	Slogan            string
	Server            string
	DC                string
	Formed            int64
	Rank              int
	ActiveMemberCount int
	GrandCompany      string
	Crest             []string
}

// PvPTeam is a PvP team record.
type PvPTeam struct {
	ID     string
	Name   string
	DC     string
	Formed int64
	Crest  []string
}

// Collectable is one minion or mount.
type Collectable struct {
	Name string
	Icon string
}
