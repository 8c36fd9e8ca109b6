package aggregate

import "strings"

// Section identifies one optional category of profile data.
type Section string

const (
	SectionAchievements       Section = "AC"
	SectionFriends            Section = "FR"
	SectionFreeCompany        Section = "FC"
	SectionFreeCompanyMembers Section = "FCM"
	SectionPvPTeam            Section = "PVP"
	SectionMinionsMounts      Section = "MIMO"
	SectionClassJobs          Section = "CJ"
)

// Sections is the closed set of section request flags derived from the
// caller's comma-separated list. Immutable once parsed.
type Sections struct {
	Achievements       bool
	Friends            bool
	FreeCompany        bool
	FreeCompanyMembers bool
	PvPTeam            bool
	MinionsMounts      bool
	ClassJobs          bool
}

// ParseSections derives the flag set from a comma-separated list of
// section codes. Matching is case-insensitive; unknown codes are ignored
// rather than mis-parsed.
func ParseSections(list string) Sections {
	var s Sections
	for _, code := range strings.Split(list, ",") {
		switch Section(strings.ToUpper(strings.TrimSpace(code))) {
		case SectionAchievements:
			s.Achievements = true
		case SectionFriends:
			s.Friends = true
		case SectionFreeCompany:
			s.FreeCompany = true
		case SectionFreeCompanyMembers:
			s.FreeCompanyMembers = true
		case SectionPvPTeam:
			s.PvPTeam = true
		case SectionMinionsMounts:
			s.MinionsMounts = true
		case SectionClassJobs:
			s.ClassJobs = true
		}
	}
	return s
}

// Any reports whether at least one optional section is requested.
func (s Sections) Any() bool {
	return s.Achievements || s.Friends || s.FreeCompany ||
		s.FreeCompanyMembers || s.PvPTeam || s.MinionsMounts || s.ClassJobs
}
