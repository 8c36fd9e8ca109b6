package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSections(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Sections
	}{
		{
			name:     "empty",
			input:    "",
			expected: Sections{},
		},
		{
			name:     "single",
			input:    "FC",
			expected: Sections{FreeCompany: true},
		},
		{
			name:  "all",
			input: "AC,FR,FC,FCM,PVP,MIMO,CJ",
			expected: Sections{
				Achievements:       true,
				Friends:            true,
				FreeCompany:        true,
				FreeCompanyMembers: true,
				PvPTeam:            true,
				MinionsMounts:      true,
				ClassJobs:          true,
			},
		},
		{
			name:     "case_insensitive",
			input:    "ac,mimo",
			expected: Sections{Achievements: true, MinionsMounts: true},
		},
		{
			name:     "whitespace",
			input:    " AC , FR ",
			expected: Sections{Achievements: true, Friends: true},
		},
		{
			name:     "unknown_tags_ignored",
			input:    "AC,BOGUS,XYZ",
			expected: Sections{Achievements: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSections(tt.input))
		})
	}
}

func TestSections_Any(t *testing.T) {
	assert.False(t, Sections{}.Any())
	assert.True(t, Sections{PvPTeam: true}.Any())
	assert.True(t, ParseSections("MIMO").Any())
	assert.False(t, ParseSections("BOGUS").Any())
}
