package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xivtools/lodestone-aggregator/pkg/lodestone"
)

func characterWithMainHand(category string, jobs ...lodestone.ClassJob) *lodestone.Character {
	return &lodestone.Character{
		GearSet: lodestone.GearSet{
			Gear: map[string]lodestone.GearItem{
				"MainHand": {ID: "abc123", Category: category},
			},
		},
		ClassJobs: jobs,
	}
}

func TestResolveActiveJob(t *testing.T) {
	gladiator := lodestone.ClassJob{ClassID: 1, JobID: 19, Name: "Gladiator / Paladin", Level: 90}
	blackMage := lodestone.ClassJob{ClassID: 7, JobID: 25, Name: "Thaumaturge / Black Mage", Level: 80}

	tests := []struct {
		name     string
		category string
		jobs     []lodestone.ClassJob
		expected *lodestone.ClassJob
	}{
		{
			name:     "exact_class_name",
			category: "Gladiator's Arm",
			jobs:     []lodestone.ClassJob{blackMage, gladiator},
			expected: &gladiator,
		},
		{
			name:     "decorated_token",
			category: "Two-handed Thaumaturge's Arm",
			jobs:     []lodestone.ClassJob{blackMage, gladiator},
			expected: &blackMage,
		},
		{
			name:     "unknown_category",
			category: "Souvenir Fishing Rod of Legend",
			jobs:     []lodestone.ClassJob{gladiator},
			expected: nil,
		},
		{
			name:     "no_matching_listing_entry",
			category: "Sage's Arm",
			jobs:     []lodestone.ClassJob{gladiator},
			expected: nil,
		},
		{
			name:     "empty_listing",
			category: "Gladiator's Arm",
			jobs:     nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			char := characterWithMainHand(tt.category, tt.jobs...)
			got := ResolveActiveJob(char)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestResolveActiveJob_NoMainHand(t *testing.T) {
	char := &lodestone.Character{
		GearSet:   lodestone.GearSet{Gear: map[string]lodestone.GearItem{}},
		ClassJobs: []lodestone.ClassJob{{JobID: 19}},
	}
	assert.Nil(t, ResolveActiveJob(char))
}

func TestResolveActiveJob_ReturnsCopy(t *testing.T) {
	job := lodestone.ClassJob{ClassID: 1, JobID: 19, Level: 90}
	char := characterWithMainHand("Gladiator's Arm", job)

	active := ResolveActiveJob(char)
	require.NotNil(t, active)

	// Mutating the listing afterwards must not change the derived value.
	char.ClassJobs[0].Level = 1
	assert.Equal(t, 90, active.Level)
}

func TestJobIDForCategory(t *testing.T) {
	tests := []struct {
		token    string
		expected int
		ok       bool
	}{
		{"Gladiator", 19, true},
		{"Two-handed Conjurer", 24, true},
		{"One-handed Thaumaturge", 25, true},
		{"Dark Knight", 32, true},
		{"Pictomancer", 42, true},
		{"Fisher", 18, true},
		{"Completely Unknown", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			id, ok := jobIDForCategory(tt.token)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, id)
			}
		})
	}
}
