package architecture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

func TestSelect_DecisionTable(t *testing.T) {
	tests := []struct {
		name      string
		users     int
		multiSite bool
		want      models.Architecture
	}{
		{"single site tiny", 10, false, models.ArchConventional},
		{"single site at conventional boundary", 50, false, models.ArchConventional},
		{"single site just over conventional", 51, false, models.ArchCapacityPlus},
		{"single site at capacity plus boundary", 500, false, models.ArchCapacityPlus},
		{"single site large", 501, false, models.ArchCapacityMax},
		{"multi site small", 200, true, models.ArchIPSiteConnect},
		{"multi site at ipsc boundary", 250, true, models.ArchIPSiteConnect},
		{"multi site just over ipsc", 251, true, models.ArchLinkedCapacityPlus},
		{"multi site at lcp boundary", 1500, true, models.ArchLinkedCapacityPlus},
		{"multi site large", 1501, true, models.ArchCapacityMax},
		{"multi site 3000 users", 3000, true, models.ArchCapacityMax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.users, tt.multiSite))
		})
	}
}

// Increasing users while holding multiSite fixed must never decrease the
// capability tier (ComplexityLevel orders the five topologies).
func TestSelect_Monotonic(t *testing.T) {
	for _, multiSite := range []bool{false, true} {
		prevTier := 0
		for users := 1; users <= 4000; users++ {
			arch := Select(users, multiSite)
			attrs, ok := Attributes(arch)
			require.True(t, ok, "architecture %s missing from table", arch)
			require.GreaterOrEqual(t, attrs.ComplexityLevel, prevTier,
				"tier decreased at users=%d multiSite=%v", users, multiSite)
			prevTier = attrs.ComplexityLevel
		}
	}
}

func TestAttributes_TableComplete(t *testing.T) {
	all := All()
	require.Len(t, all, 5)

	for _, attrs := range all {
		assert.Greater(t, attrs.MaxUsers, 0, attrs.Architecture)
		assert.Greater(t, attrs.MaxSites, 0, attrs.Architecture)
		assert.Greater(t, attrs.CostMultiplier, 0.0, attrs.Architecture)
	}
}

func TestMultiSiteCapable(t *testing.T) {
	assert.False(t, MultiSiteCapable(models.ArchConventional))
	assert.False(t, MultiSiteCapable(models.ArchCapacityPlus))
	assert.True(t, MultiSiteCapable(models.ArchIPSiteConnect))
	assert.True(t, MultiSiteCapable(models.ArchLinkedCapacityPlus))
	assert.True(t, MultiSiteCapable(models.ArchCapacityMax))
}

// Selected architectures must be able to carry the user count that selected
// them, up to each tier's own boundary.
func TestSelect_CapacityConsistency(t *testing.T) {
	for users := 1; users <= 4000; users += 13 {
		for _, multiSite := range []bool{false, true} {
			arch := Select(users, multiSite)
			attrs, _ := Attributes(arch)
			assert.LessOrEqual(t, users, attrs.MaxUsers,
				"Select(%d, %v) = %s cannot carry its own users", users, multiSite, arch)
		}
	}
}
