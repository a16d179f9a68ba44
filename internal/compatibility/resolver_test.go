package compatibility

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

func testRadio() models.Product {
	return models.Product{
		ID:            "radio-1",
		SKU:           "R7-UHF-01",
		Category:      models.CategoryRadio,
		ModelFamily:   models.FamilyR7,
		FrequencyBand: models.BandUHF,
		SupportedArchitectures: []models.Architecture{
			models.ArchConventional, models.ArchIPSiteConnect, models.ArchCapacityPlus,
		},
	}
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(DefaultRuleTable(), zap.NewNop())
}

func TestResolve_BatteryFromFamilyTable(t *testing.T) {
	r := newTestResolver(t)

	battery := models.Product{
		ID:          "acc-1",
		SKU:         "PMNN4807",
		Category:    models.CategoryAccessory,
		Subcategory: models.SubcategoryBattery,
	}

	edges, gaps := r.Resolve(testRadio(), []models.Product{battery})
	require.Empty(t, gaps)
	require.Len(t, edges, 1)
	assert.Equal(t, models.CompatRequired, edges[0].Type)
	assert.Equal(t, "factory_battery_for_r7", edges[0].Reason)
	assert.Equal(t, "acc-1", edges[0].CompatibleProductID)
}

func TestResolve_UnlistedSKUGetsNoEdge(t *testing.T) {
	r := newTestResolver(t)

	battery := models.Product{
		ID:          "acc-2",
		SKU:         "PMNN4491", // XPR3000e battery, not accepted for R7
		Category:    models.CategoryAccessory,
		Subcategory: models.SubcategoryBattery,
	}

	edges, gaps := r.Resolve(testRadio(), []models.Product{battery})
	assert.Empty(t, gaps, "a present rule with a non-matching SKU is not a gap")
	assert.Empty(t, edges, "unlisted SKU must not produce a silent fallback edge")
}

func TestResolve_MissingFamilyEntryIsGap(t *testing.T) {
	r := newTestResolver(t)

	radio := testRadio()
	radio.ModelFamily = models.FamilySLR5700 // no accessory table for repeater families

	battery := models.Product{
		ID:          "acc-3",
		SKU:         "PMNN4807",
		Category:    models.CategoryAccessory,
		Subcategory: models.SubcategoryBattery,
	}

	edges, gaps := r.Resolve(radio, []models.Product{battery})
	assert.Empty(t, edges)
	require.Len(t, gaps, 1)
	assert.Equal(t, models.FamilySLR5700, gaps[0].ModelFamily)
	assert.Equal(t, models.SubcategoryBattery, gaps[0].Subcategory)
}

func TestResolve_AntennaBandMismatch(t *testing.T) {
	r := newTestResolver(t)

	antenna := models.Product{
		ID:            "acc-4",
		SKU:           "PMAD4147",
		Category:      models.CategoryAccessory,
		Subcategory:   models.SubcategoryAntenna,
		FrequencyBand: models.BandVHF,
	}

	edges, gaps := r.Resolve(testRadio(), []models.Product{antenna})
	require.Empty(t, gaps)
	require.Len(t, edges, 1)
	assert.Equal(t, models.CompatIncompatible, edges[0].Type)
	assert.Equal(t, models.ReasonFrequencyBandMismatch, edges[0].Reason)
}

func TestResolve_RepeaterSharedArchitecture(t *testing.T) {
	r := newTestResolver(t)

	repeater := models.Product{
		ID:            "rep-1",
		SKU:           "SLR5700-UHF",
		Category:      models.CategoryRepeater,
		ModelFamily:   models.FamilySLR5700,
		FrequencyBand: models.BandUHF,
		SupportedArchitectures: []models.Architecture{
			models.ArchIPSiteConnect, models.ArchCapacityPlus,
		},
	}

	edges, _ := r.Resolve(testRadio(), []models.Product{repeater})
	require.Len(t, edges, 1)
	assert.Equal(t, models.CompatRequired, edges[0].Type)
	assert.Equal(t, "shared_system_architecture", edges[0].Reason)
	assert.True(t, edges[0].ConfigurationRequired)
}

func TestResolve_RepeaterNoSharedArchitecture(t *testing.T) {
	r := newTestResolver(t)

	repeater := models.Product{
		ID:                     "rep-2",
		SKU:                    "SLR8000-UHF",
		Category:               models.CategoryRepeater,
		FrequencyBand:          models.BandUHF,
		SupportedArchitectures: []models.Architecture{models.ArchCapacityMax},
	}

	edges, _ := r.Resolve(testRadio(), []models.Product{repeater})
	require.Len(t, edges, 1)
	assert.Equal(t, models.CompatIncompatible, edges[0].Type)
	assert.Equal(t, models.ReasonArchIncompatible, edges[0].Reason)
}

func TestResolve_RepeaterBandMismatchWins(t *testing.T) {
	r := newTestResolver(t)

	repeater := models.Product{
		ID:                     "rep-3",
		SKU:                    "SLR5700-VHF",
		Category:               models.CategoryRepeater,
		FrequencyBand:          models.BandVHF,
		SupportedArchitectures: []models.Architecture{models.ArchIPSiteConnect},
	}

	edges, _ := r.Resolve(testRadio(), []models.Product{repeater})
	require.Len(t, edges, 1)
	assert.Equal(t, models.ReasonFrequencyBandMismatch, edges[0].Reason)
}

// Resolution must be idempotent and independent of candidate ordering.
func TestResolve_DeterministicAcrossOrderings(t *testing.T) {
	r := newTestResolver(t)
	radio := testRadio()

	pool := []models.Product{
		{ID: "a1", SKU: "PMNN4807", Category: models.CategoryAccessory, Subcategory: models.SubcategoryBattery},
		{ID: "a2", SKU: "PMPN4593", Category: models.CategoryAccessory, Subcategory: models.SubcategoryCharger},
		{ID: "a3", SKU: "PMMN4140", Category: models.CategoryAccessory, Subcategory: models.SubcategoryAudio},
		{ID: "a4", SKU: "PMAE4079", Category: models.CategoryAccessory, Subcategory: models.SubcategoryAntenna, FrequencyBand: models.BandUHF},
	}
	reversed := []models.Product{pool[3], pool[2], pool[1], pool[0]}

	edges1, gaps1 := r.Resolve(radio, pool)
	edges2, gaps2 := r.Resolve(radio, reversed)
	edges3, gaps3 := r.Resolve(radio, pool)

	assert.True(t, reflect.DeepEqual(edges1, edges2), "edges must not depend on candidate order")
	assert.True(t, reflect.DeepEqual(edges1, edges3), "repeated calls must be byte-identical")
	assert.Equal(t, gaps1, gaps2)
	assert.Equal(t, gaps1, gaps3)
	require.Len(t, edges1, 4)
}

func TestResolve_PrimaryExcludedFromPool(t *testing.T) {
	r := newTestResolver(t)
	radio := testRadio()

	edges, gaps := r.Resolve(radio, []models.Product{radio})
	assert.Empty(t, edges)
	assert.Empty(t, gaps)
}

func TestLoadRuleTable_DefaultWhenUnset(t *testing.T) {
	table, err := LoadRuleTable("")
	require.NoError(t, err)

	rule, ok := table.FamilyRule(models.FamilyR7, models.SubcategoryBattery)
	require.True(t, ok)
	assert.Equal(t, models.CompatRequired, rule.Type)
	assert.Contains(t, rule.SKUs, "PMNN4807")
}

func TestLoadRuleTable_FromYAML(t *testing.T) {
	path := t.TempDir() + "/rules.yaml"
	content := `
families:
  R7:
    battery:
      type: Required
      skus: ["TEST-BATT-1"]
      reason: test_rule
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadRuleTable(path)
	require.NoError(t, err)

	rule, ok := table.FamilyRule(models.FamilyR7, models.SubcategoryBattery)
	require.True(t, ok)
	assert.Equal(t, []string{"TEST-BATT-1"}, rule.SKUs)
	assert.Equal(t, "test_rule", rule.Reason)
}
