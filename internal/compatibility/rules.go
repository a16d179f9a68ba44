// Package compatibility computes typed pairing edges between a primary
// radio/repeater and candidate products. Rules are declarative tables keyed
// by model family and subcategory; a missing entry is an explicit gap,
// never a silent fallback.
package compatibility

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// AccessoryRule declares which candidate SKUs pair with one model family in
// one accessory subcategory.
type AccessoryRule struct {
	Type                  models.CompatibilityType `yaml:"type"`
	SKUs                  []string                 `yaml:"skus"`
	Reason                string                   `yaml:"reason"`
	InstallationNotes     string                   `yaml:"installationNotes"`
	ConfigurationRequired bool                     `yaml:"configurationRequired"`
}

// RuleTable maps model family -> subcategory -> accessory rule.
type RuleTable struct {
	Families map[models.ModelFamily]map[string]AccessoryRule `yaml:"families"`
}

// FamilyRule returns the rule for one family/subcategory pair. The second
// return distinguishes "family unknown" and "subcategory not covered" from
// a present rule.
func (t *RuleTable) FamilyRule(family models.ModelFamily, subcategory string) (AccessoryRule, bool) {
	subs, ok := t.Families[family]
	if !ok {
		return AccessoryRule{}, false
	}
	rule, ok := subs[subcategory]
	return rule, ok
}

// LoadRuleTable reads a YAML rule file. An empty path returns the
// compiled-in default table.
func LoadRuleTable(path string) (*RuleTable, error) {
	if path == "" {
		return DefaultRuleTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	var table RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse rule file: %w", err)
	}
	if len(table.Families) == 0 {
		return nil, fmt.Errorf("rule file %s declares no families", path)
	}
	return &table, nil
}

// DefaultRuleTable is the compiled-in accessory pairing table for the
// supported portable families.
func DefaultRuleTable() *RuleTable {
	return &RuleTable{
		Families: map[models.ModelFamily]map[string]AccessoryRule{
			models.FamilyR2: {
				models.SubcategoryBattery: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMNN4598", "PMNN4600"},
					Reason: "factory_battery_for_r2",
				},
				models.SubcategoryCharger: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMPN4573", "PMPN4579"},
					Reason: "r2_charge_base",
				},
				models.SubcategoryAudio: {
					Type:   models.CompatRecommended,
					SKUs:   []string{"PMMN4125", "PMLN8298"},
					Reason: "r2_audio_connector",
				},
				models.SubcategoryAntenna: {
					Type:                  models.CompatRecommended,
					SKUs:                  []string{"PMAE4069", "PMAD4116"},
					Reason:                "r2_antenna_mount",
					ConfigurationRequired: false,
				},
				models.SubcategoryCarrying: {
					Type:   models.CompatOptional,
					SKUs:   []string{"PMLN7901", "PMLN5870"},
					Reason: "r2_holster_fit",
				},
			},
			models.FamilyR7: {
				models.SubcategoryBattery: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMNN4807", "PMNN4808"},
					Reason: "factory_battery_for_r7",
				},
				models.SubcategoryCharger: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMPN4593", "PMPN4594"},
					Reason: "r7_charge_base",
				},
				models.SubcategoryAudio: {
					Type:                  models.CompatRecommended,
					SKUs:                  []string{"PMMN4140", "PMMN4145"},
					Reason:                "r7_audio_connector",
					ConfigurationRequired: true,
					InstallationNotes:     "Enable accessory profile in radio codeplug",
				},
				models.SubcategoryAntenna: {
					Type:   models.CompatRecommended,
					SKUs:   []string{"PMAE4079", "PMAD4147"},
					Reason: "r7_antenna_mount",
				},
				models.SubcategoryCarrying: {
					Type:   models.CompatOptional,
					SKUs:   []string{"PMLN8305"},
					Reason: "r7_holster_fit",
				},
			},
			models.FamilyCP100d: {
				models.SubcategoryBattery: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMNN4434", "PMNN4453"},
					Reason: "factory_battery_for_cp100d",
				},
				models.SubcategoryCharger: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMLN6394"},
					Reason: "cp100d_charge_base",
				},
				models.SubcategoryAudio: {
					Type:   models.CompatRecommended,
					SKUs:   []string{"PMMN4013"},
					Reason: "cp100d_audio_connector",
				},
				models.SubcategoryCarrying: {
					Type:   models.CompatOptional,
					SKUs:   []string{"PMLN5870"},
					Reason: "cp100d_holster_fit",
				},
			},
			models.FamilyXPR3000e: {
				models.SubcategoryBattery: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMNN4491", "PMNN4468"},
					Reason: "factory_battery_for_xpr3000e",
				},
				models.SubcategoryCharger: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMPN4527", "PMPN4528"},
					Reason: "xpr3000e_charge_base",
				},
				models.SubcategoryAudio: {
					Type:   models.CompatRecommended,
					SKUs:   []string{"PMMN4071", "PMLN7156"},
					Reason: "xpr3000e_audio_connector",
				},
				models.SubcategoryAntenna: {
					Type:   models.CompatRecommended,
					SKUs:   []string{"PMAE4076", "PMAD4120"},
					Reason: "xpr3000e_antenna_mount",
				},
				models.SubcategoryCarrying: {
					Type:   models.CompatOptional,
					SKUs:   []string{"PMLN5868"},
					Reason: "xpr3000e_holster_fit",
				},
			},
			models.FamilyXPR7000e: {
				models.SubcategoryBattery: {
					Type:   models.CompatRequired,
					SKUs:   []string{"PMNN4409", "PMNN4525"},
					Reason: "factory_battery_for_xpr7000e",
				},
				models.SubcategoryCharger: {
					Type:   models.CompatRequired,
					SKUs:   []string{"NNTN8860", "WPLN4232"},
					Reason: "xpr7000e_charge_base",
				},
				models.SubcategoryAudio: {
					Type:                  models.CompatRecommended,
					SKUs:                  []string{"RMN5052", "PMMN4069"},
					Reason:                "xpr7000e_audio_connector",
					ConfigurationRequired: true,
					InstallationNotes:     "IMPRES audio requires accessory detection enabled",
				},
				models.SubcategoryAntenna: {
					Type:   models.CompatRecommended,
					SKUs:   []string{"PMAE4079", "NAD6502"},
					Reason: "xpr7000e_antenna_mount",
				},
				models.SubcategoryCarrying: {
					Type:   models.CompatOptional,
					SKUs:   []string{"PMLN7008"},
					Reason: "xpr7000e_holster_fit",
				},
			},
		},
	}
}
