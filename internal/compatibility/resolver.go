package compatibility

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// bandSensitive subcategories must share the primary product's frequency
// band. Repeaters are band-sensitive as a whole category.
var bandSensitive = map[string]bool{
	models.SubcategoryAntenna: true,
}

type Resolver struct {
	rules  *RuleTable
	logger *zap.Logger
}

func NewResolver(rules *RuleTable, logger *zap.Logger) *Resolver {
	return &Resolver{
		rules:  rules,
		logger: logger,
	}
}

// Resolve evaluates every candidate against the primary product and returns
// the compatibility edges plus any rule-table gaps encountered. Candidates
// are evaluated in SKU order so the result is identical regardless of input
// ordering, and the resolver attaches no timestamps, so calling it twice on
// the same inputs yields byte-identical edges.
func (r *Resolver) Resolve(primary models.Product, candidates []models.Product) ([]models.CompatibilityEdge, []models.CompatibilityGapError) {
	sorted := make([]models.Product, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].SKU < sorted[j].SKU })

	var edges []models.CompatibilityEdge
	var gaps []models.CompatibilityGapError
	seenGap := map[string]bool{}

	for _, candidate := range sorted {
		if candidate.ID == primary.ID {
			continue
		}
		switch candidate.Category {
		case models.CategoryRepeater, models.CategoryRadio:
			if edge, ok := r.resolveSystemPair(primary, candidate); ok {
				edges = append(edges, edge)
			}
		case models.CategoryAccessory:
			edge, gap, ok := r.resolveAccessory(primary, candidate)
			if gap != nil {
				key := string(gap.ModelFamily) + "/" + gap.Subcategory
				if !seenGap[key] {
					seenGap[key] = true
					gaps = append(gaps, *gap)
				}
				continue
			}
			if ok {
				edges = append(edges, edge)
			}
		}
	}

	return edges, gaps
}

// resolveSystemPair checks radio<->repeater pairing: both sides must share
// at least one supported architecture, and repeaters must match the
// primary's frequency band.
func (r *Resolver) resolveSystemPair(primary, candidate models.Product) (models.CompatibilityEdge, bool) {
	if primary.Category == candidate.Category {
		// radio-to-radio / repeater-to-repeater pairs carry no edge
		return models.CompatibilityEdge{}, false
	}

	if bandMismatch(primary.FrequencyBand, candidate.FrequencyBand) {
		return models.CompatibilityEdge{
			PrimaryProductID:    primary.ID,
			CompatibleProductID: candidate.ID,
			Type:                models.CompatIncompatible,
			Reason:              models.ReasonFrequencyBandMismatch,
		}, true
	}

	if !architecturesIntersect(primary.SupportedArchitectures, candidate.SupportedArchitectures) {
		return models.CompatibilityEdge{
			PrimaryProductID:    primary.ID,
			CompatibleProductID: candidate.ID,
			Type:                models.CompatIncompatible,
			Reason:              models.ReasonArchIncompatible,
		}, true
	}

	return models.CompatibilityEdge{
		PrimaryProductID:      primary.ID,
		CompatibleProductID:   candidate.ID,
		Type:                  models.CompatRequired,
		Reason:                "shared_system_architecture",
		ConfigurationRequired: true,
		InstallationNotes:     "Provision repeater and subscriber on the same system profile",
	}, true
}

// resolveAccessory applies the band check then the family rule table.
// A family or subcategory with no table entry is a gap: the accessory is
// reported as having no recommendation rather than guessed at.
func (r *Resolver) resolveAccessory(primary, candidate models.Product) (models.CompatibilityEdge, *models.CompatibilityGapError, bool) {
	if bandSensitive[candidate.Subcategory] && bandMismatch(primary.FrequencyBand, candidate.FrequencyBand) {
		return models.CompatibilityEdge{
			PrimaryProductID:    primary.ID,
			CompatibleProductID: candidate.ID,
			Type:                models.CompatIncompatible,
			Reason:              models.ReasonFrequencyBandMismatch,
		}, nil, true
	}

	rule, ok := r.rules.FamilyRule(primary.ModelFamily, candidate.Subcategory)
	if !ok {
		r.logger.Debug("No compatibility rule entry",
			zap.String("model_family", string(primary.ModelFamily)),
			zap.String("subcategory", candidate.Subcategory),
		)
		return models.CompatibilityEdge{}, &models.CompatibilityGapError{
			ModelFamily: primary.ModelFamily,
			Subcategory: candidate.Subcategory,
		}, false
	}

	for _, sku := range rule.SKUs {
		if sku == candidate.SKU {
			return models.CompatibilityEdge{
				PrimaryProductID:      primary.ID,
				CompatibleProductID:   candidate.ID,
				Type:                  rule.Type,
				Reason:                rule.Reason,
				InstallationNotes:     rule.InstallationNotes,
				ConfigurationRequired: rule.ConfigurationRequired,
			}, nil, true
		}
	}

	// SKU not in the accepted set: not compatible, no edge emitted.
	return models.CompatibilityEdge{}, nil, false
}

func bandMismatch(a, b models.FrequencyBand) bool {
	return a != models.BandUnknown && b != models.BandUnknown && a != b
}

func architecturesIntersect(a, b []models.Architecture) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// GapMessage is the user-facing phrasing for a rule-table gap.
func GapMessage(gap models.CompatibilityGapError) string {
	return fmt.Sprintf("no recommendation available for %s accessories on the %s family", gap.Subcategory, gap.ModelFamily)
}
