// Package architecture holds the static topology reference table and the
// capacity-threshold decision table that maps a deployment requirement to
// one system architecture.
package architecture

import (
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// attributes is static reference data, never mutated at runtime.
var attributes = map[models.Architecture]models.ArchitectureAttributes{
	models.ArchConventional: {
		Architecture:     models.ArchConventional,
		MaxUsers:         50,
		MaxSites:         1,
		RequiresRepeater: false,
		ComplexityLevel:  1,
		CostMultiplier:   1.0,
	},
	models.ArchIPSiteConnect: {
		Architecture:     models.ArchIPSiteConnect,
		MaxUsers:         250,
		MaxSites:         15,
		RequiresRepeater: true,
		ComplexityLevel:  2,
		CostMultiplier:   1.25,
	},
	models.ArchCapacityPlus: {
		Architecture:     models.ArchCapacityPlus,
		MaxUsers:         500,
		MaxSites:         1,
		RequiresRepeater: true,
		ComplexityLevel:  3,
		CostMultiplier:   1.5,
	},
	models.ArchLinkedCapacityPlus: {
		Architecture:     models.ArchLinkedCapacityPlus,
		MaxUsers:         1500,
		MaxSites:         15,
		RequiresRepeater: true,
		ComplexityLevel:  4,
		CostMultiplier:   1.75,
	},
	models.ArchCapacityMax: {
		Architecture:     models.ArchCapacityMax,
		MaxUsers:         10000,
		MaxSites:         250,
		RequiresRepeater: true,
		ComplexityLevel:  5,
		CostMultiplier:   2.5,
	},
}

// Attributes returns the fixed capability record for one architecture.
func Attributes(arch models.Architecture) (models.ArchitectureAttributes, bool) {
	a, ok := attributes[arch]
	return a, ok
}

// All returns the reference table in a stable order.
func All() []models.ArchitectureAttributes {
	return []models.ArchitectureAttributes{
		attributes[models.ArchConventional],
		attributes[models.ArchIPSiteConnect],
		attributes[models.ArchCapacityPlus],
		attributes[models.ArchLinkedCapacityPlus],
		attributes[models.ArchCapacityMax],
	}
}

// MultiSiteCapable reports whether the architecture can span more than one
// site.
func MultiSiteCapable(arch models.Architecture) bool {
	a, ok := attributes[arch]
	return ok && a.MaxSites > 1
}

// Select maps a user count and multi-site flag to one architecture.
// Pure decision table, evaluated top-down. The safety validator calls this
// again to re-derive the expected architecture and flag mismatches.
func Select(totalUsers int, multiSite bool) models.Architecture {
	if !multiSite {
		switch {
		case totalUsers <= 50:
			return models.ArchConventional
		case totalUsers <= 500:
			return models.ArchCapacityPlus
		default:
			return models.ArchCapacityMax
		}
	}
	switch {
	case totalUsers <= 250:
		return models.ArchIPSiteConnect
	case totalUsers <= 1500:
		return models.ArchLinkedCapacityPlus
	default:
		return models.ArchCapacityMax
	}
}
