// Package pricing aggregates equipment, accessory, installation-labor and
// licensing costs into a QuoteTotal. Pure and side-effect free: all rates
// come from configuration and monetary math is integer cents, so identical
// inputs produce bit-identical totals.
package pricing

import (
	"math"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

type Calculator struct {
	rates config.PricingRates
}

func NewCalculator(rates config.PricingRates) *Calculator {
	return &Calculator{rates: rates}
}

// RepeaterQuantity is 1 plus one additional unit per UsersPerRepeater users
// beyond the first block, capped by the architecture: MaxSites for
// multi-site systems, the single-site trunked cap otherwise. Architectures
// that need no repeater get zero.
func (c *Calculator) RepeaterQuantity(totalUsers int, arch models.ArchitectureAttributes) int {
	if !arch.RequiresRepeater {
		return 0
	}
	qty := 1
	if c.rates.UsersPerRepeater > 0 && totalUsers > 0 {
		qty = 1 + (totalUsers-1)/c.rates.UsersPerRepeater
	}
	limit := c.rates.SingleSiteRepeaterCap
	if arch.MaxSites > 1 {
		limit = arch.MaxSites
	}
	if limit > 0 && qty > limit {
		qty = limit
	}
	return qty
}

// AccessoryQuantity derives per-subcategory quantities from the user count:
// batteries carry spares, chargers are shared multi-unit bases, antennas and
// carrying gear are one per user, audio accessories cover a fraction of
// users.
func (c *Calculator) AccessoryQuantity(subcategory string, totalUsers int) int {
	switch subcategory {
	case models.SubcategoryBattery:
		return int(math.Ceil(float64(totalUsers) * c.rates.BatterySpareFactor))
	case models.SubcategoryCharger:
		if c.rates.UsersPerCharger <= 0 {
			return totalUsers
		}
		return int(math.Ceil(float64(totalUsers) / float64(c.rates.UsersPerCharger)))
	case models.SubcategoryAntenna, models.SubcategoryCarrying:
		return totalUsers
	case models.SubcategoryAudio:
		return int(math.Ceil(float64(totalUsers) * c.rates.AudioAccessoryFactor))
	default:
		return 0
	}
}

// Calculate aggregates the equipment set into a QuoteTotal.
func (c *Calculator) Calculate(req models.DeploymentRequirement, equipment models.EquipmentSet) models.QuoteTotal {
	var total models.QuoteTotal

	repeaterCount := 0
	for _, line := range equipment.Repeaters {
		total.RepeaterCostCents += line.Product.PriceCents * int64(line.Quantity)
		repeaterCount += line.Quantity
	}

	radioCount := 0
	for _, line := range equipment.Radios {
		total.RadioCostCents += line.Product.PriceCents * int64(line.Quantity)
		radioCount += line.Quantity
	}

	for _, line := range equipment.Accessories {
		total.AccessoryCostCents += line.Product.PriceCents * int64(line.Quantity)
	}

	installHours := c.rates.RepeaterInstallHours*float64(repeaterCount) +
		c.rates.RadioInstallHours*float64(radioCount) +
		c.rates.SystemSetupHours
	total.InstallationCostCents = roundCents(installHours * float64(c.rates.LaborRateCents))

	total.LicensingCostCents = c.rates.LicensingFeeCents

	total.SubtotalCents = total.RepeaterCostCents + total.RadioCostCents +
		total.AccessoryCostCents + total.InstallationCostCents + total.LicensingCostCents
	total.TaxCents = roundCents(float64(total.SubtotalCents) * c.rates.TaxRate)
	total.TotalCents = total.SubtotalCents + total.TaxCents

	if req.TotalUsers > 0 {
		total.PricePerUserCents = total.TotalCents / int64(req.TotalUsers)
	}

	return total
}

// CostBasis sums the dealer cost of the equipment set, the input to the
// margin-floor check.
func (c *Calculator) CostBasis(equipment models.EquipmentSet) int64 {
	var basis int64
	for _, group := range [][]models.EquipmentLine{equipment.Repeaters, equipment.Radios, equipment.Accessories} {
		for _, line := range group {
			basis += line.Product.CostCents * int64(line.Quantity)
		}
	}
	return basis
}

func roundCents(v float64) int64 {
	return int64(math.Round(v))
}
