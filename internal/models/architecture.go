package models

// Architecture is one of the five supported system topologies.
type Architecture string

const (
	ArchConventional       Architecture = "Conventional"
	ArchIPSiteConnect      Architecture = "IPSiteConnect"
	ArchCapacityPlus       Architecture = "CapacityPlus"
	ArchCapacityMax        Architecture = "CapacityMax"
	ArchLinkedCapacityPlus Architecture = "LinkedCapacityPlus"
)

// ArchitectureAttributes are the fixed capabilities of one topology.
// Static reference data, never mutated at runtime.
type ArchitectureAttributes struct {
	Architecture     Architecture `json:"architecture"`
	MaxUsers         int          `json:"maxUsers"`
	MaxSites         int          `json:"maxSites"`
	RequiresRepeater bool         `json:"requiresRepeater"`
	// ComplexityLevel 1-5, drives installation hours.
	ComplexityLevel int     `json:"complexityLevel"`
	CostMultiplier  float64 `json:"costMultiplier"`
}
