package models

// CompatibilityType classifies how strongly a candidate should be paired
// with a chosen radio or repeater.
type CompatibilityType string

const (
	CompatRequired     CompatibilityType = "Required"
	CompatRecommended  CompatibilityType = "Recommended"
	CompatOptional     CompatibilityType = "Optional"
	CompatIncompatible CompatibilityType = "Incompatible"
)

// Well-known incompatibility reasons.
const (
	ReasonFrequencyBandMismatch = "frequency_band_mismatch"
	ReasonArchIncompatible      = "system_architecture_incompatible"
)

// CompatibilityEdge is a derived pairing between a primary product and a
// candidate. Recomputed deterministically from product attributes and the
// rule tables; the resolver attaches no timestamps so results are cache-safe.
type CompatibilityEdge struct {
	PrimaryProductID      string            `json:"primaryProductId"`
	CompatibleProductID   string            `json:"compatibleProductId"`
	Type                  CompatibilityType `json:"type"`
	Reason                string            `json:"reason"`
	InstallationNotes     string            `json:"installationNotes,omitempty"`
	ConfigurationRequired bool              `json:"configurationRequired"`
}
