package models

// Product categories used by the quoting pipeline.
const (
	CategoryRadio     = "radio"
	CategoryRepeater  = "repeater"
	CategoryAccessory = "accessory"
)

// Accessory subcategories. Antennas and repeaters are band-sensitive.
const (
	SubcategoryBattery  = "battery"
	SubcategoryCharger  = "charger"
	SubcategoryAntenna  = "antenna"
	SubcategoryCarrying = "carrying"
	SubcategoryAudio    = "audio"
)

// Lifecycle statuses from the catalog store.
const (
	LifecycleActive       = "active"
	LifecycleEndOfLife    = "end_of_life"
	LifecycleDiscontinued = "discontinued"
)

// Product is a read-only catalog entity. The catalog store owns it; the
// pipeline never writes product rows.
type Product struct {
	ID              string        `json:"id"`
	SKU             string        `json:"sku"`
	Name            string        `json:"name"`
	Category        string        `json:"category"`
	Subcategory     string        `json:"subcategory"`
	ModelFamily     ModelFamily   `json:"modelFamily"`
	FrequencyBand   FrequencyBand `json:"frequencyBand"`
	PriceCents      int64         `json:"priceCents"`
	CostCents       int64         `json:"costCents"`
	InventoryQty    int           `json:"inventoryQty"`
	LifecycleStatus string        `json:"lifecycleStatus"`
	// SupportedArchitectures applies to radios and repeaters only.
	SupportedArchitectures []Architecture `json:"supportedArchitectures,omitempty"`
}

// ModelFamily identifies a radio/repeater product line. Compatibility rule
// tables are keyed by model family so a missing entry is an explicit
// CompatibilityGap, never a silent fallback.
type ModelFamily string

const (
	FamilyR2       ModelFamily = "R2"
	FamilyR7       ModelFamily = "R7"
	FamilyCP100d   ModelFamily = "CP100d"
	FamilyXPR3000e ModelFamily = "XPR3000e"
	FamilyXPR7000e ModelFamily = "XPR7000e"
	FamilySLR5700  ModelFamily = "SLR5700"
	FamilySLR8000  ModelFamily = "SLR8000"
)
