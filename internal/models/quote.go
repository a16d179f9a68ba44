package models

// EquipmentLine is one product with a quantity on the quote.
type EquipmentLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	// RankNote is set by the recommendation adjuster when prior successful
	// quotes influenced this line's position.
	RankNote string `json:"rankNote,omitempty"`
}

// EquipmentSet is the selected hardware for one quote.
type EquipmentSet struct {
	Repeaters   []EquipmentLine `json:"repeaters"`
	Radios      []EquipmentLine `json:"radios"`
	Accessories []EquipmentLine `json:"accessories"`
}

// QuoteTotal is the deterministic price breakdown. All monetary fields are
// cents so identical inputs produce bit-identical totals.
type QuoteTotal struct {
	RepeaterCostCents     int64 `json:"repeaterCostCents"`
	RadioCostCents        int64 `json:"radioCostCents"`
	AccessoryCostCents    int64 `json:"accessoryCostCents"`
	InstallationCostCents int64 `json:"installationCostCents"`
	LicensingCostCents    int64 `json:"licensingCostCents"`
	SubtotalCents         int64 `json:"subtotalCents"`
	TaxCents              int64 `json:"taxCents"`
	TotalCents            int64 `json:"totalCents"`
	PricePerUserCents     int64 `json:"pricePerUserCents"`
}

// Quote is the assembled result handed to the presentation layer.
type Quote struct {
	QuoteID      string                 `json:"quoteId"`
	Requirement  DeploymentRequirement  `json:"requirement"`
	Architecture ArchitectureAttributes `json:"architecture"`
	Equipment    EquipmentSet           `json:"equipment"`
	Pricing      QuoteTotal             `json:"pricing"`
	Validation   ValidationResult       `json:"validation"`
	// Annotations carry non-binding notes from the recommendation adjuster.
	Annotations []string `json:"annotations,omitempty"`
}
