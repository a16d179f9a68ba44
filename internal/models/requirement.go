package models

// FrequencyBand 频段
type FrequencyBand string

const (
	BandVHF     FrequencyBand = "VHF"
	BandUHF     FrequencyBand = "UHF"
	Band800MHz  FrequencyBand = "800MHz"
	BandUnknown FrequencyBand = ""
)

// DeploymentRequirement is the structured requirement extracted from a
// free-form deployment description. Created once per quote request and
// never mutated afterwards.
type DeploymentRequirement struct {
	SiteCount         int           `json:"siteCount"`
	UsersPerSite      int           `json:"usersPerSite"`
	TotalUsers        int           `json:"totalUsers"`
	RequiresInterSite bool          `json:"requiresInterSite"`
	Industry          string        `json:"industry"`
	FrequencyBand     FrequencyBand `json:"frequencyBand"`
	// BudgetCeilingCents is nil when no budget is mentioned in the request.
	BudgetCeilingCents *int64 `json:"budgetCeilingCents,omitempty"`
}

// MultiSite reports whether this deployment spans more than one site.
func (r *DeploymentRequirement) MultiSite() bool {
	return r.SiteCount > 1
}
