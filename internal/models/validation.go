package models

// Severity of a validation rule violation.
type Severity string

const (
	// SeverityCritical blocks the quote from being presented.
	SeverityCritical Severity = "CRITICAL"
	// SeverityHigh warns but does not block.
	SeverityHigh Severity = "HIGH"
	// SeverityMedium is informational.
	SeverityMedium Severity = "MEDIUM"
)

// Violation is one failed validation rule.
type Violation struct {
	Rule     string         `json:"rule"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
	Context  map[string]any `json:"context,omitempty"`
	// Recommendation names the correct choice when the rule can derive one
	// (e.g. the architecture a multi-site request should have been given).
	Recommendation string `json:"recommendation,omitempty"`
}

// ValidationResult is created fresh per validation call. Any CRITICAL entry
// forces IsValid=false; HIGH/MEDIUM entries are advisory.
type ValidationResult struct {
	IsValid  bool        `json:"isValid"`
	Errors   []Violation `json:"errors"`
	Warnings []Violation `json:"warnings"`
	AuditID  string      `json:"auditId"`
}

// AddViolation routes the violation to errors or warnings and updates
// IsValid. CRITICAL entries always go to Errors.
func (v *ValidationResult) AddViolation(violation Violation) {
	if violation.Severity == SeverityCritical {
		v.Errors = append(v.Errors, violation)
		v.IsValid = false
		return
	}
	v.Warnings = append(v.Warnings, violation)
}
