package models

import (
	"errors"
	"fmt"
)

// ErrInvalidRequirement marks an unparseable requirement or an explicit
// zero/negative count. Fatal: reject before pricing.
var ErrInvalidRequirement = errors.New("invalid deployment requirement")

// InvalidRequirementError wraps ErrInvalidRequirement with the field that
// failed extraction.
type InvalidRequirementError struct {
	Field  string
	Value  int
	Detail string
}

func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("invalid requirement: %s=%d (%s)", e.Field, e.Value, e.Detail)
}

func (e *InvalidRequirementError) Unwrap() error { return ErrInvalidRequirement }

// UnreasonableRequestError short-circuits the whole pipeline when a count
// exceeds the configured sanity ceiling. The caller redirects the user to
// the manual sales process.
type UnreasonableRequestError struct {
	TotalUsers int
	Ceiling    int
}

func (e *UnreasonableRequestError) Error() string {
	return fmt.Sprintf("unreasonable request: %d users exceeds sanity ceiling %d", e.TotalUsers, e.Ceiling)
}

// CompatibilityGapError marks a needed accessory subcategory with no rule
// table entry for the chosen model family. Non-fatal: surfaced as "no
// recommendation available", never a guess.
type CompatibilityGapError struct {
	ModelFamily ModelFamily
	Subcategory string
}

func (e *CompatibilityGapError) Error() string {
	return fmt.Sprintf("no compatibility rule for family %s subcategory %s", e.ModelFamily, e.Subcategory)
}

// ExternalServiceError marks a catalog/pricing collaborator failure after
// fallback options are exhausted.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// ValidationFailedError carries the full violation list when the safety
// validator rejects an assembled quote. Never silently downgraded.
type ValidationFailedError struct {
	Result ValidationResult
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("quote failed safety validation: %d critical violation(s)", len(e.Result.Errors))
}
