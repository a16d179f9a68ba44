// Package validator is the safety gate in front of the customer. It
// re-checks requirements and assembled quotes against the configured
// business-risk thresholds. Every rule runs on every call; violations
// accumulate and never short-circuit each other, and any CRITICAL entry
// forces the quote to be withheld.
package validator

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/architecture"
	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

// Rule names used in violations and audit records.
const (
	RuleMaxTotalUsers    = "max_total_users"
	RuleInvalidUserCount = "invalid_user_count"
	RuleMaxQuoteTotal    = "max_quote_total"
	RulePricePerUserBand = "price_per_user_band"
	RuleMarginFloor      = "margin_floor"
	RuleArchConsistency  = "architecture_consistency"
	RuleBudgetCeiling    = "budget_ceiling"
	RuleExternalPricing  = "external_pricing_unavailable"
)

type Validator struct {
	limits config.SafetyLimits
	logger *zap.Logger
}

func NewValidator(limits config.SafetyLimits, logger *zap.Logger) *Validator {
	return &Validator{
		limits: limits,
		logger: logger,
	}
}

func newResult() models.ValidationResult {
	return models.ValidationResult{
		IsValid: true,
		AuditID: uuid.New().String(),
	}
}

// PreValidate runs the requirement-only rules before any equipment or
// pricing work happens.
func (v *Validator) PreValidate(req models.DeploymentRequirement) models.ValidationResult {
	result := newResult()
	v.checkUserCount(req, &result)
	v.logOutcome("pre-validation", req, result)
	return result
}

// PostValidate re-checks the assembled quote. costBasisCents is the dealer
// cost of the equipment, the denominator-side input of the margin rule.
func (v *Validator) PostValidate(req models.DeploymentRequirement, arch models.ArchitectureAttributes, quote models.QuoteTotal, costBasisCents int64) models.ValidationResult {
	result := newResult()

	v.checkUserCount(req, &result)
	v.checkQuoteTotal(quote, &result)
	v.checkPricePerUser(quote, &result)
	v.checkMargin(quote, costBasisCents, &result)
	v.checkArchitecture(req, arch, &result)
	v.checkBudget(req, quote, &result)

	v.logOutcome("post-validation", req, result)
	return result
}

// AddExternalPricingFailure records that no live or cached price was
// available. The pipeline must never fabricate a price, so this is CRITICAL.
func (v *Validator) AddExternalPricingFailure(result *models.ValidationResult, service string) {
	result.AddViolation(models.Violation{
		Rule:     RuleExternalPricing,
		Message:  fmt.Sprintf("pricing service %s unavailable and no cached pricing exists", service),
		Severity: models.SeverityCritical,
		Context:  map[string]any{"service": service},
	})
}

func (v *Validator) checkUserCount(req models.DeploymentRequirement, result *models.ValidationResult) {
	if req.TotalUsers < 1 {
		result.AddViolation(models.Violation{
			Rule:     RuleInvalidUserCount,
			Message:  fmt.Sprintf("total user count %d is not a valid deployment size", req.TotalUsers),
			Severity: models.SeverityCritical,
			Context:  map[string]any{"totalUsers": req.TotalUsers},
		})
	}
	if req.TotalUsers > v.limits.MaxTotalUsers {
		result.AddViolation(models.Violation{
			Rule:     RuleMaxTotalUsers,
			Message:  fmt.Sprintf("total user count %d exceeds the absolute ceiling %d", req.TotalUsers, v.limits.MaxTotalUsers),
			Severity: models.SeverityCritical,
			Context:  map[string]any{"totalUsers": req.TotalUsers, "ceiling": v.limits.MaxTotalUsers},
		})
	}
}

func (v *Validator) checkQuoteTotal(quote models.QuoteTotal, result *models.ValidationResult) {
	if quote.TotalCents > v.limits.MaxQuoteTotalCents {
		result.AddViolation(models.Violation{
			Rule:     RuleMaxQuoteTotal,
			Message:  fmt.Sprintf("quote total %d cents exceeds the absolute ceiling %d cents", quote.TotalCents, v.limits.MaxQuoteTotalCents),
			Severity: models.SeverityCritical,
			Context:  map[string]any{"totalCents": quote.TotalCents, "ceilingCents": v.limits.MaxQuoteTotalCents},
		})
	}
}

func (v *Validator) checkPricePerUser(quote models.QuoteTotal, result *models.ValidationResult) {
	if quote.PricePerUserCents < v.limits.PricePerUserMinCents || quote.PricePerUserCents > v.limits.PricePerUserMaxCents {
		result.AddViolation(models.Violation{
			Rule: RulePricePerUserBand,
			Message: fmt.Sprintf("price per user %d cents is outside the reasonable band [%d, %d]",
				quote.PricePerUserCents, v.limits.PricePerUserMinCents, v.limits.PricePerUserMaxCents),
			Severity: models.SeverityHigh,
			Context: map[string]any{
				"pricePerUserCents": quote.PricePerUserCents,
				"minCents":          v.limits.PricePerUserMinCents,
				"maxCents":          v.limits.PricePerUserMaxCents,
			},
		})
	}
}

func (v *Validator) checkMargin(quote models.QuoteTotal, costBasisCents int64, result *models.ValidationResult) {
	if quote.TotalCents <= 0 {
		return
	}
	margin := float64(quote.TotalCents-costBasisCents) / float64(quote.TotalCents)
	if margin < v.limits.MarginFloor {
		result.AddViolation(models.Violation{
			Rule:     RuleMarginFloor,
			Message:  fmt.Sprintf("margin %.3f is below the floor %.3f", margin, v.limits.MarginFloor),
			Severity: models.SeverityHigh,
			Context:  map[string]any{"margin": margin, "floor": v.limits.MarginFloor, "costBasisCents": costBasisCents},
		})
	}
}

// checkArchitecture re-derives the expected architecture and flags both
// multi-site requests on single-site topologies and user counts above the
// assigned topology's capacity.
func (v *Validator) checkArchitecture(req models.DeploymentRequirement, arch models.ArchitectureAttributes, result *models.ValidationResult) {
	expected := architecture.Select(req.TotalUsers, req.MultiSite())

	if req.MultiSite() && !architecture.MultiSiteCapable(arch.Architecture) {
		result.AddViolation(models.Violation{
			Rule: RuleArchConsistency,
			Message: fmt.Sprintf("multi-site deployment (%d sites) assigned single-site architecture %s",
				req.SiteCount, arch.Architecture),
			Severity:       models.SeverityCritical,
			Context:        map[string]any{"siteCount": req.SiteCount, "assigned": string(arch.Architecture)},
			Recommendation: string(expected),
		})
	}

	if req.TotalUsers > arch.MaxUsers {
		result.AddViolation(models.Violation{
			Rule: RuleArchConsistency,
			Message: fmt.Sprintf("total user count %d exceeds %s capacity %d",
				req.TotalUsers, arch.Architecture, arch.MaxUsers),
			Severity:       models.SeverityCritical,
			Context:        map[string]any{"totalUsers": req.TotalUsers, "maxUsers": arch.MaxUsers, "assigned": string(arch.Architecture)},
			Recommendation: string(expected),
		})
	}
}

func (v *Validator) checkBudget(req models.DeploymentRequirement, quote models.QuoteTotal, result *models.ValidationResult) {
	if req.BudgetCeilingCents == nil {
		return
	}
	if quote.TotalCents > *req.BudgetCeilingCents {
		result.AddViolation(models.Violation{
			Rule: RuleBudgetCeiling,
			Message: fmt.Sprintf("quote total %d cents exceeds the customer's stated budget %d cents",
				quote.TotalCents, *req.BudgetCeilingCents),
			Severity: models.SeverityMedium,
			Context:  map[string]any{"totalCents": quote.TotalCents, "budgetCents": *req.BudgetCeilingCents},
		})
	}
}

func (v *Validator) logOutcome(phase string, req models.DeploymentRequirement, result models.ValidationResult) {
	if result.IsValid {
		v.logger.Debug("Validation passed",
			zap.String("phase", phase),
			zap.String("audit_id", result.AuditID),
			zap.Int("warnings", len(result.Warnings)),
		)
		return
	}
	v.logger.Warn("Validation rejected quote",
		zap.String("phase", phase),
		zap.String("audit_id", result.AuditID),
		zap.Int("total_users", req.TotalUsers),
		zap.Int("errors", len(result.Errors)),
		zap.Int("warnings", len(result.Warnings)),
	)
}
