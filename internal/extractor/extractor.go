// Package extractor turns a free-form deployment description into a
// structured DeploymentRequirement. Extraction never panics; unresolvable
// slots fall back to documented defaults, while explicit zero/negative
// counts and counts above the sanity ceiling are rejected with typed errors.
package extractor

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

const (
	defaultSiteCount    = 1
	defaultUsersPerSite = 25
)

type Extractor struct {
	limits config.SafetyLimits
	logger *zap.Logger
}

func NewExtractor(limits config.SafetyLimits, logger *zap.Logger) *Extractor {
	return &Extractor{
		limits: limits,
		logger: logger,
	}
}

// Extract parses the description into a DeploymentRequirement.
// Slot precedence, first match wins:
//  1. combined "<N> facilities ... <M> users" phrase (short-circuits 2-4)
//  2. site count from facility-noun patterns
//  3. users-per-site phrasings
//  4. generic user-count mention as per-site fallback
func (e *Extractor) Extract(text string) (*models.DeploymentRequirement, error) {
	text = strings.TrimSpace(text)

	siteCount := defaultSiteCount
	usersPerSite := 0
	siteFound := false
	usersFound := false

	if sites, users, ok := extractCombined(text); ok {
		siteCount, usersPerSite = sites, users
		siteFound, usersFound = true, true
		e.logger.Debug("Combined site/user pattern matched",
			zap.Int("site_count", sites),
			zap.Int("users_per_site", users),
		)
	} else {
		for _, s := range siteCountStrategies {
			if n, ok := s.extract(text); ok {
				siteCount = n
				siteFound = true
				e.logger.Debug("Site count extracted", zap.String("strategy", s.name), zap.Int("site_count", n))
				break
			}
		}
		for _, s := range usersPerSiteStrategies {
			if n, ok := s.extract(text); ok {
				usersPerSite = n
				usersFound = true
				e.logger.Debug("Users per site extracted", zap.String("strategy", s.name), zap.Int("users_per_site", n))
				break
			}
		}
		if !usersFound {
			if n, ok := genericUserCount.extract(text); ok {
				usersPerSite = n
				usersFound = true
				e.logger.Debug("Users per site from generic user count", zap.Int("users_per_site", n))
			}
		}
	}

	// Explicitly extracted zero/negative counts are rejected, never defaulted.
	if siteFound && siteCount <= 0 {
		return nil, &models.InvalidRequirementError{Field: "siteCount", Value: siteCount, Detail: "must be at least 1"}
	}
	if usersFound && usersPerSite <= 0 {
		return nil, &models.InvalidRequirementError{Field: "usersPerSite", Value: usersPerSite, Detail: "must be at least 1"}
	}
	if !usersFound {
		usersPerSite = defaultUsersPerSite
	}

	totalUsers := siteCount * usersPerSite
	if totalUsers > e.limits.MaxTotalUsers {
		return nil, &models.UnreasonableRequestError{TotalUsers: totalUsers, Ceiling: e.limits.MaxTotalUsers}
	}

	req := &models.DeploymentRequirement{
		SiteCount:         siteCount,
		UsersPerSite:      usersPerSite,
		TotalUsers:        totalUsers,
		RequiresInterSite: siteCount > 1 || hasInterSiteKeyword(text),
		Industry:          matchIndustry(text),
		FrequencyBand:     matchFrequencyBand(text),
	}
	if budget, ok := extractBudget(text); ok {
		req.BudgetCeilingCents = &budget
	}

	return req, nil
}

var (
	vhfPattern     = regexp.MustCompile(`(?i)\bvhf\b`)
	uhfPattern     = regexp.MustCompile(`(?i)\buhf\b`)
	band800Pattern = regexp.MustCompile(`(?i)\b800\s*mhz\b`)
)

// matchFrequencyBand defaults to UHF: indoor coverage dominates the customer
// base and UHF is the safe default for in-building deployments.
func matchFrequencyBand(text string) models.FrequencyBand {
	switch {
	case vhfPattern.MatchString(text):
		return models.BandVHF
	case band800Pattern.MatchString(text):
		return models.Band800MHz
	case uhfPattern.MatchString(text):
		return models.BandUHF
	default:
		return models.BandUHF
	}
}
