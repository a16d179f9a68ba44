package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/models"
)

func testLimits() config.SafetyLimits {
	return config.SafetyLimits{MaxTotalUsers: 5000}
}

func newTestExtractor() *Extractor {
	return NewExtractor(testLimits(), zap.NewNop())
}

// ============================================
// Strategy tests in isolation
// ============================================

func TestCombinedPattern(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantSites int
		wantUsers int
		wantOK    bool
	}{
		{"hospitals with users each", "5 hospitals with 40 users each", 5, 40, true},
		{"warehouses and users", "3 warehouses that have 25 users", 3, 25, true},
		{"no facility count", "a warehouse with 30 users", 0, 0, false},
		{"no user count", "5 hospitals that need radios", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sites, users, ok := extractCombined(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantSites, sites)
				assert.Equal(t, tt.wantUsers, users)
			}
		})
	}
}

func TestSiteCountStrategies(t *testing.T) {
	strategy := siteCountStrategies[0]

	n, ok := strategy.extract("we operate 7 schools in the district")
	require.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = strategy.extract("4 locations around town")
	require.True(t, ok)
	assert.Equal(t, 4, n)

	_, ok = strategy.extract("one big warehouse")
	assert.False(t, ok)
}

func TestUsersPerSiteStrategies(t *testing.T) {
	tests := []struct {
		strategy string
		text     string
		want     int
	}{
		{"n_users_each", "40 users each", 40},
		{"each_location_has_n", "each location has about 30 radios", 30},
		{"n_users_per_site", "roughly 20 users per facility", 20},
		{"n_people_at_each", "15 staff at each site", 15},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			for _, s := range usersPerSiteStrategies {
				if s.name != tt.strategy {
					continue
				}
				n, ok := s.extract(tt.text)
				require.True(t, ok, "strategy %s should match %q", s.name, tt.text)
				assert.Equal(t, tt.want, n)
				return
			}
			t.Fatalf("strategy %s not registered", tt.strategy)
		})
	}
}

func TestIndustryMatching(t *testing.T) {
	assert.Equal(t, "Healthcare", matchIndustry("5 hospitals with 40 users each"))
	assert.Equal(t, "Education", matchIndustry("radios for our school campus"))
	assert.Equal(t, "Manufacturing", matchIndustry("a manufacturing plant"))
	assert.Equal(t, "General", matchIndustry("some radios please"))
}

func TestBudgetExtraction(t *testing.T) {
	cents, ok := extractBudget("our budget is $50,000 for this")
	require.True(t, ok)
	assert.Equal(t, int64(5000000), cents)

	cents, ok = extractBudget("around $1.5m available")
	require.True(t, ok)
	assert.Equal(t, int64(150000000), cents)

	_, ok = extractBudget("no money mentioned")
	assert.False(t, ok)
}

// ============================================
// Full extraction
// ============================================

func TestExtract_HospitalScenario(t *testing.T) {
	e := newTestExtractor()

	req, err := e.Extract("Create quote for 5 hospitals with 40 users each that need to communicate between locations")
	require.NoError(t, err)

	assert.Equal(t, 5, req.SiteCount)
	assert.Equal(t, 40, req.UsersPerSite)
	assert.Equal(t, 200, req.TotalUsers)
	assert.True(t, req.RequiresInterSite)
	assert.Equal(t, "Healthcare", req.Industry)
}

func TestExtract_SingleSiteGenericUserCount(t *testing.T) {
	e := newTestExtractor()

	req, err := e.Extract("We need radios for a warehouse with 30 users")
	require.NoError(t, err)

	assert.Equal(t, 1, req.SiteCount)
	assert.Equal(t, 30, req.UsersPerSite)
	assert.Equal(t, 30, req.TotalUsers)
	assert.False(t, req.RequiresInterSite)
	assert.Equal(t, "Warehousing", req.Industry)
}

func TestExtract_DefaultsWhenNoCounts(t *testing.T) {
	e := newTestExtractor()

	req, err := e.Extract("we would like a two-way radio quote")
	require.NoError(t, err)

	assert.Equal(t, 1, req.SiteCount)
	assert.Equal(t, 25, req.UsersPerSite)
	assert.Equal(t, 25, req.TotalUsers)
}

func TestExtract_MultiSiteFallbackToGenericCount(t *testing.T) {
	e := newTestExtractor()

	// no per-site phrasing: the generic user mention is treated as per-site
	req, err := e.Extract("3 offices, we have 50 employees")
	require.NoError(t, err)

	assert.Equal(t, 3, req.SiteCount)
	assert.Equal(t, 50, req.UsersPerSite)
	assert.Equal(t, 150, req.TotalUsers)
}

func TestExtract_InterSiteForcedByStructure(t *testing.T) {
	e := newTestExtractor()

	// no inter-site keyword at all, but more than one site
	req, err := e.Extract("2 warehouses with 10 users each")
	require.NoError(t, err)

	assert.True(t, req.RequiresInterSite, "siteCount > 1 must force requiresInterSite")
}

func TestExtract_InterSiteKeywordSingleSite(t *testing.T) {
	e := newTestExtractor()

	req, err := e.Extract("one campus, 30 users, teams must talk to each other")
	require.NoError(t, err)

	assert.True(t, req.RequiresInterSite)
}

func TestExtract_ZeroCountRejected(t *testing.T) {
	e := newTestExtractor()

	_, err := e.Extract("0 warehouses with 20 users each")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidRequirement))
}

func TestExtract_NegativeUsersRejected(t *testing.T) {
	e := newTestExtractor()

	_, err := e.Extract("2 offices with -5 users each")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidRequirement))
}

func TestExtract_UnreasonableTotalHalts(t *testing.T) {
	e := newTestExtractor()

	_, err := e.Extract("1 site with 50000 users")
	require.Error(t, err)

	var unreasonable *models.UnreasonableRequestError
	require.ErrorAs(t, err, &unreasonable)
	assert.Equal(t, 50000, unreasonable.TotalUsers)
	assert.Equal(t, 5000, unreasonable.Ceiling)
}

func TestExtract_FrequencyBand(t *testing.T) {
	e := newTestExtractor()

	req, err := e.Extract("20 users, VHF coverage outdoors")
	require.NoError(t, err)
	assert.Equal(t, models.BandVHF, req.FrequencyBand)

	req, err = e.Extract("20 users in a building")
	require.NoError(t, err)
	assert.Equal(t, models.BandUHF, req.FrequencyBand, "UHF is the default band")
}

func TestExtract_BudgetCaptured(t *testing.T) {
	e := newTestExtractor()

	req, err := e.Extract("2 stores with 10 users each, budget of $25,000")
	require.NoError(t, err)
	require.NotNil(t, req.BudgetCeilingCents)
	assert.Equal(t, int64(2500000), *req.BudgetCeilingCents)
}

func TestExtract_InvariantTotalAtLeastSites(t *testing.T) {
	e := newTestExtractor()

	texts := []string{
		"5 hospitals with 40 users each",
		"3 offices, we have 50 employees",
		"12 schools",
		"a warehouse with 30 users",
	}
	for _, text := range texts {
		req, err := e.Extract(text)
		require.NoError(t, err, text)
		assert.GreaterOrEqual(t, req.TotalUsers, req.SiteCount, text)
		if req.SiteCount > 1 {
			assert.True(t, req.RequiresInterSite, text)
		}
	}
}
