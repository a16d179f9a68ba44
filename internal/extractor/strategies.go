package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// slotStrategy is one named extraction attempt for a numeric slot. Strategies
// run in order and the first match wins; each is unit-testable in isolation.
type slotStrategy struct {
	name    string
	pattern *regexp.Regexp
}

func (s slotStrategy) extract(text string) (int, bool) {
	m := s.pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

const facilityNouns = `hospitals?|schools?|warehouses?|factories|factory|offices?|locations?|sites?|buildings?|stores?|facilities|facility|branches|branch|campuses|campus|plants?|hotels?|clinics?`

// combinedPattern captures "<N> <facility noun> ... <M> users" in one phrase
// ("5 hospitals with 40 users each"). A combined match short-circuits all
// other site/user extraction.
var combinedPattern = regexp.MustCompile(`(?i)(-?\d+)\s+(?:` + facilityNouns + `)\b[^.;]*?(-?\d+)\s+users?\b`)

func extractCombined(text string) (siteCount, usersPerSite int, ok bool) {
	m := combinedPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	sites, err1 := strconv.Atoi(m[1])
	users, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return sites, users, true
}

var siteCountStrategies = []slotStrategy{
	{
		name:    "facility_noun_count",
		pattern: regexp.MustCompile(`(?i)(-?\d+)\s+(?:` + facilityNouns + `)\b`),
	},
	{
		name:    "across_n_locations",
		pattern: regexp.MustCompile(`(?i)across\s+(-?\d+)\s+(?:different\s+)?(?:` + facilityNouns + `)`),
	},
}

var usersPerSiteStrategies = []slotStrategy{
	{
		name:    "n_users_each",
		pattern: regexp.MustCompile(`(?i)(-?\d+)\s+users?\s+(?:each|apiece)\b`),
	},
	{
		name:    "each_location_has_n",
		pattern: regexp.MustCompile(`(?i)each\s+(?:location|site|facility|building|store|branch|school|hospital|warehouse|office)\s+(?:has|have|with|needs?|gets?)\s+(?:about\s+|around\s+|roughly\s+)?(-?\d+)`),
	},
	{
		name:    "n_users_per_site",
		pattern: regexp.MustCompile(`(?i)(-?\d+)\s+users?\s+per\s+(?:site|location|facility|building|store|branch)`),
	},
	{
		name:    "n_people_at_each",
		pattern: regexp.MustCompile(`(?i)(-?\d+)\s+(?:users?|radios?|employees?|staff|workers?|people)\s+(?:at|in)\s+each\b`),
	},
}

// genericUserCount is the last-resort user-count mention, used when no
// per-site phrasing matched.
var genericUserCount = slotStrategy{
	name:    "generic_user_count",
	pattern: regexp.MustCompile(`(?i)(-?\d+)\s+(?:users?|radios?|employees?|staff|workers?|people)\b`),
}

// interSiteKeywords force RequiresInterSite even for ambiguous phrasing.
// The structural rule (siteCount > 1) dominates keyword absence.
var interSiteKeywords = []string{
	"talk to each other",
	"communicate between locations",
	"communicate between sites",
	"communicate across",
	"connected to each other",
	"connect all locations",
	"connect all sites",
	"between locations",
	"between sites",
	"between buildings",
	"inter-site",
	"intersite",
	"wide area",
}

func hasInterSiteKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range interSiteKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// industryKeywords maps in order; first match wins, unmatched falls back to
// "General".
var industryKeywords = []struct {
	keywords []string
	industry string
}{
	{[]string{"hospital", "medical", "healthcare", "clinic", "nursing"}, "Healthcare"},
	{[]string{"school", "university", "college", "campus", "education"}, "Education"},
	{[]string{"warehouse", "logistics", "distribution", "fulfillment"}, "Warehousing"},
	{[]string{"factory", "manufacturing", "plant", "production"}, "Manufacturing"},
	{[]string{"hotel", "resort", "hospitality", "casino"}, "Hospitality"},
	{[]string{"construction", "jobsite", "contractor"}, "Construction"},
	{[]string{"security", "guard", "patrol"}, "Security"},
	{[]string{"retail", "store", "shopping"}, "Retail"},
}

func matchIndustry(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range industryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.industry
			}
		}
	}
	return "General"
}

var budgetPattern = regexp.MustCompile(`(?i)(?:budget\s+(?:of|is|around|about)?\s*)?\$\s*(\d[\d,]*(?:\.\d{1,2})?)\s*(k|m|thousand|million)?`)

// extractBudget returns a budget ceiling in cents when the text mentions a
// dollar amount.
func extractBudget(text string) (int64, bool) {
	m := budgetPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	raw := strings.ReplaceAll(m[1], ",", "")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "k", "thousand":
		amount *= 1000
	case "m", "million":
		amount *= 1000000
	}
	return int64(amount * 100), true
}
