package analysis

import "strings"

// Market categories, in classification priority order.
const (
	CategoryWeather  = "weather"
	CategoryTweet    = "elon/tweet"
	CategoryPolitics = "politics"
	CategoryCrypto   = "crypto"
	CategorySports   = "sports"
	CategoryOther    = "other"
)

type categoryRule struct {
	label         string
	titleKeywords []string
	slugKeywords  []string
}

// Priority-ordered; the first matching rule wins, so a market about Trump
// and Bitcoin classifies as politics rather than crypto.
var categoryRules = []categoryRule{
	{
		label:         CategoryWeather,
		titleKeywords: []string{"temperature", "weather", "°c", "highest"},
	},
	{
		label:         CategoryTweet,
		titleKeywords: []string{"elon", "musk", "tweet"},
		slugKeywords:  []string{"tweet"},
	},
	{
		label:         CategoryPolitics,
		titleKeywords: []string{"trump", "biden", "election", "president", "iran", "regime"},
	},
	{
		label:         CategoryCrypto,
		titleKeywords: []string{"bitcoin", "btc", "eth"},
	},
	{
		label:         CategorySports,
		titleKeywords: []string{"nfl", "nba", "sport", "football"},
	},
}

// CategorizeRecord assigns one market category from title/slug keywords.
func CategorizeRecord(title, eventSlug string) string {
	title = strings.ToLower(title)
	slug := strings.ToLower(eventSlug)
	for _, rule := range categoryRules {
		for _, kw := range rule.titleKeywords {
			if strings.Contains(title, kw) {
				return rule.label
			}
		}
		for _, kw := range rule.slugKeywords {
			if strings.Contains(slug, kw) {
				return rule.label
			}
		}
	}
	return CategoryOther
}

// MarketFocus is the per-category record count plus the dominant category.
type MarketFocus struct {
	Types        map[string]int `json:"types"`
	TopMarket    string         `json:"topMarket"`
	TopMarketPct float64        `json:"topMarketPct"`
}

// BuildMarketFocus tallies categories over all activity records. Used only
// for descriptive copy; it never gates computation.
func BuildMarketFocus(records []ActivityRecord) MarketFocus {
	focus := MarketFocus{Types: map[string]int{
		CategoryWeather:  0,
		CategoryTweet:    0,
		CategoryPolitics: 0,
		CategoryCrypto:   0,
		CategorySports:   0,
		CategoryOther:    0,
	}}
	for _, r := range records {
		focus.Types[CategorizeRecord(r.Title, r.EventSlug)]++
	}
	total := 0
	for _, n := range focus.Types {
		total += n
	}
	// Scan in priority order so ties resolve deterministically.
	top, topN := CategoryOther, -1
	for _, rule := range categoryRules {
		if focus.Types[rule.label] > topN {
			top, topN = rule.label, focus.Types[rule.label]
		}
	}
	if focus.Types[CategoryOther] > topN {
		top, topN = CategoryOther, focus.Types[CategoryOther]
	}
	focus.TopMarket = top
	if total > 0 {
		focus.TopMarketPct = float64(topN) / float64(total)
	}
	return focus
}
