package analysis

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Cities the temperature markets run on, with the shorthand aliases that
// show up in market titles.
var cityRules = []struct {
	name     string
	keywords []string
}{
	{name: "Buenos Aires", keywords: []string{"buenos aires"}},
	{name: "London", keywords: []string{"london"}},
	{name: "New York", keywords: []string{"new york", "nyc"}},
	{name: "Dallas", keywords: []string{"dallas"}},
	{name: "Atlanta", keywords: []string{"atlanta"}},
	{name: "Seattle", keywords: []string{"seattle"}},
	{name: "Chicago", keywords: []string{"chicago"}},
	{name: "Los Angeles", keywords: []string{"los angeles"}},
	{name: "Miami", keywords: []string{"miami"}},
}

// ParseCity extracts the market city from a title. Matching is a
// case-insensitive substring scan, so "Highest temperature in NYC on June 14?"
// resolves to New York.
func ParseCity(title string) (string, bool) {
	title = strings.ToLower(title)
	for _, rule := range cityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(title, kw) {
				return rule.name, true
			}
		}
	}
	return "", false
}

// CityStat is the trade count and USDC volume for one market city.
type CityStat struct {
	City   string          `json:"city"`
	Trades int             `json:"trades"`
	Volume decimal.Decimal `json:"volume"`
}

// BuildCityDistribution tallies trades whose title names a known city.
// Records without a recognizable city do not count. Most-traded city first;
// ties break alphabetically so the output is stable.
func BuildCityDistribution(records []ActivityRecord) []CityStat {
	index := make(map[string]int)
	stats := []CityStat{}
	for _, r := range records {
		if !r.IsTrade() {
			continue
		}
		city, ok := ParseCity(r.Title)
		if !ok {
			continue
		}
		i, ok := index[city]
		if !ok {
			i = len(stats)
			index[city] = i
			stats = append(stats, CityStat{City: city})
		}
		stats[i].Trades++
		stats[i].Volume = stats[i].Volume.Add(r.USDCSize.Decimal)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Trades != stats[j].Trades {
			return stats[i].Trades > stats[j].Trades
		}
		return stats[i].City < stats[j].City
	})
	return stats
}
