package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// EntryExitPoint pairs the average entry price of a position with the price
// it was exited at, both in percent. Profit is the spread in percentage
// points; a full PnL accounting lives in the Ledger, this feeds the scatter
// chart.
type EntryExitPoint struct {
	Entry  float64 `json:"entry"`
	Exit   float64 `json:"exit"`
	Profit float64 `json:"profit"`
}

type openPosition struct {
	size decimal.Decimal
	cost decimal.Decimal
}

// BuildEntryExitMap replays trades oldest-first, accumulating buys per market
// and emitting one point for every sell against an open position. A sell
// reduces the position proportionally, leaving the remaining cost basis in
// place for later exits. Positions are keyed by market slug with the title as
// fallback. Average entries outside (0,1) are reconstruction noise and emit
// nothing.
func BuildEntryExitMap(records []ActivityRecord) []EntryExitPoint {
	ordered := make([]ActivityRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	open := make(map[string]*openPosition)
	points := []EntryExitPoint{}
	for _, r := range ordered {
		if !r.IsTrade() {
			continue
		}
		key := r.Slug
		if key == "" {
			key = r.Title
		}
		if r.IsBuy() {
			pos, ok := open[key]
			if !ok {
				pos = &openPosition{}
				open[key] = pos
			}
			pos.size = pos.size.Add(r.Size.Decimal)
			pos.cost = pos.cost.Add(r.USDCSize.Decimal)
			continue
		}
		pos, ok := open[key]
		if !ok || !pos.size.IsPositive() {
			continue
		}
		avgEntry := pos.cost.Div(pos.size)
		if avgEntry.IsPositive() && avgEntry.LessThan(one) {
			points = append(points, EntryExitPoint{
				Entry:  avgEntry.Mul(hundred).InexactFloat64(),
				Exit:   r.Price.Decimal.Mul(hundred).InexactFloat64(),
				Profit: r.Price.Decimal.Sub(avgEntry).Mul(hundred).InexactFloat64(),
			})
		}
		ratio := one.Sub(r.Size.Decimal.Div(pos.size))
		if ratio.IsNegative() {
			ratio = decimal.Zero
		}
		pos.size = pos.size.Mul(ratio)
		pos.cost = pos.cost.Mul(ratio)
	}
	return points
}
