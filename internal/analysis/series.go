package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// EventSeries aggregates a wallet's activity for one event (market group),
// across all outcomes and sides.
type EventSeries struct {
	EventSlug string `json:"eventSlug"`
	Title     string `json:"title"`

	BuyCost     decimal.Decimal `json:"buyCost"`
	SellRevenue decimal.Decimal `json:"sellRevenue"`
	RedeemValue decimal.Decimal `json:"redeemValue"`
	NetPnL      decimal.Decimal `json:"netPnL"`
	ROI         float64         `json:"roi"`

	IsWin  bool `json:"isWin"`
	IsOpen bool `json:"isOpen"`

	NumBuys    int `json:"numBuys"`
	NumSells   int `json:"numSells"`
	NumRedeems int `json:"numRedeems"`

	// Unweighted means of per-trade price. Large trades count the same as
	// small ones; kept that way deliberately, see DESIGN.md.
	AvgBuyPrice  float64 `json:"avgBuyPrice"`
	AvgSellPrice float64 `json:"avgSellPrice"`

	FirstTimestamp int64 `json:"firstTimestamp"`

	buys    []ActivityRecord
	sells   []ActivityRecord
	redeems []ActivityRecord
}

// Buys returns the raw buy records backing the series.
func (s *EventSeries) Buys() []ActivityRecord { return s.buys }

// Sells returns the raw sell records backing the series.
func (s *EventSeries) Sells() []ActivityRecord { return s.sells }

// Redeems returns the raw redeem records backing the series.
func (s *EventSeries) Redeems() []ActivityRecord { return s.redeems }

// GroupByEvent partitions deduplicated records by eventSlug and computes the
// per-event aggregates. Grouping is order-independent; records without an
// eventSlug cannot be attributed to a market and are skipped.
func GroupByEvent(records []ActivityRecord) []*EventSeries {
	byEvent := make(map[string]*EventSeries)
	order := make([]string, 0)

	for _, r := range records {
		if r.EventSlug == "" {
			continue
		}
		s, ok := byEvent[r.EventSlug]
		if !ok {
			s = &EventSeries{
				EventSlug:      r.EventSlug,
				Title:          r.Title,
				FirstTimestamp: r.Timestamp,
			}
			byEvent[r.EventSlug] = s
			order = append(order, r.EventSlug)
		}
		if r.Timestamp < s.FirstTimestamp {
			s.FirstTimestamp = r.Timestamp
		}
		switch {
		case r.IsBuy():
			s.buys = append(s.buys, r)
			s.BuyCost = s.BuyCost.Add(r.USDCSize.Decimal)
		case r.IsSell():
			s.sells = append(s.sells, r)
			s.SellRevenue = s.SellRevenue.Add(r.USDCSize.Decimal)
		case r.IsRedeem():
			s.redeems = append(s.redeems, r)
			s.RedeemValue = s.RedeemValue.Add(r.USDCSize.Decimal)
		}
	}

	out := make([]*EventSeries, 0, len(byEvent))
	for _, slug := range order {
		s := byEvent[slug]
		s.finalize()
		out = append(out, s)
	}
	// Most recent market activity first; the consumer can re-sort.
	SortSeries(out, SortByFirstTimestamp, true)
	return out
}

func (s *EventSeries) finalize() {
	s.NumBuys = len(s.buys)
	s.NumSells = len(s.sells)
	s.NumRedeems = len(s.redeems)
	s.NetPnL = s.SellRevenue.Add(s.RedeemValue).Sub(s.BuyCost)
	if s.BuyCost.IsPositive() {
		roi, _ := s.NetPnL.Div(s.BuyCost).Float64()
		s.ROI = roi
	}
	s.IsWin = s.NetPnL.IsPositive()
	s.IsOpen = s.NumSells == 0 && s.NumRedeems == 0
	s.AvgBuyPrice = meanPrice(s.buys)
	s.AvgSellPrice = meanPrice(s.sells)
}

func meanPrice(records []ActivityRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		p, _ := r.Price.Float64()
		sum += p
	}
	return sum / float64(len(records))
}

// SortKey selects the field SortSeries orders by.
type SortKey string

const (
	SortByFirstTimestamp SortKey = "firstTimestamp"
	SortByNetPnL         SortKey = "netPnL"
	SortByBuyCost        SortKey = "buyCost"
	SortByROI            SortKey = "roi"
	SortByNumBuys        SortKey = "numBuys"
)

// SortSeries orders series in place by the given key. Ties fall back to
// eventSlug so the order is stable across runs.
func SortSeries(series []*EventSeries, key SortKey, desc bool) {
	less := func(a, b *EventSeries) bool {
		switch key {
		case SortByNetPnL:
			if !a.NetPnL.Equal(b.NetPnL) {
				return a.NetPnL.LessThan(b.NetPnL)
			}
		case SortByBuyCost:
			if !a.BuyCost.Equal(b.BuyCost) {
				return a.BuyCost.LessThan(b.BuyCost)
			}
		case SortByROI:
			if a.ROI != b.ROI {
				return a.ROI < b.ROI
			}
		case SortByNumBuys:
			if a.NumBuys != b.NumBuys {
				return a.NumBuys < b.NumBuys
			}
		default:
			if a.FirstTimestamp != b.FirstTimestamp {
				return a.FirstTimestamp < b.FirstTimestamp
			}
		}
		return a.EventSlug < b.EventSlug
	}
	sort.SliceStable(series, func(i, j int) bool {
		if desc {
			return less(series[j], series[i])
		}
		return less(series[i], series[j])
	})
}
