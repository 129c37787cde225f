package analysis

import (
	"fmt"
	"sort"
	"time"
)

// PatternStats are the behavioral statistics derived from the per-event
// groups. Rates are fractions in [0,1]; the consumer formats percentages.
type PatternStats struct {
	TotalEvents     int `json:"totalEvents"`
	BatchBuyEvents  int `json:"batchBuyEvents"`
	HoldToExpiry    int `json:"holdToExpiry"`
	EarlyExit       int `json:"earlyExit"`
	PureBuy         int `json:"pureBuy"`

	BatchBuyRate     float64 `json:"batchBuyRate"`
	HoldToExpiryRate float64 `json:"holdToExpiryRate"`
	EarlyExitRate    float64 `json:"earlyExitRate"`

	AvgBatchIntervalMins float64 `json:"avgBatchIntervalMins"`

	AvgBuyPrice  float64 `json:"avgBuyPrice"`
	AvgSellPrice float64 `json:"avgSellPrice"`
	ProfitSpread float64 `json:"profitSpread"`

	TotalBuys      int     `json:"totalBuys"`
	TotalSells     int     `json:"totalSells"`
	BuyToSellRatio float64 `json:"buyToSellRatio"`
}

// Classify computes pattern statistics from grouped events.
//
// An event with any sell counts as early-exit even if it is later redeemed;
// hold-to-expiry requires at least one redeem and zero sells. The two
// categories are therefore mutually exclusive, and an event with only buys
// counts in neither (it is still open).
func Classify(events []*EventSeries) PatternStats {
	var stats PatternStats
	stats.TotalEvents = len(events)

	var intervals []float64
	var buyPrices, sellPrices []float64

	for _, e := range events {
		for _, b := range e.Buys() {
			p, _ := b.Price.Float64()
			buyPrices = append(buyPrices, p)
		}
		for _, s := range e.Sells() {
			p, _ := s.Price.Float64()
			sellPrices = append(sellPrices, p)
		}

		if e.NumBuys > 1 {
			stats.BatchBuyEvents++
			buys := append([]ActivityRecord(nil), e.Buys()...)
			sort.Slice(buys, func(i, j int) bool { return buys[i].Timestamp < buys[j].Timestamp })
			for i := 1; i < len(buys); i++ {
				intervals = append(intervals, float64(buys[i].Timestamp-buys[i-1].Timestamp)/60.0)
			}
		}

		switch {
		case e.NumSells > 0:
			stats.EarlyExit++
		case e.NumRedeems > 0:
			stats.HoldToExpiry++
		case e.NumBuys > 0:
			stats.PureBuy++
		}
	}

	if stats.TotalEvents > 0 {
		total := float64(stats.TotalEvents)
		stats.BatchBuyRate = float64(stats.BatchBuyEvents) / total
		stats.HoldToExpiryRate = float64(stats.HoldToExpiry) / total
		stats.EarlyExitRate = float64(stats.EarlyExit) / total
	}
	stats.AvgBatchIntervalMins = mean(intervals)
	stats.AvgBuyPrice = mean(buyPrices)
	stats.AvgSellPrice = mean(sellPrices)
	stats.ProfitSpread = stats.AvgSellPrice - stats.AvgBuyPrice
	stats.TotalBuys = len(buyPrices)
	stats.TotalSells = len(sellPrices)
	// A buy-only wallet reports its buy count, not zero.
	den := stats.TotalSells
	if den < 1 {
		den = 1
	}
	stats.BuyToSellRatio = float64(stats.TotalBuys) / float64(den)
	return stats
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// PriceBucketCount is the number of 5%-wide histogram buckets.
const PriceBucketCount = 20

// PriceDistribution is a histogram of trade prices in 5% buckets plus the
// unweighted average buy/sell prices.
type PriceDistribution struct {
	Buckets      map[string]int `json:"buckets"`
	AvgBuyPrice  float64        `json:"avgBuyPrice"`
	AvgSellPrice float64        `json:"avgSellPrice"`
	ProfitSpread float64        `json:"profitSpread"`
}

// BucketLabel names the bucket at index i, e.g. 16 -> "80-85%".
func BucketLabel(i int) string {
	return fmt.Sprintf("%d-%d%%", i*5, (i+1)*5)
}

// BucketIndex maps a price in [0,1] to its bucket. Boundaries belong to the
// upper bucket (0.80 lands in "80-85%"); 1.0 is clamped into the last one.
func BucketIndex(price float64) int {
	i := int(price * PriceBucketCount)
	if i < 0 {
		i = 0
	}
	if i >= PriceBucketCount {
		i = PriceBucketCount - 1
	}
	return i
}

// DistributePrices builds the price histogram over all trade records
// (REDEEMs carry no market price and are excluded).
func DistributePrices(records []ActivityRecord) PriceDistribution {
	dist := PriceDistribution{Buckets: make(map[string]int, PriceBucketCount)}
	for i := 0; i < PriceBucketCount; i++ {
		dist.Buckets[BucketLabel(i)] = 0
	}
	var buyPrices, sellPrices []float64
	for _, r := range records {
		if !r.IsTrade() {
			continue
		}
		p, _ := r.Price.Float64()
		dist.Buckets[BucketLabel(BucketIndex(p))]++
		if r.Side == SideBuy {
			buyPrices = append(buyPrices, p)
		} else {
			sellPrices = append(sellPrices, p)
		}
	}
	dist.AvgBuyPrice = mean(buyPrices)
	dist.AvgSellPrice = mean(sellPrices)
	dist.ProfitSpread = dist.AvgSellPrice - dist.AvgBuyPrice
	return dist
}

// HourBucket counts buys and sells placed during one UTC hour of day.
type HourBucket struct {
	Hour  int `json:"hour"`
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PhaseCounts splits trades into coarse intraday phases. The boundaries come
// from the weather-market workflow: most temperature highs resolve around
// mid-afternoon local time.
type PhaseCounts struct {
	BeforePeak HourBucket `json:"beforePeak"`
	AfterPeak  HourBucket `json:"afterPeak"`
	Evening    HourBucket `json:"evening"`
}

// Timeline is the hour-of-day distribution of trading activity.
type Timeline struct {
	Hours  []HourBucket `json:"hourDistribution"`
	Phases PhaseCounts  `json:"phases"`
}

// BuildTimeline computes per-UTC-hour buy/sell counts and the phase split.
func BuildTimeline(records []ActivityRecord) Timeline {
	tl := Timeline{Hours: make([]HourBucket, 24)}
	for h := range tl.Hours {
		tl.Hours[h].Hour = h
	}
	for _, r := range records {
		if !r.IsTrade() {
			continue
		}
		hour := time.Unix(r.Timestamp, 0).UTC().Hour()
		buy := r.Side == SideBuy
		bump(&tl.Hours[hour], buy)
		switch {
		case hour < 14:
			bump(&tl.Phases.BeforePeak, buy)
		case hour < 18:
			bump(&tl.Phases.AfterPeak, buy)
		default:
			bump(&tl.Phases.Evening, buy)
		}
	}
	return tl
}

func bump(b *HourBucket, buy bool) {
	if buy {
		b.Buys++
	} else {
		b.Sells++
	}
}
