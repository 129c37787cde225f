package analysis

import (
	"math"
	"testing"
)

func TestClassifyExclusiveCategories(t *testing.T) {
	records := []ActivityRecord{
		// Sold and then redeemed: still early-exit.
		rec(TypeTrade, SideBuy, "mixed", 100, "0.3", "10", "3"),
		rec(TypeTrade, SideSell, "mixed", 200, "0.5", "5", "2.5"),
		rec(TypeRedeem, "", "mixed", 300, "0", "5", "5"),
		// Redeemed only: hold-to-expiry.
		rec(TypeTrade, SideBuy, "held", 100, "0.2", "10", "2"),
		rec(TypeRedeem, "", "held", 300, "0", "10", "10"),
		// Buys only: neither.
		rec(TypeTrade, SideBuy, "open", 100, "0.4", "10", "4"),
	}
	stats := Classify(GroupByEvent(records))

	if stats.EarlyExit != 1 || stats.HoldToExpiry != 1 || stats.PureBuy != 1 {
		t.Fatalf("classification wrong: early=%d hold=%d pure=%d",
			stats.EarlyExit, stats.HoldToExpiry, stats.PureBuy)
	}
	if stats.EarlyExit+stats.HoldToExpiry+stats.PureBuy != stats.TotalEvents {
		t.Fatalf("categories must partition the events")
	}
}

func TestClassifyRatesBounded(t *testing.T) {
	records := []ActivityRecord{
		rec(TypeTrade, SideBuy, "a", 100, "0.3", "10", "3"),
		rec(TypeTrade, SideBuy, "a", 160, "0.3", "10", "3"),
		rec(TypeTrade, SideSell, "a", 400, "0.5", "20", "10"),
		rec(TypeTrade, SideBuy, "b", 100, "0.2", "10", "2"),
	}
	stats := Classify(GroupByEvent(records))
	for name, rate := range map[string]float64{
		"batchBuyRate":     stats.BatchBuyRate,
		"holdToExpiryRate": stats.HoldToExpiryRate,
		"earlyExitRate":    stats.EarlyExitRate,
	} {
		if rate < 0 || rate > 1 {
			t.Fatalf("%s = %v, out of [0,1]", name, rate)
		}
	}
	if stats.BatchBuyEvents != 1 {
		t.Fatalf("batch events = %d, want 1", stats.BatchBuyEvents)
	}
	// Two buys 60s apart.
	if stats.AvgBatchIntervalMins != 1 {
		t.Fatalf("avg batch interval = %v, want 1", stats.AvgBatchIntervalMins)
	}
	if stats.BuyToSellRatio != 3 {
		t.Fatalf("buy/sell ratio = %v, want 3", stats.BuyToSellRatio)
	}
}

func TestClassifyBuyOnlyRatio(t *testing.T) {
	records := []ActivityRecord{
		rec(TypeTrade, SideBuy, "a", 100, "0.3", "10", "3"),
		rec(TypeTrade, SideBuy, "b", 200, "0.2", "10", "2"),
	}
	stats := Classify(GroupByEvent(records))
	if stats.BuyToSellRatio != 2 {
		t.Fatalf("buy/sell ratio with no sells = %v, want 2", stats.BuyToSellRatio)
	}
}

func TestClassifyEmpty(t *testing.T) {
	stats := Classify(nil)
	if stats.TotalEvents != 0 || stats.BatchBuyRate != 0 || stats.BuyToSellRatio != 0 {
		t.Fatalf("empty input must produce zero stats: %+v", stats)
	}
}

func TestBucketIndex(t *testing.T) {
	tests := []struct {
		price float64
		want  int
	}{
		{0, 0},
		{0.04, 0},
		{0.05, 1},
		{0.80, 16},
		{0.999, 19},
		{1.0, 19},
		{1.5, 19},
		{-0.1, 0},
	}
	for _, tt := range tests {
		if got := BucketIndex(tt.price); got != tt.want {
			t.Fatalf("BucketIndex(%v) = %d, want %d", tt.price, got, tt.want)
		}
	}
	if got := BucketLabel(16); got != "80-85%" {
		t.Fatalf("BucketLabel(16) = %q, want 80-85%%", got)
	}
}

func TestDistributePricesSkipsRedeems(t *testing.T) {
	records := []ActivityRecord{
		rec(TypeTrade, SideBuy, "ev", 100, "0.80", "10", "8"),
		rec(TypeRedeem, "", "ev", 200, "0.99", "10", "10"),
	}
	dist := DistributePrices(records)
	total := 0
	for _, n := range dist.Buckets {
		total += n
	}
	if total != 1 {
		t.Fatalf("expected 1 bucketed trade, got %d", total)
	}
	if dist.Buckets["80-85%"] != 1 {
		t.Fatalf("0.80 must land in 80-85%%")
	}
	if len(dist.Buckets) != PriceBucketCount {
		t.Fatalf("every bucket must be present, got %d", len(dist.Buckets))
	}
}

func TestBuildTimelinePhases(t *testing.T) {
	// 1970-01-01: 10:00, 15:00 and 20:00 UTC.
	records := []ActivityRecord{
		rec(TypeTrade, SideBuy, "ev", 10*3600, "0.5", "1", "0.5"),
		rec(TypeTrade, SideSell, "ev", 15*3600, "0.5", "1", "0.5"),
		rec(TypeTrade, SideBuy, "ev", 20*3600, "0.5", "1", "0.5"),
		rec(TypeRedeem, "", "ev", 21*3600, "0", "1", "1"),
	}
	tl := BuildTimeline(records)
	if tl.Phases.BeforePeak.Buys != 1 || tl.Phases.AfterPeak.Sells != 1 || tl.Phases.Evening.Buys != 1 {
		t.Fatalf("phase split wrong: %+v", tl.Phases)
	}
	if tl.Hours[10].Buys != 1 || tl.Hours[15].Sells != 1 {
		t.Fatalf("hour distribution wrong")
	}
	if len(tl.Hours) != 24 {
		t.Fatalf("expected 24 hour buckets")
	}
	total := 0
	for _, h := range tl.Hours {
		total += h.Buys + h.Sells
	}
	if total != 3 {
		t.Fatalf("redeems must not count in the timeline, got %d entries", total)
	}
}

func TestMean(t *testing.T) {
	if mean(nil) != 0 {
		t.Fatalf("mean of nothing must be 0")
	}
	if got := mean([]float64{1, 2, 3}); math.Abs(got-2) > 1e-12 {
		t.Fatalf("mean = %v, want 2", got)
	}
}
