package analysis

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestBuildEntryExitMapPartialExits(t *testing.T) {
	records := []ActivityRecord{
		// Out of order on purpose: the scan must sort oldest-first.
		rec(TypeTrade, SideSell, "hot-day", 300, "0.40", "50", "20"),
		rec(TypeTrade, SideBuy, "hot-day", 100, "0.10", "100", "10"),
		rec(TypeTrade, SideSell, "hot-day", 200, "0.30", "50", "15"),
	}
	points := BuildEntryExitMap(records)
	if len(points) != 2 {
		t.Fatalf("expected 2 exit points, got %d", len(points))
	}
	if !near(points[0].Entry, 10) || !near(points[0].Exit, 30) || !near(points[0].Profit, 20) {
		t.Fatalf("first exit wrong: %+v", points[0])
	}
	// The first sell halves the position proportionally, so the average
	// entry for the second exit is unchanged.
	if !near(points[1].Entry, 10) || !near(points[1].Exit, 40) || !near(points[1].Profit, 30) {
		t.Fatalf("second exit wrong: %+v", points[1])
	}
}

func TestBuildEntryExitMapIgnoresUnbackedSells(t *testing.T) {
	records := []ActivityRecord{
		rec(TypeTrade, SideSell, "never-bought", 100, "0.5", "10", "5"),
		rec(TypeTrade, SideBuy, "other", 100, "0.2", "10", "2"),
		rec(TypeTrade, SideSell, "other", 150, "0.6", "20", "12"),
		// Position fully consumed above; nothing left to exit.
		rec(TypeTrade, SideSell, "other", 200, "0.7", "5", "3.5"),
		rec(TypeRedeem, "", "other", 300, "0", "10", "10"),
	}
	points := BuildEntryExitMap(records)
	if len(points) != 1 {
		t.Fatalf("expected 1 exit point, got %d: %+v", len(points), points)
	}
	if !near(points[0].Entry, 20) || !near(points[0].Exit, 60) {
		t.Fatalf("exit wrong: %+v", points[0])
	}
}

func TestBuildEntryExitMapSkipsDegenerateEntries(t *testing.T) {
	records := []ActivityRecord{
		// 10 shares for 15 USDC: average entry 1.5, outside (0,1).
		rec(TypeTrade, SideBuy, "weird", 100, "1.5", "10", "15"),
		rec(TypeTrade, SideSell, "weird", 200, "0.9", "10", "9"),
	}
	if points := BuildEntryExitMap(records); len(points) != 0 {
		t.Fatalf("degenerate entry must emit nothing, got %+v", points)
	}
}
