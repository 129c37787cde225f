package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestInventorySellRealizesProportionalCost(t *testing.T) {
	inv := &Inventory{}
	inv.Buy(d("100"), d("0.20"), d("20"))
	inv.Sell(d("50"), d("0.35"), d("17.5"))

	// Half the cost basis (10) exits against 17.5 of revenue.
	if got := inv.RealizedPnL.String(); got != "7.5" {
		t.Fatalf("realized = %s, want 7.5", got)
	}
	if got := inv.Shares.String(); got != "50" {
		t.Fatalf("shares = %s, want 50", got)
	}
	if got := inv.CostBasis.String(); got != "10" {
		t.Fatalf("cost basis = %s, want 10", got)
	}
}

func TestInventoryFullExitZeroesBasis(t *testing.T) {
	inv := &Inventory{}
	inv.Buy(d("100"), d("0.10"), d("10"))
	inv.Buy(d("100"), d("0.12"), d("12"))
	inv.Redeem(d("200"), d("200"))

	if !inv.Shares.IsZero() {
		t.Fatalf("shares = %s, want 0", inv.Shares)
	}
	if !inv.CostBasis.IsZero() {
		t.Fatalf("cost basis = %s, want 0", inv.CostBasis)
	}
	if got := inv.RealizedPnL.String(); got != "178" {
		t.Fatalf("realized = %s, want 178", got)
	}
}

func TestInventoryExitAgainstEmptyIsNoop(t *testing.T) {
	inv := &Inventory{}
	inv.Sell(d("10"), d("0.5"), d("5"))
	inv.Redeem(d("10"), d("10"))

	if !inv.RealizedPnL.IsZero() || !inv.Shares.IsZero() {
		t.Fatalf("exit against empty inventory mutated state: %+v", inv)
	}

	inv.Buy(d("10"), d("0.5"), d("5"))
	inv.Sell(d("10"), d("0.6"), d("6"))
	// Inventory now empty again; further exits must not go negative.
	inv.Sell(d("10"), d("0.9"), d("9"))
	if got := inv.RealizedPnL.String(); got != "1" {
		t.Fatalf("realized = %s, want 1", got)
	}
}

func TestInventoryNegativeInputsIgnored(t *testing.T) {
	inv := &Inventory{}
	inv.Buy(d("-5"), d("0.5"), d("2.5"))
	if !inv.Shares.IsZero() {
		t.Fatalf("negative buy mutated shares: %s", inv.Shares)
	}
	inv.Buy(d("10"), d("0.5"), d("5"))
	inv.Sell(d("-1"), d("0.5"), d("0.5"))
	if got := inv.Shares.String(); got != "10" {
		t.Fatalf("negative sell mutated shares: %s", got)
	}
}

func TestInventoryUnrealized(t *testing.T) {
	inv := &Inventory{}
	inv.Buy(d("100"), d("0.20"), d("20"))
	inv.LastPrice = d("0.30")
	if got := inv.Unrealized().String(); got != "10" {
		t.Fatalf("unrealized = %s, want 10", got)
	}
	inv.Sell(d("100"), d("0.30"), d("30"))
	if !inv.Unrealized().IsZero() {
		t.Fatalf("unrealized after full exit = %s, want 0", inv.Unrealized())
	}
}

func TestLedgerReplayOrdersByTimestamp(t *testing.T) {
	// Records arrive shuffled; the sell must still see the prior buy.
	records := []ActivityRecord{
		{Type: TypeTrade, Side: SideSell, Timestamp: 200, EventSlug: "ev", Outcome: "Yes",
			Size: Amount{d("100")}, Price: Amount{d("0.35")}, USDCSize: Amount{d("35")}},
		{Type: TypeTrade, Side: SideBuy, Timestamp: 100, EventSlug: "ev", Outcome: "Yes",
			Size: Amount{d("100")}, Price: Amount{d("0.20")}, USDCSize: Amount{d("20")}},
	}
	ledger := NewLedger()
	ledger.Apply(records)
	if got := ledger.TotalRealizedPnL().String(); got != "15" {
		t.Fatalf("realized = %s, want 15", got)
	}
	// Input slice order is preserved.
	if records[0].Timestamp != 200 {
		t.Fatalf("Apply mutated its input")
	}
}

func TestLedgerSeparatesOutcomes(t *testing.T) {
	records := []ActivityRecord{
		{Type: TypeTrade, Side: SideBuy, Timestamp: 1, EventSlug: "ev", Outcome: "Yes",
			Size: Amount{d("10")}, Price: Amount{d("0.6")}, USDCSize: Amount{d("6")}},
		{Type: TypeTrade, Side: SideBuy, Timestamp: 2, EventSlug: "ev", Outcome: "No",
			Size: Amount{d("10")}, Price: Amount{d("0.4")}, USDCSize: Amount{d("4")}},
		{Type: TypeRedeem, Timestamp: 3, EventSlug: "ev", Outcome: "Yes",
			Size: Amount{d("10")}, USDCSize: Amount{d("10")}},
	}
	ledger := NewLedger()
	ledger.Apply(records)
	// Yes leg realizes 10-6=4; No leg stays open at a cost of 4.
	if got := ledger.TotalRealizedPnL().String(); got != "4" {
		t.Fatalf("realized = %s, want 4", got)
	}
	no := ledger.Tracker("ev", "No")
	if got := no.Shares.String(); got != "10" {
		t.Fatalf("no-leg shares = %s, want 10", got)
	}
}
