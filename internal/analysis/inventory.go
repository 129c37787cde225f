package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Inventory tracks running share count and cost basis for one
// (eventSlug, outcome) pair. Mutations must arrive in timestamp order:
// the cost reduction on an exit depends on the state built up by prior buys.
type Inventory struct {
	Shares      decimal.Decimal
	CostBasis   decimal.Decimal
	RealizedPnL decimal.Decimal
	LastPrice   decimal.Decimal
}

func (inv *Inventory) Buy(size, price, usdc decimal.Decimal) {
	if size.IsNegative() || usdc.IsNegative() {
		return
	}
	inv.Shares = inv.Shares.Add(size)
	inv.CostBasis = inv.CostBasis.Add(usdc)
	inv.LastPrice = price
}

// Sell realizes PnL for a proportional slice of the cost basis.
// A sell against an empty inventory is a no-op rather than a corruption:
// the feed is a best-effort reconstruction, not a ledger.
func (inv *Inventory) Sell(size, price, usdc decimal.Decimal) {
	if !inv.Shares.IsPositive() || size.IsNegative() || usdc.IsNegative() {
		return
	}
	ratio := size.Div(inv.Shares)
	costOut := ratio.Mul(inv.CostBasis)
	inv.RealizedPnL = inv.RealizedPnL.Add(usdc.Sub(costOut))
	inv.Shares = inv.Shares.Sub(size)
	inv.CostBasis = inv.CostBasis.Sub(costOut)
	inv.LastPrice = price
}

// Redeem settles shares at their payout value. Same reduction math as Sell;
// payout is par value for a winning outcome and zero for a losing one,
// whichever the upstream feed reports.
func (inv *Inventory) Redeem(size, payout decimal.Decimal) {
	if !inv.Shares.IsPositive() || size.IsNegative() || payout.IsNegative() {
		return
	}
	ratio := size.Div(inv.Shares)
	costOut := ratio.Mul(inv.CostBasis)
	inv.RealizedPnL = inv.RealizedPnL.Add(payout.Sub(costOut))
	inv.Shares = inv.Shares.Sub(size)
	inv.CostBasis = inv.CostBasis.Sub(costOut)
}

// Unrealized marks remaining shares at the last observed price.
func (inv *Inventory) Unrealized() decimal.Decimal {
	if !inv.Shares.IsPositive() {
		return decimal.Zero
	}
	return inv.Shares.Mul(inv.LastPrice).Sub(inv.CostBasis)
}

// Ledger holds one Inventory per (eventSlug, outcome) pair for a wallet.
type Ledger struct {
	trackers map[string]*Inventory
}

func NewLedger() *Ledger {
	return &Ledger{trackers: make(map[string]*Inventory)}
}

func pairKey(eventSlug, outcome string) string {
	return eventSlug + "\x00" + outcome
}

// Tracker returns the inventory for a pair, creating it lazily.
func (l *Ledger) Tracker(eventSlug, outcome string) *Inventory {
	k := pairKey(eventSlug, outcome)
	inv, ok := l.trackers[k]
	if !ok {
		inv = &Inventory{}
		l.trackers[k] = inv
	}
	return inv
}

// Apply replays records through the per-pair trackers in timestamp-ascending
// order. The input slice is not modified.
func (l *Ledger) Apply(records []ActivityRecord) {
	ordered := make([]ActivityRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp < ordered[j].Timestamp
	})
	for _, r := range ordered {
		if r.EventSlug == "" {
			continue
		}
		inv := l.Tracker(r.EventSlug, r.Outcome)
		switch {
		case r.IsBuy():
			inv.Buy(r.Size.Decimal, r.Price.Decimal, r.USDCSize.Decimal)
		case r.IsSell():
			inv.Sell(r.Size.Decimal, r.Price.Decimal, r.USDCSize.Decimal)
		case r.IsRedeem():
			inv.Redeem(r.Size.Decimal, r.USDCSize.Decimal)
		}
	}
}

// TotalRealizedPnL sums realized PnL across every tracked pair.
func (l *Ledger) TotalRealizedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range l.trackers {
		total = total.Add(inv.RealizedPnL)
	}
	return total
}

// TotalUnrealizedPnL marks every open pair at its last observed price.
func (l *Ledger) TotalUnrealizedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, inv := range l.trackers {
		total = total.Add(inv.Unrealized())
	}
	return total
}
