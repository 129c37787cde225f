package analysis

import "fmt"

// StrategyProfile is the categorical trading-style label with its canned
// description and derived entry/exit rules. It is a lookup table over a few
// aggregate stats, not an inference of any kind.
type StrategyProfile struct {
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	DecisionRules []string `json:"decisionRules"`
}

const (
	StrategyCheapScalper  = "cheap entries, quick exits"
	StrategyCheapHolder   = "cheap entries, hold to expiry"
	StrategyMidHolder     = "mid-price entries, hold to expiry"
	StrategyTrendFollower = "high-conviction trend following"
	StrategyMixed         = "mixed"
)

// LabelStrategy picks one of five fixed labels from the average buy price
// and the early-exit vs hold-to-expiry balance. Rules are evaluated top to
// bottom; the first match wins.
func LabelStrategy(stats PatternStats) StrategyProfile {
	avgBuy := stats.AvgBuyPrice
	earlyExits := stats.EarlyExit
	holds := stats.HoldToExpiry

	var p StrategyProfile
	switch {
	case avgBuy < 0.15 && earlyExits > holds:
		p.Type = StrategyCheapScalper
		p.Description = "Enters at very low prices and sells quickly into small rallies to lock in profit."
	case avgBuy < 0.15 && holds > earlyExits:
		p.Type = StrategyCheapHolder
		p.Description = "Enters at very low prices and holds to settlement, betting on outsized payouts."
	case avgBuy >= 0.15 && avgBuy < 0.4 && holds > earlyExits:
		p.Type = StrategyMidHolder
		p.Description = "Builds positions at mid prices once a trend is forming and holds them to settlement."
	case avgBuy >= 0.4:
		p.Type = StrategyTrendFollower
		p.Description = "Enters after the market has already priced in the outcome, following strong trends for near-certain returns."
	default:
		p.Type = StrategyMixed
		p.Description = "Combines several entry and exit styles with no single dominant pattern."
	}

	if avgBuy < 0.2 {
		p.DecisionRules = append(p.DecisionRules,
			fmt.Sprintf("IF price < %.0f%% THEN buy", avgBuy*100*1.2))
	} else {
		p.DecisionRules = append(p.DecisionRules,
			fmt.Sprintf("IF price in %.0f%%-%.0f%% THEN buy", avgBuy*100*0.8, avgBuy*100*1.2))
	}
	if earlyExits > holds {
		p.DecisionRules = append(p.DecisionRules,
			fmt.Sprintf("IF price reaches %.0f%%+ THEN sell to lock profit", stats.AvgSellPrice*100))
	}
	if holds > 0 {
		p.DecisionRules = append(p.DecisionRules, "IF target price not reached THEN hold to expiry")
	}
	return p
}
