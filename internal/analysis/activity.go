package analysis

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SideBuy  = "BUY"
	SideSell = "SELL"

	TypeTrade  = "TRADE"
	TypeRedeem = "REDEEM"
)

// Amount decodes a JSON number or numeric string into a decimal.
// The data-api is inconsistent about which it sends; malformed or missing
// values coerce to zero so a single bad record cannot abort an aggregation.
type Amount struct {
	decimal.Decimal
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		a.Decimal = d
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// ActivityRecord is one on-chain-derived event from the data-api activity feed.
type ActivityRecord struct {
	TransactionHash string `json:"transactionHash"`
	Asset           string `json:"asset"`
	Side            string `json:"side"`
	Type            string `json:"type"`
	Timestamp       int64  `json:"timestamp"`
	Price           Amount `json:"price"`
	Size            Amount `json:"size"`
	USDCSize        Amount `json:"usdcSize"`
	Outcome         string `json:"outcome"`
	EventSlug       string `json:"eventSlug"`
	Slug            string `json:"slug"`
	Title           string `json:"title"`
}

// Key is the composite uniqueness key. The same on-chain transaction shows up
// on multiple pages of a paginated fetch and must collapse to one record.
func (r ActivityRecord) Key() string {
	return r.TransactionHash + "-" + r.Asset + "-" + r.Side
}

func (r ActivityRecord) IsTrade() bool  { return r.Type == TypeTrade }
func (r ActivityRecord) IsRedeem() bool { return r.Type == TypeRedeem }
func (r ActivityRecord) IsBuy() bool    { return r.Type == TypeTrade && r.Side == SideBuy }
func (r ActivityRecord) IsSell() bool   { return r.Type == TypeTrade && r.Side == SideSell }

// Dedup removes duplicate records by composite key, first occurrence wins.
// Idempotent: Dedup(Dedup(x)) == Dedup(x).
func Dedup(records []ActivityRecord) []ActivityRecord {
	seen := make(map[string]struct{}, len(records))
	out := make([]ActivityRecord, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
