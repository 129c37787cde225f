package analysis

import (
	"encoding/json"
	"testing"
)

func TestAmountUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"1.25"`, "1.25"},
		{`1.25`, "1.25"},
		{`0`, "0"},
		{`null`, "0"},
		{`""`, "0"},
		{`"not-a-number"`, "0"},
		{`" 3.5 "`, "3.5"},
	}
	for _, tt := range tests {
		var a Amount
		if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if got := a.String(); got != tt.want {
			t.Fatalf("Amount(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDedup(t *testing.T) {
	records := []ActivityRecord{
		{TransactionHash: "0xaa", Asset: "1", Side: SideBuy, Title: "first"},
		{TransactionHash: "0xaa", Asset: "1", Side: SideSell},
		{TransactionHash: "0xaa", Asset: "1", Side: SideBuy, Title: "duplicate"},
		{TransactionHash: "0xbb", Asset: "1", Side: SideBuy},
	}
	got := Dedup(records)
	if len(got) != 3 {
		t.Fatalf("expected 3 unique records, got %d", len(got))
	}
	// First occurrence wins.
	if got[0].Title != "first" {
		t.Fatalf("expected first occurrence kept, got %q", got[0].Title)
	}
	again := Dedup(got)
	if len(again) != len(got) {
		t.Fatalf("dedup not idempotent: %d -> %d", len(got), len(again))
	}
}

func TestRecordKindHelpers(t *testing.T) {
	buy := ActivityRecord{Type: TypeTrade, Side: SideBuy}
	sell := ActivityRecord{Type: TypeTrade, Side: SideSell}
	redeem := ActivityRecord{Type: TypeRedeem}

	if !buy.IsBuy() || buy.IsSell() || buy.IsRedeem() {
		t.Fatalf("buy record misclassified")
	}
	if !sell.IsSell() || sell.IsBuy() {
		t.Fatalf("sell record misclassified")
	}
	if !redeem.IsRedeem() || redeem.IsTrade() {
		t.Fatalf("redeem record misclassified")
	}
}
