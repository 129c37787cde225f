package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"traderlens/internal/analysis"
	"traderlens/internal/cache"
	"traderlens/internal/client/polymarket/dataapi"
)

// ErrNoActivity means the wallet has no recorded trades. The API layer maps
// it to a 404.
var ErrNoActivity = errors.New("no trading activity found")

// BasicStats is the headline block of an analysis.
type BasicStats struct {
	TotalTrades    int             `json:"totalTrades"`
	TotalBuys      int             `json:"totalBuys"`
	TotalSells     int             `json:"totalSells"`
	TotalRedeems   int             `json:"totalRedeems"`
	TotalVolume    decimal.Decimal `json:"totalVolume"`
	TotalEvents    int             `json:"totalEvents"`
	BuyToSellRatio float64         `json:"buyToSellRatio"`
}

// PnLSummary is the wallet-level profit breakdown reconstructed from the
// activity feed.
type PnLSummary struct {
	Realized   decimal.Decimal `json:"realized"`
	Unrealized decimal.Decimal `json:"unrealized"`
	TotalNet   decimal.Decimal `json:"totalNet"`
	Wins       int             `json:"wins"`
	Losses     int             `json:"losses"`
	OpenEvents int             `json:"openEvents"`
}

// RecentTrade is one row of the recent-activity table.
type RecentTrade struct {
	Title     string          `json:"title"`
	EventSlug string          `json:"eventSlug"`
	Side      string          `json:"side"`
	Type      string          `json:"type"`
	Outcome   string          `json:"outcome,omitempty"`
	Price     float64         `json:"price"`
	Size      decimal.Decimal `json:"size"`
	USDCSize  decimal.Decimal `json:"usdcSize"`
	Timestamp int64           `json:"timestamp"`
}

const recentTradeLimit = 50

// Analysis is the full analytics payload for one wallet. It is what gets
// cached, so every field must survive a JSON round trip unchanged.
type Analysis struct {
	Address      string `json:"address"`
	ShortAddress string `json:"shortAddress"`

	Profile ProfileInfo `json:"profile"`

	BasicStats        BasicStats                 `json:"basicStats"`
	PriceDistribution analysis.PriceDistribution `json:"priceDistribution"`
	BuySellPatterns   analysis.PatternStats      `json:"buySellPatterns"`
	MarketFocus       analysis.MarketFocus       `json:"marketFocus"`
	Timeline          analysis.Timeline          `json:"timeline"`
	Strategy          analysis.StrategyProfile   `json:"strategy"`
	PnL               PnLSummary                 `json:"pnl"`

	CityDistribution []analysis.CityStat       `json:"cityDistribution"`
	EntryExitMap     []analysis.EntryExitPoint `json:"entryExitMap"`

	AllSeries    []*analysis.EventSeries `json:"allSeries"`
	RecentTrades []RecentTrade           `json:"recentTrades"`

	// CachedAt is epoch milliseconds of when this payload was computed.
	CachedAt     int64 `json:"cachedAt"`
	FromCache    bool  `json:"fromCache"`
	CacheAgeMins int   `json:"cacheAgeMins,omitempty"`
}

// Analyzer builds trader analyses from the Polymarket activity feed.
type Analyzer struct {
	Data    *dataapi.Client
	Profile *ProfileService
	Cache   cache.Store
	Logger  *zap.Logger

	// PageSize is the per-request activity page size, MaxRecords the safety
	// cap on how much history a single analysis will pull.
	PageSize   int
	MaxRecords int

	now func() time.Time
}

func (a *Analyzer) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

// LoadAllActivity pages through the wallet's full activity feed and returns
// the deduplicated records. A failure after at least one successful page
// stops the loop and keeps what was fetched; a failure on the first page
// propagates.
func (a *Analyzer) LoadAllActivity(ctx context.Context, address string) ([]analysis.ActivityRecord, error) {
	pageSize := a.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	maxRecords := a.MaxRecords
	if maxRecords <= 0 {
		maxRecords = 50000
	}

	var all []analysis.ActivityRecord
	for offset := 0; ; offset += pageSize {
		page, err := a.Data.Activity(ctx, address, pageSize, offset)
		if err != nil {
			if len(all) == 0 {
				return nil, fmt.Errorf("activity fetch failed: %w", err)
			}
			a.Logger.Warn("activity page fetch failed, keeping partial history",
				zap.String("address", address),
				zap.Int("offset", offset),
				zap.Int("fetched", len(all)),
				zap.Error(err))
			break
		}
		all = append(all, page...)
		if len(page) < pageSize {
			break
		}
		if len(all) >= maxRecords {
			a.Logger.Warn("activity history truncated at safety cap",
				zap.String("address", address),
				zap.Int("cap", maxRecords))
			break
		}
	}
	return analysis.Dedup(all), nil
}

// Analyze returns the analysis for a wallet, from cache when a fresh entry
// exists and refresh is false. Cache failures are logged and never fail the
// request.
func (a *Analyzer) Analyze(ctx context.Context, address string, refresh bool) (*Analysis, error) {
	address = cache.Key(address)

	if !refresh {
		if cached := a.readCache(ctx, address); cached != nil {
			return cached, nil
		}
	}

	records, err := a.LoadAllActivity(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoActivity
	}

	profile := a.Profile.Fetch(ctx, address)
	result := a.build(address, records, profile)
	a.writeCache(ctx, address, result)
	return result, nil
}

func (a *Analyzer) build(address string, records []analysis.ActivityRecord, profile ProfileInfo) *Analysis {
	series := analysis.GroupByEvent(records)
	patterns := analysis.Classify(series)

	ledger := analysis.NewLedger()
	ledger.Apply(records)

	result := &Analysis{
		Address:           address,
		ShortAddress:      shortAddress(address),
		Profile:           profile,
		BasicStats:        buildBasicStats(records, series, patterns),
		PriceDistribution: analysis.DistributePrices(records),
		BuySellPatterns:   patterns,
		MarketFocus:       analysis.BuildMarketFocus(records),
		Timeline:          analysis.BuildTimeline(records),
		Strategy:          analysis.LabelStrategy(patterns),
		PnL:               buildPnL(ledger, series),
		CityDistribution:  analysis.BuildCityDistribution(records),
		EntryExitMap:      analysis.BuildEntryExitMap(records),
		AllSeries:         series,
		RecentTrades:      recentTrades(records),
		CachedAt:          a.clock().UnixMilli(),
	}
	return result
}

func buildBasicStats(records []analysis.ActivityRecord, series []*analysis.EventSeries, patterns analysis.PatternStats) BasicStats {
	stats := BasicStats{
		TotalEvents:    len(series),
		TotalBuys:      patterns.TotalBuys,
		TotalSells:     patterns.TotalSells,
		BuyToSellRatio: patterns.BuyToSellRatio,
	}
	for _, r := range records {
		switch {
		case r.IsTrade():
			stats.TotalTrades++
			stats.TotalVolume = stats.TotalVolume.Add(r.USDCSize.Decimal)
		case r.IsRedeem():
			stats.TotalRedeems++
		}
	}
	return stats
}

func buildPnL(ledger *analysis.Ledger, series []*analysis.EventSeries) PnLSummary {
	pnl := PnLSummary{
		Realized:   ledger.TotalRealizedPnL(),
		Unrealized: ledger.TotalUnrealizedPnL(),
	}
	pnl.TotalNet = pnl.Realized.Add(pnl.Unrealized)
	for _, s := range series {
		switch {
		case s.IsOpen:
			pnl.OpenEvents++
		case s.IsWin:
			pnl.Wins++
		default:
			pnl.Losses++
		}
	}
	return pnl
}

// recentTrades picks the newest trades for display, leaving redeems out of
// the table.
func recentTrades(records []analysis.ActivityRecord) []RecentTrade {
	trades := make([]analysis.ActivityRecord, 0, len(records))
	for _, r := range records {
		if r.IsTrade() {
			trades = append(trades, r)
		}
	}
	sort.SliceStable(trades, func(i, j int) bool { return trades[i].Timestamp > trades[j].Timestamp })
	if len(trades) > recentTradeLimit {
		trades = trades[:recentTradeLimit]
	}
	out := make([]RecentTrade, 0, len(trades))
	for _, r := range trades {
		price, _ := r.Price.Float64()
		out = append(out, RecentTrade{
			Title:     r.Title,
			EventSlug: r.EventSlug,
			Side:      r.Side,
			Type:      r.Type,
			Outcome:   r.Outcome,
			Price:     price,
			Size:      r.Size.Decimal,
			USDCSize:  r.USDCSize.Decimal,
			Timestamp: r.Timestamp,
		})
	}
	return out
}

func shortAddress(address string) string {
	if len(address) < 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

func (a *Analyzer) readCache(ctx context.Context, address string) *Analysis {
	entry, ok, err := a.Cache.Get(ctx, address)
	if err != nil {
		a.Logger.Warn("cache read failed", zap.String("address", address), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	var result Analysis
	if err := json.Unmarshal(entry.Payload, &result); err != nil {
		a.Logger.Warn("cache entry corrupt, recomputing", zap.String("address", address), zap.Error(err))
		return nil
	}
	result.FromCache = true
	result.CacheAgeMins = int(a.clock().Sub(entry.CachedAt).Minutes())
	return &result
}

func (a *Analyzer) writeCache(ctx context.Context, address string, result *Analysis) {
	payload, err := json.Marshal(result)
	if err != nil {
		a.Logger.Warn("cache marshal failed", zap.String("address", address), zap.Error(err))
		return
	}
	entry := &cache.Entry{
		Address:  address,
		Payload:  payload,
		CachedAt: a.clock(),
	}
	if err := a.Cache.Put(ctx, entry); err != nil {
		a.Logger.Warn("cache write failed", zap.String("address", address), zap.Error(err))
	}
}
