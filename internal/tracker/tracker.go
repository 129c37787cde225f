package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"traderlens/internal/analysis"
	"traderlens/internal/client/polymarket/dataapi"
)

const (
	snapshotLimit = 100

	// seenLimit bounds the dedup set. It is far larger than any poll page,
	// so a key only ages out long after the trade left the upstream window.
	seenLimit = 1000
)

// WalletTracker polls the recent activity of a fixed set of wallets and
// keeps a rolling window of trades it has not seen before. It is a
// cancellable task owned by the caller, not a background singleton.
type WalletTracker struct {
	Data     *dataapi.Client
	Logger   *zap.Logger
	Wallets  []string
	Interval time.Duration
	Limit    int

	mu       sync.Mutex
	seen     map[string]struct{}
	seenKeys []string
	maxSeen  int
	recent   []TrackedTrade
	cancel   context.CancelFunc
	done     chan struct{}
}

// TrackedTrade is one newly observed trade for a tracked wallet.
type TrackedTrade struct {
	Wallet     string                  `json:"wallet"`
	Record     analysis.ActivityRecord `json:"record"`
	ObservedAt time.Time               `json:"observedAt"`
}

// Start launches the polling loop. The first poll runs immediately so the
// snapshot is useful right after startup. Calling Start twice is an error in
// the caller; the second loop would race the first.
func (t *WalletTracker) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	if t.seen == nil {
		t.seen = make(map[string]struct{})
	}
	interval := t.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		defer close(t.done)
		t.pollAll(ctx)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.pollAll(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for the in-flight poll to finish.
func (t *WalletTracker) Stop() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
}

// Snapshot returns the rolling window of observed trades, newest first.
func (t *WalletTracker) Snapshot() []TrackedTrade {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TrackedTrade, len(t.recent))
	for i, tr := range t.recent {
		out[len(t.recent)-1-i] = tr
	}
	return out
}

func (t *WalletTracker) pollAll(ctx context.Context) {
	for _, wallet := range t.Wallets {
		if ctx.Err() != nil {
			return
		}
		t.poll(ctx, wallet)
	}
}

func (t *WalletTracker) poll(ctx context.Context, wallet string) {
	limit := t.Limit
	if limit <= 0 {
		limit = 50
	}
	records, err := t.Data.Activity(ctx, wallet, limit, 0)
	if err != nil {
		t.Logger.Warn("tracker poll failed", zap.String("wallet", wallet), zap.Error(err))
		return
	}
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, r := range records {
		key := wallet + "|" + r.Key()
		if _, ok := t.seen[key]; ok {
			continue
		}
		t.remember(key)
		t.recent = append(t.recent, TrackedTrade{Wallet: wallet, Record: r, ObservedAt: now})
		t.Logger.Info("tracked wallet trade",
			zap.String("wallet", wallet),
			zap.String("side", r.Side),
			zap.String("type", r.Type),
			zap.String("event", r.EventSlug),
			zap.String("usdc", r.USDCSize.String()))
	}
	if overflow := len(t.recent) - snapshotLimit; overflow > 0 {
		t.recent = append([]TrackedTrade(nil), t.recent[overflow:]...)
	}
}

// remember records a dedup key, evicting the oldest keys once the set is
// full so it cannot grow without bound over a long-running process.
func (t *WalletTracker) remember(key string) {
	t.seen[key] = struct{}{}
	t.seenKeys = append(t.seenKeys, key)
	limit := t.maxSeen
	if limit <= 0 {
		limit = seenLimit
	}
	if overflow := len(t.seenKeys) - limit; overflow > 0 {
		for _, old := range t.seenKeys[:overflow] {
			delete(t.seen, old)
		}
		t.seenKeys = append([]string(nil), t.seenKeys[overflow:]...)
	}
}
