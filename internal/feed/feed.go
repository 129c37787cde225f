package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

const DefaultMarketWSSURL = "wss://ws-subscriptions-clob.polymarket.com/ws/market"

// ErrMaxAttempts is returned by Run when the reconnect budget is exhausted.
var ErrMaxAttempts = errors.New("feed: reconnect attempts exhausted")

// PriceUpdate is one live price event from the market channel.
type PriceUpdate struct {
	EventType string `json:"event_type"`
	AssetID   string `json:"asset_id"`
	Market    string `json:"market"`
	Price     string `json:"price"`
	Side      string `json:"side"`
	Size      string `json:"size"`
	Timestamp string `json:"timestamp"`
}

// PriceFeed is a capability handle on the live price stream. Consumers
// subscribe and unsubscribe explicitly; the feed owns its reconnect policy.
// Close shuts the Updates channel so ranging consumers terminate; Run calls
// it on the way out.
type PriceFeed interface {
	Subscribe(assetIDs ...string)
	Unsubscribe(assetIDs ...string)
	Updates() <-chan PriceUpdate
	Run(ctx context.Context) error
	Close()
}

type subscribeRequest struct {
	Type      string   `json:"type"`
	AssetsIDs []string `json:"assets_ids,omitempty"`
}

type subscriptionUpdate struct {
	AssetsIDs []string `json:"assets_ids"`
	Operation string   `json:"operation"`
}

// Options configure a ClobFeed.
type Options struct {
	URL         string
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	MaxAttempts int // 0 means retry forever
	BufferSize  int
	Logger      *zap.Logger
}

// ClobFeed streams the CLOB market channel with exponential backoff and
// resubscription after reconnects.
type ClobFeed struct {
	opts    Options
	updates chan PriceUpdate

	mu      sync.Mutex
	desired map[string]struct{}
	dirty   chan struct{}
	closed  bool

	closeOnce sync.Once
}

func New(opts Options) *ClobFeed {
	if strings.TrimSpace(opts.URL) == "" {
		opts.URL = DefaultMarketWSSURL
	}
	if opts.BackoffMin == 0 {
		opts.BackoffMin = 1 * time.Second
	}
	if opts.BackoffMax == 0 {
		opts.BackoffMax = 30 * time.Second
	}
	if opts.BufferSize == 0 {
		opts.BufferSize = 256
	}
	return &ClobFeed{
		opts:    opts,
		updates: make(chan PriceUpdate, opts.BufferSize),
		desired: make(map[string]struct{}),
		dirty:   make(chan struct{}, 1),
	}
}

func (f *ClobFeed) Subscribe(assetIDs ...string) {
	f.mu.Lock()
	for _, id := range assetIDs {
		if id != "" {
			f.desired[id] = struct{}{}
		}
	}
	f.mu.Unlock()
	f.markDirty()
}

func (f *ClobFeed) Unsubscribe(assetIDs ...string) {
	f.mu.Lock()
	for _, id := range assetIDs {
		delete(f.desired, id)
	}
	f.mu.Unlock()
	f.markDirty()
}

func (f *ClobFeed) Updates() <-chan PriceUpdate { return f.updates }

// Close shuts the update channel. Safe to call more than once and
// concurrently with deliveries; late updates are dropped.
func (f *ClobFeed) Close() {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		f.closed = true
		close(f.updates)
		f.mu.Unlock()
	})
}

func (f *ClobFeed) markDirty() {
	select {
	case f.dirty <- struct{}{}:
	default:
	}
}

func (f *ClobFeed) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.desired))
	for id := range f.desired {
		ids = append(ids, id)
	}
	return ids
}

// Run drives the connect/consume/reconnect loop until the context is
// cancelled or the attempt budget runs out.
func (f *ClobFeed) Run(ctx context.Context) error {
	defer f.Close()
	backoff := f.opts.BackoffMin
	attempts := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, _, err := websocket.Dial(ctx, f.opts.URL, nil)
		if err != nil {
			attempts++
			if f.opts.Logger != nil {
				f.opts.Logger.Warn("feed connect failed", zap.Int("attempt", attempts), zap.Error(err))
			}
			if f.opts.MaxAttempts > 0 && attempts >= f.opts.MaxAttempts {
				return fmt.Errorf("%w: %d attempts", ErrMaxAttempts, attempts)
			}
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, f.opts.BackoffMax)
			continue
		}
		// Book snapshots can be large; raise the read limit above default.
		conn.SetReadLimit(2 << 20)

		if err := f.subscribeCurrent(ctx, conn); err != nil {
			_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
			attempts++
			if f.opts.MaxAttempts > 0 && attempts >= f.opts.MaxAttempts {
				return fmt.Errorf("%w: %d attempts", ErrMaxAttempts, attempts)
			}
			if err := sleepWithJitter(ctx, backoff); err != nil {
				return err
			}
			backoff = nextBackoff(backoff, f.opts.BackoffMax)
			continue
		}
		if f.opts.Logger != nil {
			f.opts.Logger.Info("feed connected", zap.Int("assets", len(f.snapshot())))
		}
		attempts = 0
		backoff = f.opts.BackoffMin

		err = f.consume(ctx, conn)
		_ = conn.Close(websocket.StatusNormalClosure, "reconnect")
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return ctx.Err()
		}
		if f.opts.Logger != nil {
			f.opts.Logger.Warn("feed disconnected", zap.Error(err))
		}
		if err := sleepWithJitter(ctx, backoff); err != nil {
			return err
		}
		backoff = nextBackoff(backoff, f.opts.BackoffMax)
	}
}

func (f *ClobFeed) subscribeCurrent(ctx context.Context, conn *websocket.Conn) error {
	ids := f.snapshot()
	if len(ids) == 0 {
		return nil
	}
	payload, err := json.Marshal(subscribeRequest{Type: "market", AssetsIDs: ids})
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

func (f *ClobFeed) consume(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.dirty:
			// Simplest correct behavior: resend the full desired set.
			if err := f.subscribeCurrent(ctx, conn); err != nil {
				return err
			}
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		_, data, err := conn.Read(readCtx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		f.dispatch(data)
	}
}

func (f *ClobFeed) dispatch(data []byte) {
	// The channel multiplexes several event shapes; batches arrive as arrays.
	if len(data) > 0 && data[0] == '[' {
		var batch []PriceUpdate
		if err := json.Unmarshal(data, &batch); err != nil {
			return
		}
		for _, u := range batch {
			f.deliver(u)
		}
		return
	}
	var u PriceUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return
	}
	f.deliver(u)
}

func (f *ClobFeed) deliver(u PriceUpdate) {
	if u.EventType == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.updates <- u:
	default:
		// Slow consumer: drop rather than stall the read loop.
	}
}

func sleepWithJitter(ctx context.Context, d time.Duration) error {
	jitter := time.Duration(rand.Int63n(int64(d)/2 + 1))
	t := time.NewTimer(d + jitter)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}
