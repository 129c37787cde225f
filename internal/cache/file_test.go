package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testAddr = "0xAbCd567890abcdef1234567890abcdef12345678"

func newTestStore(t *testing.T, ttl time.Duration) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), ttl, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()

	entry := &Entry{
		Address:  testAddr,
		Payload:  json.RawMessage(`{"hello":"world"}`),
		CachedAt: time.Now(),
	}
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("put: %v", err)
	}

	// The key is case-insensitive.
	got, ok, err := store.Get(ctx, "0xabcd567890ABCDEF1234567890abcdef12345678")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got.Payload) != `{"hello":"world"}` {
		t.Fatalf("payload = %s", got.Payload)
	}
	if got.Address != Key(testAddr) {
		t.Fatalf("stored address not normalized: %q", got.Address)
	}
}

func TestFileStoreMiss(t *testing.T) {
	store := newTestStore(t, time.Hour)
	_, ok, err := store.Get(context.Background(), testAddr)
	if err != nil {
		t.Fatalf("miss must not error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestFileStoreExpiry(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()
	entry := &Entry{
		Address:  testAddr,
		Payload:  json.RawMessage(`{}`),
		CachedAt: time.Now().Add(-2 * time.Hour),
	}
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := store.Get(ctx, testAddr); ok {
		t.Fatalf("expired entry must be a miss")
	}
}

func TestFileStoreCorruptEntryIsMiss(t *testing.T) {
	store := newTestStore(t, time.Hour)
	path := filepath.Join(store.dir, Key(testAddr)+".json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	_, ok, err := store.Get(context.Background(), testAddr)
	if err != nil || ok {
		t.Fatalf("corrupt entry must be a silent miss: ok=%v err=%v", ok, err)
	}
}

func TestFileStoreSweep(t *testing.T) {
	store := newTestStore(t, time.Hour)
	ctx := context.Background()
	now := time.Now()

	fresh := &Entry{Address: "0x1111111111111111111111111111111111111111", Payload: json.RawMessage(`{}`), CachedAt: now}
	stale := &Entry{Address: "0x2222222222222222222222222222222222222222", Payload: json.RawMessage(`{}`), CachedAt: now.Add(-3 * time.Hour)}
	if err := store.Put(ctx, fresh); err != nil {
		t.Fatalf("put fresh: %v", err)
	}
	if err := store.Put(ctx, stale); err != nil {
		t.Fatalf("put stale: %v", err)
	}

	removed, err := store.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok, _ := store.Get(ctx, fresh.Address); !ok {
		t.Fatalf("fresh entry must survive the sweep")
	}
	if _, ok, _ := store.Get(ctx, stale.Address); ok {
		t.Fatalf("stale entry must be gone")
	}
}

func TestKey(t *testing.T) {
	if Key("  0xABC  ") != "0xabc" {
		t.Fatalf("Key must trim and lower-case")
	}
}
