package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"traderlens/internal/client/polymarket/dataapi"
	"traderlens/internal/client/polymarket/gamma"
	"traderlens/internal/client/polymarket/leaderboard"
	"traderlens/internal/client/polymarket/pnlapi"
)

func newTestProfileService(upstream string) *ProfileService {
	httpClient := &http.Client{Timeout: 5 * time.Second}
	return &ProfileService{
		Gamma:       gamma.NewClient(httpClient, upstream),
		Data:        dataapi.NewClient(httpClient, upstream),
		PnL:         pnlapi.NewClient(httpClient, upstream),
		Leaderboard: leaderboard.NewClient(httpClient, upstream),
		Logger:      zap.NewNop(),
	}
}

func TestFetchPrefersDataAPITradedVolume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/traded":
			fmt.Fprintf(w, `{"user":%q,"traded":42.5}`, testAddress)
		case "/volume":
			t.Errorf("leaderboard fallback must not fire when the data-api answers")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	info := newTestProfileService(srv.URL).Fetch(context.Background(), testAddress)
	if info.TradedVolume != 42.5 {
		t.Fatalf("traded volume = %v, want 42.5", info.TradedVolume)
	}
}

func TestFetchFallsBackToLeaderboardVolume(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/traded":
			http.Error(w, "down", http.StatusInternalServerError)
		case "/volume":
			fmt.Fprintf(w, `[{"proxyWallet":%q,"name":"trader","amount":1234.5}]`, testAddress)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	info := newTestProfileService(srv.URL).Fetch(context.Background(), testAddress)
	if info.TradedVolume != 1234.5 {
		t.Fatalf("traded volume = %v, want leaderboard fallback 1234.5", info.TradedVolume)
	}
}

func TestFetchDegradesToZeroValues(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	info := newTestProfileService(srv.URL).Fetch(context.Background(), testAddress)
	if info.TradedVolume != 0 || info.PortfolioValue != 0 || info.Username != "" {
		t.Fatalf("all legs down must leave zero values: %+v", info)
	}
	if info.PnLHistory == nil {
		t.Fatalf("pnl history must marshal as [], not null")
	}
}
