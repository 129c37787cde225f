package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAddressPattern(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x1234567890abcdef1234567890abcdef12345678", true},
		{"0x1234567890ABCDEF1234567890ABCDEF12345678", true},
		{"1234567890abcdef1234567890abcdef12345678", false},
		{"0x1234", false},
		{"0x1234567890abcdef1234567890abcdef1234567890", false},
		{"0x1234567890abcdef1234567890abcdef1234567g", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := addressPattern.MatchString(tt.in); got != tt.want {
			t.Fatalf("addressPattern(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTraderHandlerRejectsBadAddress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	// Analyzer stays nil: validation must reject before any use of it.
	h := &TraderHandler{}
	h.Register(engine)

	for _, addr := range []string{"", "not-an-address", "0x123"} {
		req := httptest.NewRequest(http.MethodGet, "/api/trader/analysis?address="+addr, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("address %q: status = %d, want 400", addr, rec.Code)
		}
	}
}

func TestWeatherHandlerRequiresDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &WeatherHandler{}
	h.Register(engine)

	for _, target := range []string{
		"/api/weather?type=historical",
		"/api/weather?type=historical-range&date=13-01",
		"/api/weather?type=historical-peak-time&date=2026/01/13",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestWeatherHandlerRejectsUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &WeatherHandler{}
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/weather?type=nonsense&date=2026-01-13", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTrackerHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &TrackerHandler{}
	h.Register(engine)

	req := httptest.NewRequest(http.MethodGet, "/api/tracker/trades", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}
