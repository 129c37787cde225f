package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"traderlens/internal/client/openmeteo"
)

func newWeatherService(upstream string) *WeatherService {
	return &WeatherService{
		Meteo:  openmeteo.NewClient(&http.Client{Timeout: 5 * time.Second}, upstream, upstream, 51.5, -0.12, "UTC"),
		Logger: zap.NewNop(),
	}
}

func TestForecastSplitsDays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"current_weather": {"temperature": 8.5, "time": "2026-01-13T11:00"},
			"hourly": {
				"time": ["2026-01-13T06:00","2026-01-13T14:00","2026-01-14T06:00","2026-01-14T15:00"],
				"temperature_2m": [3.0, 9.1, 2.0, 7.4]
			}
		}`)
	}))
	defer srv.Close()

	result, err := newWeatherService(srv.URL).Forecast(context.Background())
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if result.Current == nil || result.Current.Temperature != 8.5 {
		t.Fatalf("current weather missing")
	}
	if result.PeakToday == nil || result.PeakToday.Temp != 9.1 || result.PeakToday.Time != "14:00" {
		t.Fatalf("today's peak wrong: %+v", result.PeakToday)
	}
	if result.PeakTomorrow == nil || result.PeakTomorrow.Temp != 7.4 || result.PeakTomorrow.Time != "15:00" {
		t.Fatalf("tomorrow's peak wrong: %+v", result.PeakTomorrow)
	}
}

func TestHistoricalCombinesDailyAndHourly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("daily") != "" {
			fmt.Fprint(w, `{"daily": {
				"time": ["2025-06-14"],
				"temperature_2m_max": [27.4],
				"temperature_2m_min": [14.1],
				"temperature_2m_mean": [20.2]
			}}`)
			return
		}
		fmt.Fprint(w, `{"hourly": {
			"time": ["2025-06-14T10:00","2025-06-14T15:00"],
			"temperature_2m": [22.0, 27.4]
		}}`)
	}))
	defer srv.Close()

	result, err := newWeatherService(srv.URL).Historical(context.Background(), "2025-06-14")
	if err != nil {
		t.Fatalf("historical: %v", err)
	}
	if result.MaxTemp == nil || *result.MaxTemp != 27.4 {
		t.Fatalf("max temp missing")
	}
	if result.MeanTemp == nil || *result.MeanTemp != 20.2 {
		t.Fatalf("mean temp missing")
	}
	if result.Peak == nil || result.Peak.Time != "15:00" {
		t.Fatalf("peak wrong: %+v", result.Peak)
	}
}

func TestHistoricalRangeRejectsBadDate(t *testing.T) {
	svc := newWeatherService("http://127.0.0.1:1")
	if _, err := svc.HistoricalRange(context.Background(), "13-01"); err == nil {
		t.Fatalf("short date must be rejected before any fetch")
	}
	if _, err := svc.HistoricalPeakTimes(context.Background(), "2026/01/13"); err == nil {
		t.Fatalf("malformed date must be rejected before any fetch")
	}
}

func TestMonthDayOf(t *testing.T) {
	got, err := monthDayOf("2026-01-13")
	if err != nil || got != "01-13" {
		t.Fatalf("monthDayOf = %q, %v", got, err)
	}
}
