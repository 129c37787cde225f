package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Client talks to the Open-Meteo forecast and archive APIs for one location.
// Open-Meteo is keyless; the only state is the coordinates and base URLs.
type Client struct {
	forecastURL string
	archiveURL  string
	httpClient  *http.Client

	Latitude  float64
	Longitude float64
	Timezone  string
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("open-meteo error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, forecastURL, archiveURL string, lat, lon float64, tz string) *Client {
	if forecastURL == "" {
		forecastURL = "https://api.open-meteo.com/v1/forecast"
	}
	if archiveURL == "" {
		archiveURL = "https://archive-api.open-meteo.com/v1/archive"
	}
	if tz == "" {
		tz = "UTC"
	}
	return &Client{
		forecastURL: forecastURL,
		archiveURL:  archiveURL,
		httpClient:  httpClient,
		Latitude:    lat,
		Longitude:   lon,
		Timezone:    tz,
	}
}

// HourlyBlock is the hourly series shape shared by forecast and archive
// responses: parallel arrays of ISO times and values.
type HourlyBlock struct {
	Time          []string  `json:"time"`
	Temperature2M []float64 `json:"temperature_2m"`
}

type DailyBlock struct {
	Time              []string  `json:"time"`
	Temperature2MMax  []float64 `json:"temperature_2m_max"`
	Temperature2MMin  []float64 `json:"temperature_2m_min"`
	Temperature2MMean []float64 `json:"temperature_2m_mean"`
}

type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	WeatherCode int     `json:"weathercode"`
	Time        string  `json:"time"`
}

type Response struct {
	Hourly         *HourlyBlock    `json:"hourly"`
	Daily          *DailyBlock     `json:"daily"`
	CurrentWeather *CurrentWeather `json:"current_weather"`
}

func (c *Client) get(ctx context.Context, base string, query url.Values) (*Response, error) {
	query.Set("latitude", strconv.FormatFloat(c.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(c.Longitude, 'f', 4, 64))
	query.Set("timezone", c.Timezone)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// Forecast fetches the hourly temperature forecast plus current conditions
// for today and tomorrow.
func (c *Client) Forecast(ctx context.Context) (*Response, error) {
	query := url.Values{}
	query.Set("hourly", "temperature_2m")
	query.Set("current_weather", "true")
	query.Set("forecast_days", "2")
	return c.get(ctx, c.forecastURL, query)
}

// ArchiveDaily fetches daily max/min/mean temperatures for one past date.
func (c *Client) ArchiveDaily(ctx context.Context, date string) (*Response, error) {
	query := url.Values{}
	query.Set("start_date", date)
	query.Set("end_date", date)
	query.Set("daily", "temperature_2m_max,temperature_2m_min,temperature_2m_mean")
	return c.get(ctx, c.archiveURL, query)
}

// ArchiveHourly fetches the hourly temperature series for one past date.
func (c *Client) ArchiveHourly(ctx context.Context, date string) (*Response, error) {
	query := url.Values{}
	query.Set("start_date", date)
	query.Set("end_date", date)
	query.Set("hourly", "temperature_2m")
	return c.get(ctx, c.archiveURL, query)
}

// YearMax is one year's daily-high observation for a month-day.
type YearMax struct {
	Date    string   `json:"date"`
	Year    int      `json:"year"`
	MaxTemp *float64 `json:"maxTemp"`
}

// HistoricalRange fetches the daily high for the same month-day over the
// previous `years` years, concurrently. Failed years come back with a nil
// MaxTemp instead of failing the whole lookup.
func (c *Client) HistoricalRange(ctx context.Context, monthDay string, years int) ([]YearMax, error) {
	currentYear := time.Now().UTC().Year()
	out := make([]YearMax, years)
	var wg sync.WaitGroup
	for i := 0; i < years; i++ {
		year := currentYear - years + i
		date := fmt.Sprintf("%04d-%s", year, monthDay)
		out[i] = YearMax{Date: date, Year: year}
		wg.Add(1)
		go func(slot int, date string) {
			defer wg.Done()
			resp, err := c.ArchiveDaily(ctx, date)
			if err != nil || resp.Daily == nil || len(resp.Daily.Temperature2MMax) == 0 {
				return
			}
			v := resp.Daily.Temperature2MMax[0]
			out[slot].MaxTemp = &v
		}(i, date)
	}
	wg.Wait()
	return out, nil
}

// YearPeak is one year's warmest moment for a month-day.
type YearPeak struct {
	Year        int      `json:"year"`
	PeakTemp    *float64 `json:"peakTemp"`
	PeakTime    *string  `json:"peakTime"`
	PeakMinutes *int     `json:"peakMinutes"`
}

// HistoricalPeakTimes fetches hourly series for the same month-day over the
// previous `years` years and extracts when the daily high occurred.
func (c *Client) HistoricalPeakTimes(ctx context.Context, monthDay string, years int) ([]YearPeak, error) {
	currentYear := time.Now().UTC().Year()
	out := make([]YearPeak, years)
	var wg sync.WaitGroup
	for i := 0; i < years; i++ {
		year := currentYear - years + i
		date := fmt.Sprintf("%04d-%s", year, monthDay)
		out[i] = YearPeak{Year: year}
		wg.Add(1)
		go func(slot int, date string) {
			defer wg.Done()
			resp, err := c.ArchiveHourly(ctx, date)
			if err != nil || resp.Hourly == nil {
				return
			}
			temp, hhmm, minutes, ok := ExtractPeak(resp.Hourly.Time, resp.Hourly.Temperature2M)
			if !ok {
				return
			}
			out[slot].PeakTemp = &temp
			out[slot].PeakTime = &hhmm
			out[slot].PeakMinutes = &minutes
		}(i, date)
	}
	wg.Wait()
	return out, nil
}

// ExtractPeak finds the warmest entry of an hourly series and returns its
// temperature, "HH:MM" label and minutes-past-midnight offset.
func ExtractPeak(times []string, temps []float64) (temp float64, hhmm string, minutes int, ok bool) {
	for i, ts := range times {
		if i >= len(temps) {
			break
		}
		m, valid := minutesOfDay(ts)
		if !valid {
			continue
		}
		if !ok || temps[i] > temp {
			temp = temps[i]
			minutes = m
			ok = true
		}
	}
	if !ok {
		return 0, "", 0, false
	}
	hhmm = FormatMinutes(minutes)
	return temp, hhmm, minutes, true
}

// FormatMinutes renders minutes past midnight as "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func minutesOfDay(iso string) (int, bool) {
	// Times look like "2026-01-13T15:00".
	idx := strings.IndexByte(iso, 'T')
	if idx < 0 || len(iso) < idx+6 {
		return 0, false
	}
	hour, err := strconv.Atoi(iso[idx+1 : idx+3])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(iso[idx+4 : idx+6])
	if err != nil {
		return 0, false
	}
	return hour*60 + minute, true
}
