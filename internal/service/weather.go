package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"traderlens/internal/client/openmeteo"
)

const (
	historicalRangeYears = 10
	peakTimeYears        = 30
)

// WeatherService answers the weather routes backing temperature-market
// dashboards. Everything is a thin orchestration over Open-Meteo plus peak
// extraction.
type WeatherService struct {
	Meteo  *openmeteo.Client
	Logger *zap.Logger
}

// DayPeak is the warmest moment of one day's hourly series.
type DayPeak struct {
	Temp    float64 `json:"temp"`
	Time    string  `json:"time"`
	Minutes int     `json:"minutes"`
}

// ForecastResult is current conditions plus the forecast peak for today and
// tomorrow.
type ForecastResult struct {
	Current      *openmeteo.CurrentWeather `json:"current"`
	Hourly       *openmeteo.HourlyBlock    `json:"hourly"`
	PeakToday    *DayPeak                  `json:"peakToday"`
	PeakTomorrow *DayPeak                  `json:"peakTomorrow"`
}

// Forecast fetches the two-day hourly forecast and extracts each day's peak.
func (s *WeatherService) Forecast(ctx context.Context) (*ForecastResult, error) {
	resp, err := s.Meteo.Forecast(ctx)
	if err != nil {
		return nil, fmt.Errorf("forecast fetch failed: %w", err)
	}
	result := &ForecastResult{
		Current: resp.CurrentWeather,
		Hourly:  resp.Hourly,
	}
	if resp.Hourly == nil || len(resp.Hourly.Time) == 0 {
		return result, nil
	}
	today := dayPrefix(resp.Hourly.Time[0])
	var todayTimes, tomorrowTimes []string
	var todayTemps, tomorrowTemps []float64
	for i, ts := range resp.Hourly.Time {
		if i >= len(resp.Hourly.Temperature2M) {
			break
		}
		if dayPrefix(ts) == today {
			todayTimes = append(todayTimes, ts)
			todayTemps = append(todayTemps, resp.Hourly.Temperature2M[i])
		} else {
			tomorrowTimes = append(tomorrowTimes, ts)
			tomorrowTemps = append(tomorrowTemps, resp.Hourly.Temperature2M[i])
		}
	}
	result.PeakToday = extractDayPeak(todayTimes, todayTemps)
	result.PeakTomorrow = extractDayPeak(tomorrowTimes, tomorrowTemps)
	return result, nil
}

// HistoricalResult combines one past day's summary stats with when its high
// occurred.
type HistoricalResult struct {
	Date     string                 `json:"date"`
	MaxTemp  *float64               `json:"maxTemp"`
	MinTemp  *float64               `json:"minTemp"`
	MeanTemp *float64               `json:"meanTemp"`
	Peak     *DayPeak               `json:"peak"`
	Hourly   *openmeteo.HourlyBlock `json:"hourly"`
}

// Historical fetches daily stats and the hourly series for one past date.
// The daily and hourly legs fail independently.
func (s *WeatherService) Historical(ctx context.Context, date string) (*HistoricalResult, error) {
	result := &HistoricalResult{Date: date}

	daily, dailyErr := s.Meteo.ArchiveDaily(ctx, date)
	if dailyErr == nil && daily.Daily != nil {
		d := daily.Daily
		if len(d.Temperature2MMax) > 0 {
			result.MaxTemp = &d.Temperature2MMax[0]
		}
		if len(d.Temperature2MMin) > 0 {
			result.MinTemp = &d.Temperature2MMin[0]
		}
		if len(d.Temperature2MMean) > 0 {
			result.MeanTemp = &d.Temperature2MMean[0]
		}
	}

	hourly, hourlyErr := s.Meteo.ArchiveHourly(ctx, date)
	if hourlyErr == nil && hourly.Hourly != nil {
		result.Hourly = hourly.Hourly
		result.Peak = extractDayPeak(hourly.Hourly.Time, hourly.Hourly.Temperature2M)
	}

	if dailyErr != nil && hourlyErr != nil {
		return nil, fmt.Errorf("archive fetch failed: %w", dailyErr)
	}
	if dailyErr != nil {
		s.Logger.Warn("daily archive fetch failed", zap.String("date", date), zap.Error(dailyErr))
	}
	if hourlyErr != nil {
		s.Logger.Warn("hourly archive fetch failed", zap.String("date", date), zap.Error(hourlyErr))
	}
	return result, nil
}

// RangeResult is the same calendar day's high over the past ten years.
type RangeResult struct {
	MonthDay string              `json:"monthDay"`
	Years    []openmeteo.YearMax `json:"years"`
	AvgMax   *float64            `json:"avgMax"`
}

// HistoricalRange fetches this calendar day's high for each of the past ten
// years. Years Open-Meteo cannot answer for stay null.
func (s *WeatherService) HistoricalRange(ctx context.Context, date string) (*RangeResult, error) {
	monthDay, err := monthDayOf(date)
	if err != nil {
		return nil, err
	}
	years, err := s.Meteo.HistoricalRange(ctx, monthDay, historicalRangeYears)
	if err != nil {
		return nil, fmt.Errorf("historical range fetch failed: %w", err)
	}
	result := &RangeResult{MonthDay: monthDay, Years: years}
	sum, n := 0.0, 0
	for _, y := range years {
		if y.MaxTemp != nil {
			sum += *y.MaxTemp
			n++
		}
	}
	if n > 0 {
		avg := sum / float64(n)
		result.AvgMax = &avg
	}
	return result, nil
}

// PeakTimeResult is when the daily high landed on this calendar day over the
// past thirty years.
type PeakTimeResult struct {
	MonthDay    string               `json:"monthDay"`
	Years       []openmeteo.YearPeak `json:"years"`
	AvgPeakTime *string              `json:"avgPeakTime"`
	AvgMinutes  *int                 `json:"avgPeakMinutes"`
}

// HistoricalPeakTimes fetches thirty years of hourly series for this calendar
// day and averages when the high occurred.
func (s *WeatherService) HistoricalPeakTimes(ctx context.Context, date string) (*PeakTimeResult, error) {
	monthDay, err := monthDayOf(date)
	if err != nil {
		return nil, err
	}
	years, err := s.Meteo.HistoricalPeakTimes(ctx, monthDay, peakTimeYears)
	if err != nil {
		return nil, fmt.Errorf("peak time fetch failed: %w", err)
	}
	result := &PeakTimeResult{MonthDay: monthDay, Years: years}
	sum, n := 0, 0
	for _, y := range years {
		if y.PeakMinutes != nil {
			sum += *y.PeakMinutes
			n++
		}
	}
	if n > 0 {
		avg := sum / n
		hhmm := openmeteo.FormatMinutes(avg)
		result.AvgMinutes = &avg
		result.AvgPeakTime = &hhmm
	}
	return result, nil
}

func extractDayPeak(times []string, temps []float64) *DayPeak {
	temp, hhmm, minutes, ok := openmeteo.ExtractPeak(times, temps)
	if !ok {
		return nil
	}
	return &DayPeak{Temp: temp, Time: hhmm, Minutes: minutes}
}

func dayPrefix(iso string) string {
	if idx := strings.IndexByte(iso, 'T'); idx > 0 {
		return iso[:idx]
	}
	return iso
}

// monthDayOf extracts "MM-DD" from a "YYYY-MM-DD" date.
func monthDayOf(date string) (string, error) {
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
	}
	return date[5:], nil
}
