package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"traderlens/internal/service"
)

// WeatherHandler serves the weather lookups backing temperature markets.
type WeatherHandler struct {
	Weather *service.WeatherService
	Logger  *zap.Logger
}

func (h *WeatherHandler) Register(r *gin.Engine) {
	r.GET("/api/weather", h.weather)
}

// @Summary Weather lookup
// @Description type=forecast returns the two-day forecast with peak extraction. The historical types require date=YYYY-MM-DD: historical is that day's stats, historical-range the same calendar day over 10 years, historical-peak-time when the daily high landed over 30 years.
// @Tags weather
// @Param type query string true "forecast | historical | historical-range | historical-peak-time"
// @Param date query string false "Date (YYYY-MM-DD), required for the historical types"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/weather [get]
func (h *WeatherHandler) weather(c *gin.Context) {
	ctx := c.Request.Context()
	kind := c.DefaultQuery("type", "forecast")

	date := c.Query("date")
	if kind != "forecast" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD", map[string]any{"type": kind})
			return
		}
	}

	var (
		result any
		err    error
	)
	switch kind {
	case "forecast":
		result, err = h.Weather.Forecast(ctx)
	case "historical":
		result, err = h.Weather.Historical(ctx, date)
	case "historical-range":
		result, err = h.Weather.HistoricalRange(ctx, date)
	case "historical-peak-time":
		result, err = h.Weather.HistoricalPeakTimes(ctx, date)
	default:
		Error(c, http.StatusBadRequest, "unknown type", map[string]any{"type": kind})
		return
	}
	if err != nil {
		h.Logger.Error("weather lookup failed", zap.String("type", kind), zap.String("date", date), zap.Error(err))
		Error(c, http.StatusBadGateway, "weather fetch failed", nil)
		return
	}
	Ok(c, result, nil)
}
