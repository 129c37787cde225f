package handler

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"traderlens/internal/service"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// TraderHandler serves the wallet analysis route.
type TraderHandler struct {
	Analyzer *service.Analyzer
	Logger   *zap.Logger
}

func (h *TraderHandler) Register(r *gin.Engine) {
	group := r.Group("/api/trader")
	group.GET("/analysis", h.analysis)
}

// @Summary Analyze a trader wallet
// @Description Reconstructs positions, PnL and behavioral statistics from the wallet's full activity history. Results are cached for 24 hours; pass refresh=true to recompute.
// @Tags trader
// @Param address query string true "Wallet address (0x-prefixed, 40 hex chars)"
// @Param refresh query bool false "Bypass the cache and recompute"
// @Success 200 {object} service.Analysis
// @Failure 400 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/trader/analysis [get]
func (h *TraderHandler) analysis(c *gin.Context) {
	address := c.Query("address")
	if !addressPattern.MatchString(address) {
		Error(c, http.StatusBadRequest, "invalid address", map[string]any{"address": address})
		return
	}
	refresh := c.Query("refresh") == "true"

	result, err := h.Analyzer.Analyze(c.Request.Context(), address, refresh)
	if err != nil {
		if errors.Is(err, service.ErrNoActivity) {
			Error(c, http.StatusNotFound, "no trading activity found", map[string]any{"address": address})
			return
		}
		h.Logger.Error("analysis failed", zap.String("address", address), zap.Error(err))
		Error(c, http.StatusBadGateway, "upstream data fetch failed", nil)
		return
	}
	Ok(c, result, map[string]any{
		"fromCache":    result.FromCache,
		"cacheAgeMins": result.CacheAgeMins,
	})
}
