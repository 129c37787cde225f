package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"traderlens/internal/tracker"
)

// TrackerHandler exposes the wallet tracker's rolling trade window.
type TrackerHandler struct {
	Tracker *tracker.WalletTracker
}

func (h *TrackerHandler) Register(r *gin.Engine) {
	r.GET("/api/tracker/trades", h.trades)
}

// @Summary Recently observed trades for tracked wallets
// @Tags tracker
// @Success 200 {array} tracker.TrackedTrade
// @Router /api/tracker/trades [get]
func (h *TrackerHandler) trades(c *gin.Context) {
	if h.Tracker == nil {
		Error(c, http.StatusServiceUnavailable, "tracker disabled", nil)
		return
	}
	Ok(c, h.Tracker.Snapshot(), nil)
}
