package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"traderlens/internal/client/polymarket/clob"
	"traderlens/internal/client/polymarket/gamma"
)

// ProxyHandler forwards read-only requests to the public Polymarket APIs so
// browser clients avoid CORS. Bodies pass through verbatim; only transport
// failures get wrapped in the JSON envelope.
type ProxyHandler struct {
	Gamma  *gamma.Client
	Clob   *clob.Client
	Logger *zap.Logger
}

func (h *ProxyHandler) Register(r *gin.Engine) {
	r.GET("/api/gamma/*path", h.gamma)
	r.GET("/api/clob/*path", h.clob)
}

// @Summary Gamma API passthrough
// @Tags proxy
// @Param path path string true "Upstream path"
// @Success 200 {object} any
// @Router /api/gamma/{path} [get]
func (h *ProxyHandler) gamma(c *gin.Context) {
	h.forward(c, "gamma", func(ctx context.Context, path string, query url.Values) ([]byte, error) {
		return h.Gamma.Get(ctx, path, query)
	})
}

// @Summary CLOB API passthrough
// @Tags proxy
// @Param path path string true "Upstream path"
// @Success 200 {object} any
// @Router /api/clob/{path} [get]
func (h *ProxyHandler) clob(c *gin.Context) {
	h.forward(c, "clob", func(ctx context.Context, path string, query url.Values) ([]byte, error) {
		return h.Clob.Get(ctx, path, query)
	})
}

func (h *ProxyHandler) forward(c *gin.Context, name string, get func(context.Context, string, url.Values) ([]byte, error)) {
	path := c.Param("path")
	body, err := get(c.Request.Context(), path, c.Request.URL.Query())
	if err != nil {
		var gammaErr *gamma.APIError
		if errors.As(err, &gammaErr) {
			c.Data(gammaErr.Status, "application/json", []byte(gammaErr.Body))
			return
		}
		var clobErr *clob.APIError
		if errors.As(err, &clobErr) {
			c.Data(clobErr.Status, "application/json", []byte(clobErr.Body))
			return
		}
		h.Logger.Warn("proxy request failed",
			zap.String("upstream", name),
			zap.String("path", path),
			zap.Error(err))
		Error(c, http.StatusBadGateway, "upstream unreachable", map[string]any{"upstream": name})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}
