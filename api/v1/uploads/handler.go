package uploads

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"offerhub/internal/config"
	"offerhub/internal/httpx"
	"offerhub/internal/uploadwatch"
)

// WatchRequest represents an upload watch request
type WatchRequest struct {
	StatusURL string `json:"statusUrl" binding:"required"`
}

// Handler handles asset upload tracking. The actual upload goes straight
// to the media pipeline; this endpoint polls its status URL until the
// final CDN URL is ready so the admin UI doesn't have to.
type Handler struct {
	watcher *uploadwatch.Watcher
}

// NewHandler creates a new uploads handler
func NewHandler(cfg *config.Config, logger *logrus.Entry) *Handler {
	watcher := uploadwatch.New(uploadwatch.NewHTTPProber(), uploadwatch.Options{
		PollInterval: time.Duration(cfg.Uploads.PollIntervalSec) * time.Second,
		MaxAttempts:  cfg.Uploads.MaxAttempts,
	}, logger)
	return &Handler{watcher: watcher}
}

// Watch handles POST /api/v1/admin/uploads/watch
// Blocks until the asset is ready or attempts run out.
func (h *Handler) Watch(c *gin.Context) {
	var req WatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamMissing(err.Error()))
		return
	}

	result, err := h.watcher.Wait(c.Request.Context(), req.StatusURL)
	if err != nil {
		if result != nil && result.State == uploadwatch.StateTimedOut {
			httpx.OK(c, gin.H{
				"state":    string(result.State),
				"attempts": result.Attempts,
			})
			return
		}
		httpx.FailErr(c, httpx.ErrExternalError("upload watch failed", err))
		return
	}

	httpx.OK(c, gin.H{
		"state":    string(result.State),
		"url":      result.FinalURL,
		"attempts": result.Attempts,
	})
}
