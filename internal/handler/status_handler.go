package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// StatusHandler serves the liveness endpoint
type StatusHandler struct {
	startedAt time.Time
	version   string
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(version string) *StatusHandler {
	return &StatusHandler{startedAt: time.Now().UTC(), version: version}
}

// StatusResponse represents the liveness payload
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// GetStatus handles GET /api/status
func (h *StatusHandler) GetStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
	})
}
