package handler

import (
	"net/http"
	"strconv"

	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws. Browsers cannot
// set custom headers on the upgrade request, so the gateway-resolved user ID
// arrives as a query parameter instead.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	param := c.QueryParam("user_id")
	if param == "" {
		log.Debug().Msg("WebSocket connection rejected: missing user id")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user id")
	}

	id, err := strconv.ParseInt(param, 10, 32)
	if err != nil || id <= 0 {
		log.Debug().Str("user_id", param).Msg("WebSocket connection rejected: invalid user id")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid user id")
	}
	userID := int32(id)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, userID, h.hub)
	h.hub.Register(client)

	log.Info().
		Int32("user_id", userID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
