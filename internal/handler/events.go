package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/FiguringToCode/backend-workasana/internal/events"
	"github.com/FiguringToCode/backend-workasana/internal/observability/metrics"
	"github.com/FiguringToCode/backend-workasana/internal/security/auth"
)

const eventWriteTimeout = 10 * time.Second

// EventsHandler streams task events over a WebSocket. The connection is
// authenticated with the same bearer tokens as the REST routes; browsers
// cannot set headers on websocket dials, so a token query parameter is also
// accepted.
type EventsHandler struct {
	hub            *events.Hub
	tokenManager   *auth.TokenManager
	logger         *slog.Logger
	allowedOrigins []string
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *events.Hub, tm *auth.TokenManager, logger *slog.Logger, allowedOrigins []string) *EventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsHandler{
		hub:            hub,
		tokenManager:   tm,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

func (h *EventsHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if allowed == "*" || origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

// ServeHTTP handles GET /ws/events
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "No token provided."})
			return
		}
		extracted, err := auth.ExtractToken(header)
		if err != nil {
			writeJSON(w, http.StatusPaymentRequired, map[string]string{"message": "Invalid token."})
			return
		}
		tokenString = extracted
	}

	claims, err := h.tokenManager.VerifyToken(tokenString)
	if err != nil {
		writeJSON(w, http.StatusPaymentRequired, map[string]string{"message": "Invalid token."})
		return
	}

	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	ch, cancel := h.hub.Subscribe()
	defer cancel()

	metrics.IncrementSubscribers()
	defer metrics.DecrementSubscribers()

	h.logger.Debug("event subscriber connected", slog.String("role", string(claims.Role)))

	// Drain client frames so close messages are processed.
	go func() {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			ws.SetWriteDeadline(time.Now().Add(eventWriteTimeout))
			if err := ws.WriteJSON(evt); err != nil {
				h.logger.Debug("event stream ended", slog.String("reason", err.Error()))
				return
			}
		}
	}
}
