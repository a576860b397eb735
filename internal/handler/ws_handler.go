package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/evenza/eventdesk-backend/internal/middleware"
	"github.com/evenza/eventdesk-backend/internal/realtime"
	"github.com/evenza/eventdesk-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the realtime WebSocket endpoints.
type WSHandler struct {
	hub      *realtime.Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(hub *realtime.Hub, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		hub:      hub,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// FormStream godoc
// WS /ws/v1/forms/:form_id/stream?token=...
// Streams new-response events for one form to a dashboard client. The
// stream is push-only: inbound frames are read and discarded to keep the
// connection's close handshake working.
func (h *WSHandler) FormStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	formID, err := strconv.ParseInt(c.Param("form_id"), 10, 64)
	if err != nil || formID <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.hub.SubscribeForm(formID, conn)
	defer func() {
		h.hub.UnsubscribeForm(formID, conn)
		conn.Close()
	}()

	wsLog := h.log.With().Int64("form_id", formID).Str("user_email", claims.Email).Logger()
	wsLog.Info().Msg("Dashboard client connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}
	}
}

// QAStream godoc
// WS /ws/v1/qa/stream?email=...
// Streams moderation updates for the attendee's own questions. One
// connection per email; a reconnect displaces the previous one.
func (h *WSHandler) QAStream(c *gin.Context) {
	email := strings.ToLower(strings.TrimSpace(c.Query("email")))
	if email == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.hub.RegisterUser(email, conn)
	defer func() {
		h.hub.UnregisterUser(email, conn)
		conn.Close()
	}()

	wsLog := h.log.With().Str("user_email", email).Logger()
	wsLog.Info().Msg("Attendee connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsLog.Debug().Msg("Connection closed")
			return
		}
	}
}
