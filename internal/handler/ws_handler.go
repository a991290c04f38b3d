package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/service"
	ws "github.com/stemsi/kelas-backend/internal/websocket"
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

// ActivitySubscriber opens a live feed of one class's activity.
type ActivitySubscriber interface {
	Subscribe(ctx context.Context, classID int) *redis.PubSub
}

// WSHandler streams class activity to admins over WebSocket.
type WSHandler struct {
	classService *service.ClassService
	activity     ActivitySubscriber
	log          zerolog.Logger
	upgrader     websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(classService *service.ClassService, activity ActivitySubscriber, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		classService: classService,
		activity:     activity,
		log:          log.With().Str("component", "ws_handler").Logger(),
		upgrader:     buildUpgrader(allowedOrigins),
	}
}

// ClassActivityStream godoc
// WS /ws/classes/:id/activity
// Upgrades to WebSocket and pushes submissions, edits and deletions in the
// class as they happen. The stream ends when the class is deleted.
func (h *WSHandler) ClassActivityStream(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}

	// Unknown classes are answered over plain HTTP, before the upgrade.
	if _, err := h.classService.Get(c.Request.Context(), classID); err != nil {
		failWith(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("class_id", classID).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.activity.Subscribe(ctx, classID)
	defer sub.Close()

	// Wait for the subscription to be confirmed so no event published after
	// the hello frame is missed.
	if _, err := sub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("Activity subscription failed")
		_ = ws.WriteError(conn, "activity feed unavailable")
		return
	}

	if err := ws.WriteTyped(conn, ws.SubscribedMessage{Event: ws.EventSubscribed, ClassID: classID}); err != nil {
		return
	}
	wsLog.Info().Msg("Admin connected to class activity")

	closed := ws.WatchClose(conn)
	ticker := time.NewTicker(ws.PingPeriod)
	defer ticker.Stop()

	messages := sub.Channel()
	for {
		select {
		case <-closed:
			wsLog.Debug().Msg("Connection closed")
			return

		case <-ticker.C:
			if err := ws.WritePing(conn); err != nil {
				return
			}

		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event model.ActivityEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("Dropping malformed activity event")
				continue
			}
			if err := ws.WriteTyped(conn, event); err != nil {
				return
			}
			if event.Event == model.ActivityClassDeleted {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "class deleted"),
					time.Now().Add(ws.WriteWait))
				return
			}
		}
	}
}
