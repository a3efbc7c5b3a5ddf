package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/champierre/mappreview/internal/infrastructure/monitoring"
	"github.com/champierre/mappreview/internal/logging"
	"github.com/champierre/mappreview/internal/preview"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Panels are served from the same host
	},
}

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Handler streams change notifications to connected panels.
type Handler struct {
	provider *preview.Provider
	metrics  *monitoring.Metrics
	log      *logging.Logger
}

// NewHandler creates a change notification stream handler.
func NewHandler(provider *preview.Provider, metrics *monitoring.Metrics, log *logging.Logger) *Handler {
	return &Handler{
		provider: provider,
		metrics:  metrics,
		log:      log,
	}
}

// HandleConnection upgrades the request and forwards provider events to the
// peer until either side goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	clientID := uuid.New().String()
	h.metrics.WSConnections.Inc()
	defer h.metrics.WSConnections.Dec()

	h.log.Debug("stream client connected", zap.String("client_id", clientID))

	events, cancel := h.provider.Subscribe()
	defer cancel()

	// Welcome message
	h.write(conn, map[string]interface{}{
		"type":      "system",
		"message":   "Connected to map preview change stream",
		"client_id": clientID,
	})

	// Reader goroutine: consume control frames, detect the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, ev); err != nil {
				h.log.Debug("stream client write failed",
					zap.String("client_id", clientID), zap.Error(err))
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			h.log.Debug("stream client disconnected", zap.String("client_id", clientID))
			return
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, data interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(data)
}
