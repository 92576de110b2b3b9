package websocket

import (
	"encoding/json"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/product-catalog-api/internal/events"
	"net/http"
)

type Handler struct {
	Upgrader websocket.Upgrader
	Log      hclog.Logger
	EventBus *events.EventBus[events.Event]
}

// NewHandler streams product events to WebSocket clients. checkOrigin may be
// nil to accept same-origin handshakes only.
func NewHandler(
	log hclog.Logger,
	eventBus *events.EventBus[events.Event],
	checkOrigin func(r *http.Request) bool) *Handler {
	return &Handler{
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		Log:      log,
		EventBus: eventBus,
	}
}

// AllowOrigins accepts handshakes without an Origin header or from one of origins
func AllowOrigins(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range origins {
			if allowed == "*" || allowed == origin {
				return true
			}
		}
		return false
	}
}

// HandleWebSocket handles GET /api/products/ws
//
// swagger:route GET /api/products/ws products productEvents
//
// Upgrades to a WebSocket that receives product_created, product_updated
// and product_deleted events. Requires the USER or ADMIN role.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes so no event published after it is missed
	subscriber := h.EventBus.Subscribe()
	defer h.EventBus.Unsubscribe(subscriber)

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Error("Unable to upgrade to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	// Create a done channel to signal when to connection is closed
	done := make(chan struct{})

	// Drain client frames so close and ping control messages are processed
	go h.readPump(conn, done)

	// Listen for events and send them to WebSocket client
	for {
		select {
		case event, ok := <-subscriber:
			if !ok {
				h.Log.Info("Event bus closed, ending WebSocket stream")
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}

			payload, err := json.Marshal(events.NewMessage(event))
			if err != nil {
				h.Log.Error("Error marshalling message", "error", err)
				continue
			}

			// Send the message over the WebSocket connection
			err = conn.WriteMessage(websocket.TextMessage, payload)
			if err != nil {
				h.Log.Error("Error writing message to WebSocket", "error", err)
				// Connection might be closed, exit the loop
				return
			}
		case <-done:
			// The connection has been closed
			h.Log.Info("WebSocket connection closed by the client")
			return
		}
	}
}

func (h *Handler) readPump(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Log.Error("Error reading message", "error", err)
			}
			break
		}
	}
}
