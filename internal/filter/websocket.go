package filter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ShayestehHS/apidock/internal/models"
)

// inputEvent is one client message on the live filter channel.
type inputEvent struct {
	State   models.FilterState `json:"state"`
	Editing string             `json:"editing,omitempty"`
	Clear   bool               `json:"clear,omitempty"`
}

// WebSocketHandler is the live filter channel: clients push facet changes,
// the controller debounces and pushes recomputed results back.
type WebSocketHandler struct {
	controller *Controller
	log        zerolog.Logger
	upgrader   websocket.Upgrader
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(controller *Controller, log zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		controller: controller,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
	}
}

// ServeHTTP handles WebSocket upgrade and bidirectional streaming
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	subID, resultChan := h.controller.Subscribe()
	defer h.controller.Unsubscribe(subID)

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Read loop: each message replaces the filter state
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var event inputEvent
			if err := json.Unmarshal(data, &event); err != nil {
				h.log.Debug().Err(err).Msg("malformed filter event")
				continue
			}

			if event.Clear {
				h.controller.Clear()
				continue
			}
			h.controller.SetState(event.State, event.Editing)
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case result, ok := <-resultChan:
			if !ok {
				return
			}

			data, err := json.Marshal(result)
			if err != nil {
				h.log.Error().Err(err).Msg("failed to marshal filter result")
				continue
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
