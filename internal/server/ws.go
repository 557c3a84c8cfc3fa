package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/animate/internal/landmark"
	"github.com/ayusman/animate/internal/retarget"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// FramesHandler ingests detector frames over a WebSocket and feeds them to
// the engine. Frames arrive as JSON landmark.Frame messages, one per
// detection cycle. The engine serializes frame application internally, so
// concurrent connections and option updates are safe.
type FramesHandler struct {
	engine *retarget.Engine
}

// NewFramesHandler creates a FramesHandler over the given engine.
func NewFramesHandler(engine *retarget.Engine) *FramesHandler {
	return &FramesHandler{engine: engine}
}

// ServeHTTP handles WebSocket upgrade requests and runs the ingest loop.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	for {
		frame := &landmark.Frame{}
		if err := conn.ReadJSON(frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("frames socket closed: %v", err)
			}
			return
		}

		err = h.engine.ApplyFrame(frame)
		status := map[string]any{"applied": err == nil, "timestamp_ms": frame.TimestampMs}
		if err != nil {
			if !errors.Is(err, retarget.ErrNotBound) {
				log.Printf("apply frame: %v", err)
			}
			status["error"] = err.Error()
		}
		if err := conn.WriteJSON(status); err != nil {
			return
		}
	}
}
