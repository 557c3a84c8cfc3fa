package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/ayusman/animate/internal/retarget"
	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/session"
)

// SessionHandler exposes the engine's session state and options, binds the
// engine to a rig mapping on request, and serves the latest retargeted pose
// when the engine is bound through it.
type SessionHandler struct {
	engine   *retarget.Engine
	registry *rig.Registry
	session  *session.Session

	mu   sync.Mutex
	pose *retarget.PoseBuffer
}

// NewSessionHandler creates a new SessionHandler. sess may be nil when
// frames arrive over the WebSocket rather than a local source.
func NewSessionHandler(engine *retarget.Engine, registry *rig.Registry, sess *session.Session) *SessionHandler {
	return &SessionHandler{engine: engine, registry: registry, session: sess}
}

type sessionResponse struct {
	State   string           `json:"state"`
	Mapping string           `json:"mapping,omitempty"`
	ID      string           `json:"id,omitempty"`
	Running bool             `json:"running,omitempty"`
	Applied int64            `json:"frames_applied"`
	Dropped int64            `json:"frames_dropped"`
	Options retarget.Options `json:"options"`
}

type bindRequest struct {
	Mapping string `json:"mapping"`
}

// ServeHTTP implements the http.Handler interface.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/session or /api/session/pose
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r)
		case http.MethodPut:
			h.update(w, r)
		case http.MethodPost:
			h.bind(w, r)
		case http.MethodDelete:
			h.unbind(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "pose":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.getPose(w, r)
	default:
		http.NotFound(w, r)
	}
}

// get handles GET /api/session and reports state, counters, and options.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{
		State:   string(h.engine.State()),
		Options: h.engine.Options(),
	}
	if m := h.engine.Mapping(); m != nil {
		resp.Mapping = m.Name
	}
	if h.session != nil {
		resp.ID = h.session.ID()
		resp.Running = h.session.Running()
		resp.Applied, resp.Dropped = h.session.Counts()
	}
	writeJSON(w, http.StatusOK, resp)
}

// update handles PUT /api/session and replaces the engine options.
func (h *SessionHandler) update(w http.ResponseWriter, r *http.Request) {
	var opts retarget.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := h.engine.SetOptions(opts); err != nil {
		if errors.Is(err, retarget.ErrInvalidConfig) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update options")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"options": h.engine.Options()})
}

// bind handles POST /api/session: it binds the engine to the named rig
// mapping over a fresh pose buffer, so frames sent to /api/frames land in
// poses readable at /api/session/pose.
func (h *SessionHandler) bind(w http.ResponseWriter, r *http.Request) {
	var req bindRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Mapping == "" {
		writeError(w, http.StatusBadRequest, "Invalid JSON: expected {\"mapping\": name}")
		return
	}
	if h.registry == nil {
		writeError(w, http.StatusInternalServerError, "No rig registry configured")
		return
	}

	m, err := h.registry.Get(req.Mapping)
	if err != nil {
		writeError(w, http.StatusNotFound, "Rig mapping not found")
		return
	}

	buf := retarget.PoseBufferFor(m)
	if err := h.engine.Bind(buf, m.Name); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.mu.Lock()
	h.pose = buf
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"state":   string(h.engine.State()),
		"mapping": m.Name,
		"bones":   len(m.Bones),
	})
}

// unbind handles DELETE /api/session: the engine returns to idle and the
// pose buffer is discarded.
func (h *SessionHandler) unbind(w http.ResponseWriter, r *http.Request) {
	h.engine.Unbind()
	h.mu.Lock()
	h.pose = nil
	h.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// getPose handles GET /api/session/pose with the latest bone poses.
func (h *SessionHandler) getPose(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	buf := h.pose
	h.mu.Unlock()

	if buf == nil {
		writeError(w, http.StatusNotFound, "No pose: engine is not bound through this endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bones": buf.Snapshot()})
}
