// Package api provides the HTTP API handlers for the retargeting service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/animate/internal/rig"
	"github.com/ayusman/animate/internal/store"
)

// RigsHandler handles HTTP requests for rig mapping resources. The registry
// is the source of truth for active mappings; the store, when configured,
// persists custom mappings across restarts.
type RigsHandler struct {
	registry *rig.Registry
	store    *store.Store
}

// NewRigsHandler creates a new RigsHandler. store may be nil.
func NewRigsHandler(registry *rig.Registry, s *store.Store) *RigsHandler {
	return &RigsHandler{registry: registry, store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods.
func (h *RigsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/rigs or /api/rigs/{name}
	path := strings.TrimPrefix(r.URL.Path, "/api/rigs")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.register(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	name := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, name)
	case http.MethodDelete:
		h.delete(w, r, name)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type listRigsResponse struct {
	Rigs []string `json:"rigs"`
}

type registerRigResponse struct {
	Name  string `json:"name"`
	Bones int    `json:"bones"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/rigs and returns all registered mapping names.
func (h *RigsHandler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listRigsResponse{Rigs: h.registry.Names()})
}

// get handles GET /api/rigs/{name} and returns the full mapping.
func (h *RigsHandler) get(w http.ResponseWriter, r *http.Request, name string) {
	m, err := h.registry.Get(name)
	if err != nil {
		if errors.Is(err, rig.ErrUnknownRigType) {
			writeError(w, http.StatusNotFound, "Rig mapping not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get rig mapping")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// register handles POST /api/rigs: it validates and registers a custom
// mapping and, when a store is configured, persists it.
func (h *RigsHandler) register(w http.ResponseWriter, r *http.Request) {
	m := &rig.Mapping{}
	if err := json.NewDecoder(r.Body).Decode(m); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if m.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := h.registry.Register(m); err != nil {
		var invalid *rig.InvalidMappingError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:    "Invalid rig mapping",
				Problems: invalid.Problems,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to register rig mapping")
		return
	}

	if h.store != nil {
		if _, err := h.store.Mappings().Save(m); err != nil {
			writeError(w, http.StatusInternalServerError, "Registered but failed to persist rig mapping")
			return
		}
	}

	writeJSON(w, http.StatusCreated, registerRigResponse{Name: m.Name, Bones: len(m.Bones)})
}

// delete handles DELETE /api/rigs/{name} and removes a stored custom
// mapping. Built-in mappings are not stored and cannot be deleted.
func (h *RigsHandler) delete(w http.ResponseWriter, r *http.Request, name string) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "No mapping store configured")
		return
	}
	if err := h.store.Mappings().Delete(name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Rig mapping not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete rig mapping")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
