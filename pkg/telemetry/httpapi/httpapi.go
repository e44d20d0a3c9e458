// Package httpapi exposes pkg/telemetry's Recorder over a pinned,
// read-only JSON contract, grounded on hector's
// pkg/transport chi-router idiom.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/telemetry"
)

// Handler serves the telemetry recorder's contents read-only.
type Handler struct {
	recorder *telemetry.Recorder
}

// NewHandler wraps recorder.
func NewHandler(recorder *telemetry.Recorder) *Handler {
	return &Handler{recorder: recorder}
}

// Routes mounts the handler's endpoints on a fresh chi router:
//
//	GET /sessions                 -> []DebugSession
//	GET /sessions/{sessionID}      -> DebugSession
//	GET /sessions/{sessionID}/events -> []DebugEvent
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/sessions", h.listSessions)
	r.Get("/sessions/{sessionID}", h.getSession)
	r.Get("/sessions/{sessionID}/events", h.getEvents)
	return r
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.recorder.ListSessions())
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id := ids.SessionID(chi.URLParam(r, "sessionID"))
	sess, ok := h.recorder.GetSession(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) getEvents(w http.ResponseWriter, r *http.Request) {
	id := ids.SessionID(chi.URLParam(r, "sessionID"))
	if _, ok := h.recorder.GetSession(id); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.recorder.GetEvents(id))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
