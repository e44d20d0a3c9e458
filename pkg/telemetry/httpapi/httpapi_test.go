package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mofa-run/mofa/pkg/ids"
	"github.com/mofa-run/mofa/pkg/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSessionsReturnsJSON(t *testing.T) {
	rec := telemetry.NewRecorder(0)
	rec.StartSession("wf-1", ids.NewExecutionID())
	h := NewHandler(rec)

	req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var sessions []telemetry.DebugSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sessions))
	assert.Len(t, sessions, 1)
	assert.Equal(t, "wf-1", sessions[0].WorkflowID)
}

func TestGetSessionNotFoundIs404(t *testing.T) {
	h := NewHandler(telemetry.NewRecorder(0))
	req := httptest.NewRequest(http.MethodGet, "/sessions/ghost", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetEventsReturnsRecordedEvents(t *testing.T) {
	rec := telemetry.NewRecorder(0)
	sid := rec.StartSession("wf-1", ids.NewExecutionID())
	require.NoError(t, rec.RecordEvent(sid, telemetry.DebugEvent{Kind: telemetry.EventWorkflowStart}))

	h := NewHandler(rec)
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+string(sid)+"/events", nil)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var events []telemetry.DebugEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	assert.Len(t, events, 1)
}
