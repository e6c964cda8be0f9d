package api_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BTreeMap/MindShift/internal/testutil"
)

func createSession(t *testing.T, handler http.Handler) string {
	t.Helper()
	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/api/v1/sessions", map[string]string{"user_id": "u1"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusCreated, rr.Code, "create session")

	body := testutil.AssertJSONResponse(t, rr, "ok")
	result, ok := body["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing result payload: %v", body)
	}
	sessionID, ok := result["session_id"].(string)
	if !ok || sessionID == "" {
		t.Fatalf("missing session_id: %v", result)
	}
	return sessionID
}

func TestCreateSessionReturnsOpeningMessage(t *testing.T) {
	handler := testutil.NewTestServer().Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodPost, "/api/v1/sessions", map[string]string{})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusCreated, rr.Code, "create session")

	body := testutil.AssertJSONResponse(t, rr, "ok")
	result := body["result"].(map[string]interface{})
	inner := result["result"].(map[string]interface{})
	if resp, _ := inner["scripted_response"].(string); !strings.Contains(resp, "Welcome to Mind Shifting") {
		t.Errorf("opening response missing welcome text: %v", inner)
	}
}

func TestInputAdvancesSession(t *testing.T) {
	handler := testutil.NewTestServer().Handler()
	sessionID := createSession(t, handler)

	url := fmt.Sprintf("/api/v1/sessions/%s/input", sessionID)
	req := testutil.CreateHTTPRequest(t, http.MethodPost, url, map[string]string{"input": "1"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "submit input")

	body := testutil.AssertJSONResponse(t, rr, "ok")
	result := body["result"].(map[string]interface{})
	if next, _ := result["next_step"].(string); next != "choose_method" {
		t.Errorf("next_step = %q, want choose_method", next)
	}
	if canContinue, _ := result["can_continue"].(bool); !canContinue {
		t.Error("valid input should continue")
	}
}

func TestInputInvalidJSON(t *testing.T) {
	handler := testutil.NewTestServer().Handler()
	sessionID := createSession(t, handler)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/sessions/%s/input", sessionID), strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusBadRequest, rr.Code, "invalid JSON")
	testutil.AssertJSONResponse(t, rr, "error")
}

func TestGetSession(t *testing.T) {
	handler := testutil.NewTestServer().Handler()
	sessionID := createSession(t, handler)

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "get session")

	body := testutil.AssertJSONResponse(t, rr, "ok")
	result := body["result"].(map[string]interface{})
	if phase, _ := result["current_phase"].(string); phase != "introduction" {
		t.Errorf("current_phase = %q, want introduction", phase)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	handler := testutil.NewTestServer().Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/api/v1/sessions/nope", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusNotFound, rr.Code, "unknown session")
	testutil.AssertJSONResponse(t, rr, "error")
}

func TestResetSession(t *testing.T) {
	handler := testutil.NewTestServer().Handler()
	sessionID := createSession(t, handler)

	req := testutil.CreateHTTPRequest(t, http.MethodDelete, "/api/v1/sessions/"+sessionID, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "reset session")

	// The session is gone afterwards.
	req = testutil.CreateHTTPRequest(t, http.MethodGet, "/api/v1/sessions/"+sessionID, nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusNotFound, rr.Code, "get after reset")
}

func TestHealthEndpoint(t *testing.T) {
	handler := testutil.NewTestServer().Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "health")
	testutil.AssertJSONResponse(t, rr, "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	handler := testutil.NewTestServer().Handler()

	req := testutil.CreateHTTPRequest(t, http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	testutil.AssertHTTPStatus(t, http.StatusOK, rr.Code, "metrics")
	if !strings.Contains(rr.Body.String(), "mindshift_sessions_started_total") {
		t.Error("metrics output should include engine collectors")
	}
}
