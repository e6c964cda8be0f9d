// Package api provides HTTP handlers for MindShift endpoints.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/BTreeMap/MindShift/internal/models"
	"github.com/BTreeMap/MindShift/internal/util"
)

// createSessionRequest is the body of POST /api/v1/sessions.
type createSessionRequest struct {
	UserID string `json:"user_id"`
}

// createSessionResponse returns the new session id plus the opening message.
type createSessionResponse struct {
	SessionID string                   `json:"session_id"`
	Result    *models.ProcessingResult `json:"result"`
}

// inputRequest is the body of POST /api/v1/sessions/{id}/input.
type inputRequest struct {
	UserID string `json:"user_id,omitempty"`
	Input  string `json:"input"`
}

// createSessionHandler creates a session with a generated id and returns the
// opening scripted message.
func (s *Server) createSessionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.createSessionHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	if req.UserID == "" {
		req.UserID = util.GenerateUserID()
	}
	sessionID := uuid.NewString()
	result, err := s.engine.ProcessInput(r.Context(), sessionID, req.UserID, models.StartSentinel)
	if err != nil {
		slog.Error("Server.createSessionHandler: failed to start session", "error", err, "sessionID", sessionID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to start session"))
		return
	}
	slog.Info("Server.createSessionHandler: session created", "sessionID", sessionID, "userID", req.UserID)
	writeJSONResponse(w, http.StatusCreated, models.SuccessWithMessage("Session created", createSessionResponse{
		SessionID: sessionID,
		Result:    result,
	}))
}

// inputHandler submits one user answer to a session.
func (s *Server) inputHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	sessionID := r.PathValue("id")
	var req inputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.inputHandler: failed to decode JSON", "error", err, "sessionID", sessionID)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	result, err := s.engine.ProcessInput(r.Context(), sessionID, req.UserID, req.Input)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrEmptySessionID):
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Session id is required"))
		case errors.Is(err, models.ErrStepNotFound), errors.Is(err, models.ErrPhaseNotFound):
			slog.Error("Server.inputHandler: session in invalid state", "error", err, "sessionID", sessionID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Session is in an invalid state"))
		default:
			slog.Error("Server.inputHandler: processing failed", "error", err, "sessionID", sessionID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to process input"))
		}
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// getSessionHandler returns the current session state.
func (s *Server) getSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	sc, err := s.engine.GetSession(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSessionNotFound):
			writeJSONResponse(w, http.StatusNotFound, models.Error("Session not found"))
		case errors.Is(err, models.ErrEmptySessionID):
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Session id is required"))
		default:
			slog.Error("Server.getSessionHandler: lookup failed", "error", err, "sessionID", sessionID)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to get session"))
		}
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(sc))
}

// resetSessionHandler discards all state for a session.
func (s *Server) resetSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if err := s.engine.ResetSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, models.ErrEmptySessionID) {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Session id is required"))
			return
		}
		slog.Error("Server.resetSessionHandler: reset failed", "error", err, "sessionID", sessionID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to reset session"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Session reset", nil))
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("ok", nil))
}
