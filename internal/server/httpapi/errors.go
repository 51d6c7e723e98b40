package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/snippets/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps a failure kind to its status and public message. Causes
// wrapped under a kind never leak into the message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrorDuplicateUsername):
		return http.StatusConflict, "username is already taken"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "authentication failed"
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, "Access Forbidden"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		s.logger.Debug(r.Context(), "request refused", "path", r.URL.Path, "reason", err)
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// rejectUnauthenticated answers requests the access middleware refused.
func (s *HTTPServer) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.AuthEvent("token", outcomeOf(err))
	s.writeError(w, r, err)
}
