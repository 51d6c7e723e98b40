package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/snippets/internal/common"
	"github.com/dmitrijs2005/snippets/internal/server/access"
	"github.com/dmitrijs2005/snippets/internal/server/metrics"
	"github.com/dmitrijs2005/snippets/internal/server/models"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
}

type loginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type changePasswordRequest struct {
	Username         string `json:"username"`
	OriginalPassword string `json:"original_password"`
	NewPassword      string `json:"new_password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", common.ErrorValidation)
		}
		return fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, common.ErrorDuplicateUsername):
		return metrics.OutcomeDuplicate
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorForbidden),
		errors.Is(err, common.ErrorValidation):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func (s *HTTPServer) welcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Welcome to Snippets")
}

func (s *HTTPServer) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) readyz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Warn(r.Context(), "readiness check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.users.Register(r.Context(), req.Username, req.Password)
	s.metrics.AuthEvent("register", outcomeOf(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Username: account.Username, Success: true})
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Login(r.Context(), req.Username, req.Password)
	s.metrics.AuthEvent("login", outcomeOf(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Username: res.Username, Token: res.Token})
}

func (s *HTTPServer) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	err := s.users.ChangePassword(r.Context(), req.Username, req.OriginalPassword, req.NewPassword)
	s.metrics.AuthEvent("change_password", outcomeOf(err))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

func (s *HTTPServer) listSnippets(w http.ResponseWriter, r *http.Request) {
	list, err := s.snippets.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *HTTPServer) getSnippet(w http.ResponseWriter, r *http.Request) {
	sn, err := s.snippets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

// identity is set by the access middleware on every authenticated route.
func (s *HTTPServer) identity(r *http.Request) (access.Identity, error) {
	id, ok := access.IdentityFromContext(r.Context())
	if !ok {
		return access.Identity{}, fmt.Errorf("%w: %w", common.ErrorForbidden, common.ErrInvalidToken)
	}
	return id, nil
}

func (s *HTTPServer) createSnippet(w http.ResponseWriter, r *http.Request) {
	who, err := s.identity(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in models.SnippetPatch
	if err := decodeJSON(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	sn, err := s.snippets.Create(r.Context(), who, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sn)
}

func (s *HTTPServer) updateSnippet(w http.ResponseWriter, r *http.Request) {
	who, err := s.identity(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var patch models.SnippetPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	sn, err := s.snippets.Update(r.Context(), who, r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

func (s *HTTPServer) deleteSnippet(w http.ResponseWriter, r *http.Request) {
	who, err := s.identity(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.snippets.Delete(r.Context(), who, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Snippet deleted successfully"})
}
