package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dpetrov/authkeeper/internal/common"
	"github.com/dpetrov/authkeeper/internal/logging"
	"github.com/dpetrov/authkeeper/internal/server/services"
)

// AuthHandler exposes the auth operations over HTTP/JSON.
type AuthHandler struct {
	auth   *services.AuthService
	logger logging.Logger
}

func NewAuthHandler(auth *services.AuthService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// Register handles POST /api/users.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	payload, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondClassified(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, authResponse{Token: payload.Token, User: payload.User}, h.logger)
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	payload, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondClassified(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, authResponse{Token: payload.Token, User: payload.User}, h.logger)
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.WhoAmI(r.Context(), IdentityFromRequest(r))
	if err != nil {
		h.respondClassified(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// Users handles GET /api/users.
func (h *AuthHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.Users(r.Context())
	if err != nil {
		h.respondClassified(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, users, h.logger)
}

// UserByUsername handles GET /api/users/{username}.
func (h *AuthHandler) UserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.UserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		h.respondClassified(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user, h.logger)
}

// respondClassified maps a classified service error to an HTTP status.
// Anything unclassified is reported as a generic 500: internals stay in
// the server log, never in the response body.
func (h *AuthHandler) respondClassified(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrWeakPassword):
		respondWithError(w, http.StatusBadRequest, err.Error(), h.logger)
	case errors.Is(err, common.ErrUserExists):
		respondWithError(w, http.StatusConflict, err.Error(), h.logger)
	case errors.Is(err, common.ErrInvalidCredentials), errors.Is(err, common.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, err.Error(), h.logger)
	case errors.Is(err, common.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), h.logger)
	default:
		h.logger.Error(r.Context(), "request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "internal error", h.logger)
	}
}

// respondWithJSON sends a JSON response to the client.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger logging.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		logger.Error(context.Background(), "failed to write response", "error", err)
	}
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string, logger logging.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}
