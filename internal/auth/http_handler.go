package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

func (h *HTTPHandler) Routes(r chi.Router) {
	r.Post("/auth/token", h.Token)
}

type TokenReq struct {
	Password string `json:"password" validate:"required"`
}

// Token handles POST /v1/auth/token and exchanges the admin password for a bearer token.
func (h *HTTPHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION", httpx.MessageValidation, validationErrors)
		return
	}

	token, expiresIn, err := h.service.Login(req.Password)
	switch {
	case errors.Is(err, ErrDisabled):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Admin login is disabled", nil)
		return
	case errors.Is(err, ErrUnauthorized):
		httpx.JSONError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid password", nil)
		return
	case err != nil:
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, map[string]any{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   expiresIn,
	}, nil)
}
