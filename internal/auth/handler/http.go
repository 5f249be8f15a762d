// Package handler exposes signup, login, and me over HTTP JSON.
package handler

import (
	"encoding/json"
	"net/http"

	"atlasynq/control-plane/internal/auth/service"
	"atlasynq/control-plane/internal/server/middleware"
	"atlasynq/control-plane/internal/server/respond"
)

// Handler serves the auth routes.
type Handler struct {
	auth *service.AuthService
}

// NewHandler returns an auth Handler backed by the given service.
func NewHandler(auth *service.AuthService) *Handler {
	return &Handler{auth: auth}
}

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID       string  `json:"id"`
	FullName *string `json:"full_name"`
	Email    string  `json:"email"`
}

// Signup handles POST /api/cp/signup.
func (h *Handler) Signup(w http.ResponseWriter, req *http.Request) {
	var body signupRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		respond.Error(w, respond.ErrMalformedBody)
		return
	}
	token, err := h.auth.Signup(req.Context(), body.FullName, body.Email, body.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Login handles POST /api/cp/login.
func (h *Handler) Login(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		respond.Error(w, respond.ErrMalformedBody)
		return
	}
	token, err := h.auth.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Me handles GET /api/cp/me. The user was loaded by RequireAuth; no further
// store access happens here.
func (h *Handler) Me(w http.ResponseWriter, req *http.Request) {
	user, ok := middleware.UserFromContext(req.Context())
	if !ok {
		respond.Error(w, service.ErrMissingToken)
		return
	}
	resp := userResponse{ID: user.ID, Email: user.Email}
	if user.FullName != "" {
		resp.FullName = &user.FullName
	}
	respond.JSON(w, http.StatusOK, resp)
}
