package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"kanban-board/validation"
)

type UserService interface {
	RegisterUser(ctx context.Context, name, email, password string) (string, error)
	LoginUser(ctx context.Context, email, password string) (string, error)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type AuthHandler struct {
	users     UserService
	validator *validation.Validator
}

func NewAuthHandler(users UserService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{users: users, validator: validator}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.ValidateUser(body); err != nil {
		writeError(w, err)
		return
	}

	var req RegisterRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, &validation.Error{Message: "request body must be valid JSON"})
		return
	}

	token, err := h.users.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, TokenResponse{Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.ValidateLogin(body); err != nil {
		writeError(w, err)
		return
	}

	var req LoginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, &validation.Error{Message: "request body must be valid JSON"})
		return
	}

	token, err := h.users.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Logout has nothing to revoke: tokens are stateless and the client simply
// discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}
