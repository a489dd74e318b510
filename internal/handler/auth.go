package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/model"
)

type AuthHandler struct {
	service *auth.Service
	logger  *slog.Logger
}

func NewAuthHandler(svc *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// Field presence is reported by the auth service so that every missing field
// is highlighted at once. The tags only bound sizes.
type signupRequest struct {
	Name            string `json:"name" validate:"max=100"`
	Email           string `json:"email" validate:"max=254"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	u, err := h.service.Signup(auth.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if _, ok := auth.AsError(err); !ok {
			h.logger.Error("signup", "error", err)
		}
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	token, u, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		if _, ok := auth.AsError(err); !ok {
			h.logger.Error("login", "error", err)
		}
		writeAuthError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(auth.SessionID(r.Context())); err != nil {
		h.logger.Error("logout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /api/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.CurrentUser(auth.UserID(r.Context()))
	if err != nil {
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateMe handles PUT /api/me
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name" validate:"max=100"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	u, err := h.service.UpdateName(auth.UserID(r.Context()), req.Name)
	if err != nil {
		if _, ok := auth.AsError(err); !ok {
			h.logger.Error("update name", "error", err)
		}
		writeAuthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
