package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ecom-labs/storefront/internal/auth"
	"github.com/ecom-labs/storefront/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, form auth.RegistrationForm) (*domain.User, auth.FieldErrors, error)
	Login(ctx context.Context, username, password string) (*domain.User, error)
}

type AuthHandler struct {
	users    AuthService
	sessions SessionStore
	timeout  time.Duration
}

func NewAuthHandler(users AuthService, sessions SessionStore, timeout time.Duration) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
		timeout:  timeout,
	}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponseDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ValidationErrorDTO struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields"`
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var form auth.RegistrationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, fieldErrs, err := h.users.Register(ctx, form)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if len(fieldErrs) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, ValidationErrorDTO{
			Error:  "validation failed",
			Code:   "validation_failed",
			Fields: fieldErrs,
		})
		return
	}

	if !h.issueSession(ctx, w, user.ID) {
		return
	}
	respondJSON(w, http.StatusCreated, convertUser(user))
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
			return
		}
		handleServiceError(w, err)
		return
	}

	if !h.issueSession(ctx, w, user.ID) {
		return
	}
	respondJSON(w, http.StatusOK, convertUser(user))
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cookie, err := r.Cookie(SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(ctx, cookie.Value); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// issueSession sets the session cookie, or writes the error response and
// reports false.
func (h *AuthHandler) issueSession(ctx context.Context, w http.ResponseWriter, userID int64) bool {
	token, err := h.sessions.Issue(ctx, userID)
	if err != nil {
		handleServiceError(w, err)
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func convertUser(u *domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
