package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/flava/internal/common"
	"github.com/dmitrijs2005/flava/internal/logging"
	"github.com/dmitrijs2005/flava/internal/server/models"
	"github.com/dmitrijs2005/flava/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UserService is the account and credential surface the handlers need.
type UserService interface {
	Resolver
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	RedeemVerification(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	RedeemPasswordReset(ctx context.Context, token, newPassword string) error
}

type UserHandler struct {
	users  UserService
	logger logging.Logger
}

func NewUserHandler(users UserService, logger logging.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.NewUserView(u))
}

// VerifyEmail handles GET /users/verify-email?token=...
func (h *UserHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "token is required")
		return
	}
	if err := h.users.RedeemVerification(r.Context(), token); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "email verified successfully"})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{AccessToken: token, TokenType: common.BearerTokenType})
}

// ForgotPassword handles POST /users/forgot-password.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.users.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusAccepted, messageBody{Message: "password reset email sent"})
}

// ResetPassword handles PUT /users/reset-password?token=...&new_password=...
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	q := resetPasswordQuery{
		Token:       r.URL.Query().Get("token"),
		NewPassword: r.URL.Query().Get("new_password"),
	}
	if err := q.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.RedeemPasswordReset(r.Context(), q.Token, q.NewPassword); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "password reset successfully"})
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.NewUserView(u))
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, models.NewUserView(u))
}
