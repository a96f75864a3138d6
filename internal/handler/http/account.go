package http

import (
	"log/slog"
	"net/http"

	"github.com/moviecatalog/catalog/internal/service"
	"github.com/moviecatalog/catalog/pkg/httputil"
)

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	service *service.AccountService
	logger  *slog.Logger
}

// NewAccountHandler creates a new account HTTP handler.
func NewAccountHandler(svc *service.AccountService, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,max=150,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the JSON request body for login. EmailOrUsername is
// matched against usernames first, then emails.
type LoginRequest struct {
	EmailOrUsername string `json:"email_or_username" validate:"required,notblank"`
	Password        string `json:"password" validate:"required"`
}

// RefreshRequest is the JSON request body for token refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// --- Response types ---

// RegisterResponse wraps the new user with its tokens.
type RegisterResponse struct {
	User   any `json:"user"`
	Tokens any `json:"tokens"`
}

// AccessResponse carries a refreshed access token.
type AccessResponse struct {
	Access string `json:"access"`
}

// --- Handlers ---

// Register handles POST /accounts/register/
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	user, tokens, err := h.service.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusCreated, RegisterResponse{User: user, Tokens: tokens})
}

// Login handles POST /accounts/login/
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decode(w, r, &req) {
		return
	}

	tokens, err := h.service.Login(r.Context(), service.LoginInput{
		Identifier: req.EmailOrUsername,
		Password:   req.Password,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, tokens)
}

// Refresh handles POST /accounts/token/refresh/
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decode(w, r, &req) {
		return
	}

	access, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, AccessResponse{Access: access})
}
