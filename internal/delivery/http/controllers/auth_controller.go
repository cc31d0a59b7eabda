package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "eventadmin/internal/delivery/http/helpers"
	"eventadmin/internal/delivery/http/middleware"
	"eventadmin/internal/domain"
)

// Actions accepted by POST /api/auth.
const (
	ActionRegister             = "register"
	ActionLogin                = "login"
	ActionResetPassword        = "reset-password"
	ActionConfirmResetPassword = "confirm-reset-password"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// AuthRequest is the request body for POST /api/auth. Which fields are required depends on Action.
type AuthRequest struct {
	Action   string `json:"action"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Code     string `json:"code"`
}

// Validate implements Validator.
func (a AuthRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(a.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}

	switch a.Action {
	case ActionRegister:
		if len(a.Password) < 8 {
			errs = append(errs, "password must be at least 8 characters")
		}
	case ActionLogin:
		if a.Password == "" {
			errs = append(errs, "password is required")
		}
	case ActionResetPassword:
	case ActionConfirmResetPassword:
		if strings.TrimSpace(a.Code) == "" {
			errs = append(errs, "code is required")
		}
		if len(a.Password) < 8 {
			errs = append(errs, "password must be at least 8 characters")
		}
	case "":
		errs = append(errs, "action is required")
	default:
		errs = append(errs, "unknown action \""+a.Action+"\"")
	}
	return errs
}

// LoginResponse is the data payload for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

// AuthStatusResponse is the data payload for the password reset actions.
type AuthStatusResponse struct {
	Status string `json:"status"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Handle godoc
// @Summary Authentication actions
// @Description Dispatches on action: "register" (email, password, name), "login" (email, password), "reset-password" (email) and "confirm-reset-password" (email, code, password). A reset request succeeds even for unknown emails.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body AuthRequest true "Action and its fields"
// @Success 200 {object} helpers.APIResponse "login: token, token_type and user; reset actions: status"
// @Success 201 {object} helpers.APIResponse "register: the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth [post]
func (c *AuthController) Handle(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	ctx := r.Context()

	switch req.Action {
	case ActionRegister:
		user, err := c.Service.Register(ctx, req.Email, req.Password, req.Name)
		if err != nil {
			c.writeAuthError(w, r, err)
			return
		}
		h.WriteJSONSuccess(w, http.StatusCreated, user)
	case ActionLogin:
		token, user, err := c.Service.Login(ctx, req.Email, req.Password)
		if err != nil {
			c.writeAuthError(w, r, err)
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
	case ActionResetPassword:
		if err := c.Service.RequestPasswordReset(ctx, req.Email); err != nil {
			c.writeAuthError(w, r, err)
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, AuthStatusResponse{Status: "reset code sent"})
	case ActionConfirmResetPassword:
		if err := c.Service.ResetPassword(ctx, req.Email, req.Code, req.Password); err != nil {
			c.writeAuthError(w, r, err)
			return
		}
		h.WriteJSONSuccess(w, http.StatusOK, AuthStatusResponse{Status: "password updated"})
	}
}

// Me godoc
// @Summary Get current user
// @Description Returns the account that owns the Bearer token.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.CurrentUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
			return
		}
		c.writeAuthError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

func (c *AuthController) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrDuplicateEmail):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "email already registered")
	case errors.Is(err, domain.ErrInvalidResetCode):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid or expired code")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
