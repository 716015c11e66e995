package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/middleware"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/hestonauto/appraise-backend/internal/response"
	"github.com/hestonauto/appraise-backend/internal/service"
	"github.com/hestonauto/appraise-backend/internal/session"
	"github.com/hestonauto/appraise-backend/internal/validator"
)

// resetRequestedMessage is returned by ForgotPassword no matter whether the
// address is registered or the mail could be enqueued. Do not branch on
// account existence anywhere in that handler.
const resetRequestedMessage = "If an account exists for that address, a password reset email has been sent. Please check your inbox or spam folder."

// AuthHandler handles login, logout, session introspection and the
// password-reset endpoints.
type AuthHandler struct {
	cfg         *config.Config
	authService *service.AuthService
	sessions    session.Store
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, authService *service.AuthService, sessions session.Store) *AuthHandler {
	return &AuthHandler{
		cfg:         cfg,
		authService: authService,
		sessions:    sessions,
	}
}

// Me godoc
// GET /api/auth/me
// Returns the current session identity, or null when anonymous.
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, middleware.GetUser(c))
}

// AdminLogin godoc
// POST /api/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.AdminLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	h.establishSession(c, user)
}

// StaffLogin godoc
// POST /api/auth/staff/login
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req model.StaffLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.StaffLogin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	h.establishSession(c, user)
}

// establishSession replaces any pre-existing session with a fresh one and
// binds it to the cookie. Reusing an inbound session ID after login would
// allow session fixation.
func (h *AuthHandler) establishSession(c *gin.Context, user *model.SessionUser) {
	if old, err := c.Cookie(h.cfg.CookieName); err == nil && old != "" {
		_ = h.sessions.Destroy(c.Request.Context(), old)
	}

	sid, err := h.sessions.Create(c.Request.Context(), user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.setSessionCookie(c, sid, int(h.cfg.SessionTTL.Seconds()))
	response.Success(c, http.StatusOK, gin.H{
		"message": "Logged in",
		"user":    user,
	})
}

// Logout godoc
// POST /api/auth/logout
// Destroys the server-side session and clears the cookie. The clearing
// cookie carries the same attributes as issuance; browsers ignore a
// mismatched Set-Cookie and the session would appear to survive logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := middleware.GetSessionID(c); sid != "" {
		if err := h.sessions.Destroy(c.Request.Context(), sid); err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// ForgotPassword godoc
// POST /api/auth/forgot-password
// Starts the reset-token lifecycle. The response is identical for
// registered and unregistered addresses.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.authService.RequestPasswordReset(c.Request.Context(), req.Email)

	response.Success(c, http.StatusOK, gin.H{"message": resetRequestedMessage})
}

// ResetPassword godoc
// POST /api/auth/reset-password/:token
// Exchanges a pending token for a new password. Unknown, expired and
// already-consumed tokens are rejected uniformly.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			response.Fail(c, http.StatusBadRequest, response.ErrResetTokenInvalid)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sid string, maxAge int) {
	c.SetSameSite(h.cfg.SameSite())
	c.SetCookie(h.cfg.CookieName, sid, maxAge, "/", "", h.cfg.CookieSecure, true)
}
