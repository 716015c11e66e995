package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/model"
	"github.com/hestonauto/appraise-backend/internal/response"
	"github.com/hestonauto/appraise-backend/internal/session"
)

const (
	// ContextKeyUser is the Gin context key for the session identity.
	ContextKeyUser = "session_user"
	// ContextKeySessionID is the Gin context key for the raw session ID.
	ContextKeySessionID = "session_id"
)

// LoadSession resolves the session cookie against the store and attaches the
// identity to the request context. Anonymous requests pass through; gate
// routes with RequireAuth and the role middlewares. Hits refresh the TTL so
// active users are not logged out mid-shift (rolling expiry).
func LoadSession(store session.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cfg.CookieName)
		if err != nil || sid == "" {
			c.Next()
			return
		}

		user, err := store.Get(c.Request.Context(), sid)
		if err != nil {
			// Stale or unknown cookie: treat as anonymous. Store failures
			// also fall through so a Redis blip doesn't 500 public routes.
			if !errors.Is(err, session.ErrNotFound) {
				c.Error(err) //nolint:errcheck
			}
			c.Next()
			return
		}

		_ = store.Refresh(c.Request.Context(), sid)

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeySessionID, sid)
		c.Next()
	}
}

// RequireAuth rejects requests without an authenticated session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c) == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects sessions that do not carry the admin role.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(model.RoleAdmin, response.ErrAdminAccessOnly)
}

// RequireStaff rejects sessions that do not carry the staff role.
func RequireStaff() gin.HandlerFunc {
	return requireRole(model.RoleStaff, response.ErrStaffAccessOnly)
}

func requireRole(role model.Role, code response.ErrCode) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrSessionRequired)
			return
		}
		if user.Role != role {
			response.AbortFail(c, http.StatusForbidden, code)
			return
		}
		c.Next()
	}
}

// GetUser retrieves the session identity from the Gin context, or nil for
// anonymous requests.
func GetUser(c *gin.Context) *model.SessionUser {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := val.(*model.SessionUser)
	if !ok {
		return nil
	}
	return user
}

// GetSessionID retrieves the raw session ID for the current request, or "".
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextKeySessionID)
}
