package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/services"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

// SessionCookieName is the cookie the staff console stores its opaque session
// token in.
const SessionCookieName = "session_token"

// StaffContextKey is where RequireStaff stores the *services.SessionInfo for
// downstream handlers.
const StaffContextKey = "staff_session"

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(baseLog *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		log:         baseLog.With("middleware", "AuthMiddleware"),
		authService: authService,
	}
}

// RequireStaff rejects requests without a valid, unexpired staff session.
func (am *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractSessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		session, err := am.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			am.log.Error("session lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		c.Set(StaffContextKey, session)
		c.Next()
	}
}

// RequireAdmin runs after RequireStaff and narrows access to the admin role.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := StaffSession(c)
		if session == nil || session.Role != types.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// RequireCSRF enforces the double-submit token on mutating staff requests.
// The browser can send the cookie cross-site, but it cannot read the CSRF
// token to place it in the header.
func (am *AuthMiddleware) RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		session := StaffSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		if c.GetHeader("X-CSRF-Token") != session.CSRFToken {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid CSRF token"})
			return
		}
		c.Next()
	}
}

// StaffSession returns the session RequireStaff stored, or nil outside a
// protected route.
func StaffSession(c *gin.Context) *services.SessionInfo {
	v, ok := c.Get(StaffContextKey)
	if !ok {
		return nil
	}
	session, ok := v.(*services.SessionInfo)
	if !ok {
		return nil
	}
	return session
}

func extractSessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
