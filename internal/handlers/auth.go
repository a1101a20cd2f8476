package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/middleware"
	"github.com/kidomigon/roomcompanion-backend/internal/services"
)

// AuthHandler serves staff login, logout, and account management.
type AuthHandler struct {
	log          *logger.Logger
	authService  services.AuthService
	secureCookie bool
	sessionTTL   int
}

func NewAuthHandler(baseLog *logger.Logger, authService services.AuthService, secureCookie bool, sessionTTLSeconds int) *AuthHandler {
	return &AuthHandler{
		log:          baseLog.With("handler", "AuthHandler"),
		authService:  authService,
		secureCookie: secureCookie,
		sessionTTL:   sessionTTLSeconds,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/staff/login. The session token goes into an
// HttpOnly cookie; the CSRF token is returned in the body for the console to
// echo in X-CSRF-Token on mutations.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	info, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ah.log.Error("login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, info.Token, ah.sessionTTL, "/", "", ah.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"staff_name": info.StaffName,
		"role":       info.Role,
		"csrf_token": info.CSRFToken,
	})
}

// Logout handles POST /api/staff/logout.
func (ah *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookieName)
	if err := ah.authService.Logout(c.Request.Context(), token); err != nil {
		ah.log.Warn("logout cleanup failed", "error", err)
	}
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", ah.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me handles GET /api/staff/me for the console to restore its session state.
func (ah *AuthHandler) Me(c *gin.Context) {
	session := middleware.StaffSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"staff_name": session.StaffName,
		"role":       session.Role,
		"csrf_token": session.CSRFToken,
	})
}

// ListStaff handles GET /api/staff (admin only).
func (ah *AuthHandler) ListStaff(c *gin.Context) {
	staff, err := ah.authService.ListStaff(c.Request.Context())
	if err != nil {
		ah.log.Error("staff list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list staff"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

type createStaffRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// CreateStaff handles POST /api/staff (admin only).
func (ah *AuthHandler) CreateStaff(c *gin.Context) {
	var req createStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	staff, err := ah.authService.CreateStaff(c.Request.Context(), req.Username, req.DisplayName, req.Password, req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"staff": staff})
}

type updateStaffRequest struct {
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Password    string `json:"password"`
}

// UpdateStaff handles PUT /api/staff/:id (admin only).
func (ah *AuthHandler) UpdateStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	var req updateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := ah.authService.UpdateStaff(c.Request.Context(), id, req.DisplayName, req.Role, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeactivateStaff handles DELETE /api/staff/:id (admin only).
func (ah *AuthHandler) DeactivateStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid staff id"})
		return
	}

	session := middleware.StaffSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := ah.authService.DeactivateStaff(c.Request.Context(), session.StaffID, id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
