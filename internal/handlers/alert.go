package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/middleware"
	"github.com/kidomigon/roomcompanion-backend/internal/repos"
	"github.com/kidomigon/roomcompanion-backend/internal/services"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

// AlertHandler serves the staff dashboard: the alert queue, the question log,
// and the per-room summary cards. All routes require a staff session.
type AlertHandler struct {
	log          *logger.Logger
	alertService services.AlertService
}

func NewAlertHandler(baseLog *logger.Logger, alertService services.AlertService) *AlertHandler {
	return &AlertHandler{
		log:          baseLog.With("handler", "AlertHandler"),
		alertService: alertService,
	}
}

type createAlertRequest struct {
	RoomID       string `json:"room_id"`
	ResidentName string `json:"resident_name"`
	Type         string `json:"type"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
}

// Create handles POST /api/alerts for manual staff-raised alerts.
func (ah *AlertHandler) Create(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	alert, err := ah.alertService.Create(c.Request.Context(), services.CreateAlertInput{
		RoomID:       req.RoomID,
		ResidentName: req.ResidentName,
		Type:         req.Type,
		Message:      req.Message,
		Severity:     req.Severity,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alert": alert})
}

// List handles GET /api/alerts with optional status, room_id, severity, and
// limit query filters.
func (ah *AlertHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	alerts, err := ah.alertService.List(c.Request.Context(), repos.AlertFilter{
		Status:   c.Query("status"),
		RoomID:   c.Query("room_id"),
		Severity: c.Query("severity"),
		Limit:    limit,
	})
	if err != nil {
		ah.log.Error("alert list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list alerts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

type alertActionRequest struct {
	Notes string `json:"notes"`
}

// Acknowledge handles POST /api/alerts/:id/ack.
func (ah *AlertHandler) Acknowledge(c *gin.Context) {
	ah.transition(c, ah.alertService.Acknowledge)
}

// Resolve handles POST /api/alerts/:id/resolve.
func (ah *AlertHandler) Resolve(c *gin.Context) {
	ah.transition(c, ah.alertService.Resolve)
}

// transition runs an ack or resolve, attributing it to the logged-in staff
// member from the session.
func (ah *AlertHandler) transition(c *gin.Context, apply func(ctx context.Context, id uuid.UUID, staffName, notes string) (*types.Alert, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	session := middleware.StaffSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req alertActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	alert, err := apply(c.Request.Context(), id, session.StaffName, req.Notes)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// Summary handles GET /api/alerts/summary.
func (ah *AlertHandler) Summary(c *gin.Context) {
	summary, err := ah.alertService.Summary(c.Request.Context())
	if err != nil {
		ah.log.Error("room summary failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": summary})
}

// Questions handles GET /api/alerts/questions/:room_id.
func (ah *AlertHandler) Questions(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	questions, err := ah.alertService.Questions(c.Request.Context(), c.Param("room_id"), limit)
	if err != nil {
		ah.log.Error("question log failed", "room_id", c.Param("room_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
