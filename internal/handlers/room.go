package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kidomigon/roomcompanion-backend/internal/logger"
	"github.com/kidomigon/roomcompanion-backend/internal/services"
	"github.com/kidomigon/roomcompanion-backend/internal/types"
)

// RoomHandler serves the room-screen endpoints: chat turns, the physical
// help button, and the greeting shown when the screen wakes.
type RoomHandler struct {
	log          *logger.Logger
	roomService  services.RoomService
	companion    services.CompanionService
	alertService services.AlertService
}

func NewRoomHandler(
	baseLog *logger.Logger,
	roomService services.RoomService,
	companion services.CompanionService,
	alertService services.AlertService,
) *RoomHandler {
	return &RoomHandler{
		log:          baseLog.With("handler", "RoomHandler"),
		roomService:  roomService,
		companion:    companion,
		alertService: alertService,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/room/:room_id/chat. The resident always gets a
// reply; persistence failures are logged but never surfaced to the screen.
func (rh *RoomHandler) Chat(c *gin.Context) {
	room, ok := rh.lookupRoom(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := rh.companion.HandleTurn(c.Request.Context(), room, req.Message)
	if err != nil {
		rh.log.Error("turn persistence degraded", "room_id", room.RoomID, "error", err)
	}
	c.JSON(http.StatusOK, result)
}

// HelpButton handles POST /api/room/:room_id/help: the dedicated hardware
// button, which escalates unconditionally without any inference.
func (rh *RoomHandler) HelpButton(c *gin.Context) {
	room, ok := rh.lookupRoom(c)
	if !ok {
		return
	}

	alert, err := rh.alertService.Create(c.Request.Context(), services.CreateAlertInput{
		RoomID:       room.RoomID,
		ResidentName: room.ResidentName,
		Type:         types.AlertTypeHelp,
		Message:      "Resident requested help via button",
		Severity:     types.SeverityEmergency,
	})
	if err != nil {
		rh.log.Error("help button alert failed", "room_id", room.RoomID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create alert"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alert_id": alert.ID,
		"response": "Help is on the way. Someone will be with you shortly.",
	})
}

// Greeting handles GET /api/room/:room_id/greeting.
func (rh *RoomHandler) Greeting(c *gin.Context) {
	room, ok := rh.lookupRoom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"greeting":      rh.companion.Greeting(room),
		"resident_name": room.ResidentName,
		"mode":          room.Mode,
	})
}

// List handles GET /api/rooms.
func (rh *RoomHandler) List(c *gin.Context) {
	rooms, err := rh.roomService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list rooms"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

type updateRoomRequest struct {
	ResidentName string `json:"resident_name"`
	Mode         string `json:"mode"`
}

// Update handles PUT /api/rooms/:room_id (staff only).
func (rh *RoomHandler) Update(c *gin.Context) {
	var req updateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	room, err := rh.roomService.Update(c.Request.Context(), c.Param("room_id"), req.ResidentName, req.Mode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

func (rh *RoomHandler) lookupRoom(c *gin.Context) (*types.Room, bool) {
	room, err := rh.roomService.Get(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
			return nil, false
		}
		rh.log.Error("room lookup failed", "room_id", c.Param("room_id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil, false
	}
	return room, true
}
