package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kidomigon/roomcompanion-backend/internal/handlers"
	"github.com/kidomigon/roomcompanion-backend/internal/middleware"
)

// Rate limits mirror how the endpoints are used: a room screen sends at most
// a few chat turns a minute, and login attempts beyond a handful are noise.
const (
	chatLimitPerMinute  = 20
	loginLimitPerMinute = 5
)

type RouterConfig struct {
	AllowedOrigins []string
	RoomHandler    *handlers.RoomHandler
	AlertHandler   *handlers.AlertHandler
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("roomcompanion"))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")

	// ===============
	// || Room      ||
	// ===============
	// The room screen is unauthenticated: residents never log in.
	room := api.Group("/room/:room_id")
	{
		room.POST("/chat", cfg.RateLimiter.Limit("chat", chatLimitPerMinute, time.Minute), cfg.RoomHandler.Chat)
		room.POST("/help", cfg.RoomHandler.HelpButton)
		room.GET("/greeting", cfg.RoomHandler.Greeting)
	}

	api.POST("/staff/login", cfg.RateLimiter.Limit("login", loginLimitPerMinute, time.Minute), cfg.AuthHandler.Login)

	// ===============
	// || Staff     ||
	// ===============
	staff := api.Group("/")
	staff.Use(cfg.AuthMiddleware.RequireStaff(), cfg.AuthMiddleware.RequireCSRF())
	{
		staff.POST("/staff/logout", cfg.AuthHandler.Logout)
		staff.GET("/staff/me", cfg.AuthHandler.Me)

		staff.GET("/rooms", cfg.RoomHandler.List)
		staff.PUT("/rooms/:room_id", cfg.RoomHandler.Update)

		staff.POST("/alerts", cfg.AlertHandler.Create)
		staff.GET("/alerts", cfg.AlertHandler.List)
		staff.GET("/alerts/summary", cfg.AlertHandler.Summary)
		staff.GET("/alerts/questions/:room_id", cfg.AlertHandler.Questions)
		staff.POST("/alerts/:id/ack", cfg.AlertHandler.Acknowledge)
		staff.POST("/alerts/:id/resolve", cfg.AlertHandler.Resolve)
	}

	// ===============
	// || Admin     ||
	// ===============
	admin := api.Group("/staff")
	admin.Use(cfg.AuthMiddleware.RequireStaff(), cfg.AuthMiddleware.RequireCSRF(), cfg.AuthMiddleware.RequireAdmin())
	{
		admin.GET("", cfg.AuthHandler.ListStaff)
		admin.POST("", cfg.AuthHandler.CreateStaff)
		admin.PUT("/:id", cfg.AuthHandler.UpdateStaff)
		admin.DELETE("/:id", cfg.AuthHandler.DeactivateStaff)
	}

	return router
}
