package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/orbit-backend/internal/handlers"
	"github.com/yungbote/orbit-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	AuthMiddleware  *middleware.AuthMiddleware
	UserHandler     *handlers.UserHandler
	CrewHandler     *handlers.CrewHandler
	MissionHandler  *handlers.MissionHandler
	DiscoverHandler *handlers.DiscoverHandler
	SignalHandler   *handlers.SignalHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/", handlers.HealthCheck)
	router.GET("/api/health", handlers.HealthCheck)
	auth := router.Group("/api/auth")
	{
		auth.POST("/request-code", cfg.AuthHandler.RequestCode)
		auth.POST("/verify-code", cfg.AuthHandler.VerifyCode)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	// User
	protected.GET("/users/me", cfg.UserHandler.GetMe)
	protected.GET("/users/me/profile", cfg.UserHandler.GetMyProfile)
	protected.PUT("/users/me/profile", cfg.UserHandler.UpdateMyProfile)
	protected.GET("/users/:user_id/profile", cfg.UserHandler.GetProfile)
	// Crews
	protected.POST("/crews", cfg.CrewHandler.Create)
	protected.GET("/crews", cfg.CrewHandler.List)
	protected.GET("/crews/:crew_id", cfg.CrewHandler.Get)
	protected.POST("/crews/:crew_id/join", cfg.CrewHandler.Join)
	protected.POST("/crews/:crew_id/leave", cfg.CrewHandler.Leave)
	protected.GET("/crews/:crew_id/members", cfg.CrewHandler.Members)
	// Missions
	protected.POST("/missions", cfg.MissionHandler.Create)
	protected.GET("/missions", cfg.MissionHandler.List)
	protected.GET("/missions/:mission_id", cfg.MissionHandler.Get)
	protected.PUT("/missions/:mission_id", cfg.MissionHandler.Update)
	protected.DELETE("/missions/:mission_id", cfg.MissionHandler.Delete)
	protected.POST("/missions/:mission_id/rsvp", cfg.MissionHandler.RSVP)
	protected.DELETE("/missions/:mission_id/rsvp", cfg.MissionHandler.CancelRSVP)
	// Discover
	protected.GET("/discover/users", cfg.DiscoverHandler.Users)
	protected.GET("/discover/crews", cfg.DiscoverHandler.Crews)
	protected.GET("/discover/missions", cfg.DiscoverHandler.Missions)
	// Signals
	protected.GET("/signals/check", cfg.SignalHandler.Check)
	protected.POST("/signals/:signal_id/accept", cfg.SignalHandler.Accept)
	protected.POST("/pods/:pod_id/reveal", cfg.SignalHandler.Reveal)
	protected.PUT("/contact-info", cfg.SignalHandler.UpdateContactInfo)

	return router
}
