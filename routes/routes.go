package routes

import (
	"net/http"
	"time"

	"recruitmeet/handlers"
	"recruitmeet/middleware"
	"recruitmeet/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers backend login/logout endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/login", hb.LoginHandler)

		// Protected routes (Require an active session)
		api.Use(middleware.SessionAuth(hb.Sessions))
		api.POST("/logout", hb.LogoutHandler)
		api.GET("/session", hb.SessionHandler)
	}
}

// RegisterCalendarRoutes registers provider connection endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.SessionAuth(hb.Sessions))
		api.POST("/connect", hb.ConnectProviderHandler)
		api.DELETE("/connect", hb.DisconnectProviderHandler)
	}
}

// RegisterCandidateRoutes registers the candidate search endpoint.
func RegisterCandidateRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/candidates")
	{
		api.Use(middleware.SessionAuth(hb.Sessions))
		api.GET("/search", hb.SearchCandidatesHandler)
	}
}

// RegisterMeetingRoutes registers meeting create/update endpoints.
func RegisterMeetingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/meetings")
	{
		api.Use(middleware.SessionAuth(hb.Sessions))
		api.POST("", hb.CreateMeetingHandler)
		api.PUT("/:id", hb.UpdateMeetingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterCandidateRoutes(r, hb)
	RegisterMeetingRoutes(r, hb)
	RegisterHealthRoute(r)
}
