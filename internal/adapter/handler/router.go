package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mindnest/wellness/internal/infrastructure/config"
	"github.com/mindnest/wellness/internal/infrastructure/middleware"
	"github.com/mindnest/wellness/internal/infrastructure/ratelimit"
	"github.com/mindnest/wellness/pkg/jwt"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth      *AuthHandler
	User      *UserHandler
	Mood      *MoodHandler
	Dashboard *DashboardHandler
	Insights  *InsightsHandler
	Resource  *ResourceHandler
}

// RegisterRoutes registers all API routes.
// authLimiter throttles credential endpoints per client IP and may be nil.
func RegisterRoutes(router *gin.Engine, handlers *Handlers, jwtManager *jwt.JWTManager, authLimiter *ratelimit.KeyedRateLimiter, storageCfg *config.StorageConfig) {
	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Uploaded avatars
	if storageCfg != nil && strings.HasPrefix(storageCfg.PublicURL, "/") {
		router.Static(strings.TrimSuffix(storageCfg.PublicURL, "/"), storageCfg.BasePath)
	}

	// API v1
	v1 := router.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		credentials := auth.Group("")
		if authLimiter != nil {
			credentials.Use(middleware.RateLimit(authLimiter))
		}
		credentials.POST("/register", handlers.Auth.Register)
		credentials.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.RefreshToken)
	}

	// Resources are public
	resources := v1.Group("/resources")
	{
		resources.GET("", handlers.Resource.List)
		resources.GET("/categories", handlers.Resource.Categories)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager))
	{
		// Auth routes (protected)
		protected.POST("/auth/logout", handlers.Auth.Logout)

		// User routes
		users := protected.Group("/users")
		{
			users.GET("/me", handlers.User.GetMe)
			users.PUT("/me", handlers.User.UpdateMe)
			users.PUT("/me/password", handlers.Auth.ChangePassword)
			users.PUT("/me/avatar", handlers.User.UploadAvatar)
			users.DELETE("/me/avatar", handlers.User.DeleteAvatar)
		}

		// Mood routes
		moods := protected.Group("/moods")
		{
			moods.GET("/options", handlers.Mood.Options)
			moods.POST("", handlers.Mood.Log)
			moods.GET("", handlers.Mood.List)
		}

		protected.GET("/dashboard", handlers.Dashboard.Summary)
		protected.GET("/insights", handlers.Insights.Get)
		protected.POST("/resources/:id/view", handlers.Resource.View)
	}

	// WebSocket routes accept the token as a query parameter as well,
	// since browsers cannot set headers on the upgrade request
	sockets := v1.Group("")
	sockets.Use(middleware.WebSocketAuthMiddleware(jwtManager))
	{
		sockets.GET("/moods/capture/ws", handlers.Mood.CaptureWebSocket)
		sockets.GET("/dashboard/ws", handlers.Dashboard.Feed)
	}
}
