package routes

import (
	"net/http"

	"github.com/ArowuTest/groupbuy-backend/internal/config"
	"github.com/ArowuTest/groupbuy-backend/internal/handlers"
	"github.com/ArowuTest/groupbuy-backend/internal/middleware"
	"github.com/ArowuTest/groupbuy-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies holds every handler the router mounts
type HandlerDependencies struct {
	AuthHandler         *handlers.AuthHandler
	SessionHandler      *handlers.SessionHandler
	AdjudicationHandler *handlers.AdjudicationHandler
	PoolHandler         *handlers.PoolHandler
	AuditHandler        *handlers.AuditHandler
	Tokens              *jwt.TokenService
	// HealthCheck reports backing-store health; nil means always healthy.
	HealthCheck func(c *gin.Context) error
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			if deps.HealthCheck != nil {
				if err := deps.HealthCheck(c); err != nil {
					c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
					return
				}
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)

		public.POST("/adjudicate", deps.AdjudicationHandler.Adjudicate)
		public.POST("/adjudications/verify", deps.AdjudicationHandler.Verify)

		sessions := public.Group("/sessions")
		{
			sessions.GET("", deps.SessionHandler.ListSessions)
			sessions.GET("/:id", deps.SessionHandler.GetSession)
			sessions.GET("/:id/participants", deps.SessionHandler.ListParticipants)
			sessions.GET("/:id/adjudication", deps.AdjudicationHandler.GetSessionAdjudication)
			sessions.POST("/:id/join", deps.SessionHandler.JoinSession)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		protected.POST("/auth/register", deps.AuthHandler.Register)

		protected.POST("/sessions", deps.SessionHandler.CreateSession)
		protected.POST("/sessions/:id/adjudicate", deps.AdjudicationHandler.AdjudicateSession)
		protected.GET("/sessions/:id/logs", deps.AuditHandler.SessionLogs)
		protected.GET("/logs", deps.AuditHandler.RecentLogs)

		pool := protected.Group("/pool")
		{
			pool.GET("", deps.PoolHandler.ListEntries)
			pool.POST("", deps.PoolHandler.CreateEntry)
			pool.POST("/:id/activate", deps.PoolHandler.Activate)
		}
	}

	return router
}
