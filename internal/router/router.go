package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hestonauto/appraise-backend/internal/config"
	"github.com/hestonauto/appraise-backend/internal/handler"
	"github.com/hestonauto/appraise-backend/internal/middleware"
	"github.com/hestonauto/appraise-backend/internal/response"
	"github.com/hestonauto/appraise-backend/internal/session"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Staff     *handler.StaffHandler
	Appraisal *handler.AppraisalHandler
	DVLA      *handler.DVLAHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(sessions session.Store, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// The session cookie requires credentialed CORS, which forbids the
	// wildcard origin. If no allow-list is configured every origin is
	// echoed back (dev default).
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Resolve the session cookie for every request; routes decide whether
	// an identity is required.
	router.Use(middleware.LoadSession(sessions, cfg))

	// Liveness endpoints.
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "env": cfg.GinMode})
	})

	// Rate limiter for credential routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/auth")
	auth.Use(authLimiter.Middleware(), middleware.NoStore())
	{
		auth.GET("/me", handlers.Auth.Me)
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
		auth.POST("/staff/login", handlers.Auth.StaffLogin)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.POST("/reset-password/:token", handlers.Auth.ResetPassword)
	}

	// ─── 2. Staff Management (Admin Only) ──────────────────────────────
	staff := router.Group("/api/staff")
	staff.Use(middleware.RequireAdmin(), middleware.NoStore())
	{
		staff.GET("", handlers.Staff.List)
		staff.POST("", handlers.Staff.Create)
		staff.PUT("/:id", handlers.Staff.Update)
		staff.POST("/:id/reset-password", handlers.Staff.ResetPassword)
		staff.PUT("/:id/password", handlers.Staff.SetPassword)
		staff.DELETE("/:id", handlers.Staff.Delete)
	}

	// ─── 3. Appraisals (Role-Gated) ────────────────────────────────────
	appraisals := router.Group("/api/appraisals")
	appraisals.Use(middleware.NoStore())
	{
		appraisals.POST("", middleware.RequireStaff(), handlers.Appraisal.Create)
		appraisals.GET("/admin", middleware.RequireAdmin(), handlers.Appraisal.ListAll)
		appraisals.GET("/mine", middleware.RequireStaff(), handlers.Appraisal.ListMine)
	}

	// ─── 4. Registration Lookup (Any Session) ──────────────────────────
	dvla := router.Group("/api/dvla")
	dvla.Use(middleware.RequireAuth())
	{
		dvla.POST("/lookup", handlers.DVLA.Lookup)
	}

	return router
}
