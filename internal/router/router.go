package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/kelas-backend/internal/config"
	"github.com/stemsi/kelas-backend/internal/handler"
	"github.com/stemsi/kelas-backend/internal/logger"
	"github.com/stemsi/kelas-backend/internal/middleware"
	"github.com/stemsi/kelas-backend/internal/model"
	"github.com/stemsi/kelas-backend/internal/response"
)

// healthTimeout bounds the store pings behind /health.
const healthTimeout = 2 * time.Second

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Class      *handler.ClassHandler
	Assignment *handler.AssignmentHandler
	WS         *handler.WSHandler
}

// HealthChecker reports the state of each backing store.
type HealthChecker interface {
	Check(ctx context.Context) map[string]string
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authn *middleware.Authenticator,
	handlers *Handlers,
	health HealthChecker,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		// Session cookies only travel to explicitly trusted origins.
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Location"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.Middleware(log, response.ContextKeyRequestID))
	router.Use(middleware.Compress(5, middleware.DefaultCompressMinLength))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		stores := health.Check(ctx)
		status := http.StatusOK
		for _, state := range stores {
			if state != "ok" {
				status = http.StatusServiceUnavailable
			}
		}
		response.Success(c, status, gin.H{"status": stores})
	})

	// ─── 1. Public Group (identity optional) ───────────────────────────
	public := router.Group("/")
	public.Use(authn.OptionalAuth())
	{
		public.GET("/", handlers.Class.Home)
		public.GET("/classes", handlers.Class.ListClasses)
		public.GET("/login", handlers.Auth.LoginForm)
		public.POST("/login", handlers.Auth.Login)
		public.GET("/register", handlers.Auth.RegisterForm)
		public.POST("/register", handlers.Auth.Register)
	}

	// ─── 2. Authenticated Group ────────────────────────────────────────
	authed := router.Group("/")
	authed.Use(authn.RequireAuth(), middleware.NoStore())
	{
		authed.GET("/logout", handlers.Auth.Logout)
		authed.GET("/me", handlers.Auth.Me)

		authed.GET("/submit", handlers.Assignment.SubmitForm)
		authed.POST("/submit", handlers.Assignment.Submit)
		authed.GET("/my_assignments", handlers.Assignment.MyAssignments)
		authed.GET("/update_assignment/:id", handlers.Assignment.EditForm)
		authed.POST("/update_assignment/:id", handlers.Assignment.Update)
		authed.POST("/delete_assignment/:id", handlers.Assignment.Delete)
	}

	// ─── 3. Admin Group ────────────────────────────────────────────────
	admin := router.Group("/")
	admin.Use(authn.RequireAuth(), middleware.RequireRole(model.RoleAdmin), middleware.NoStore())
	{
		admin.GET("/addclass", handlers.Class.ListClasses)
		admin.POST("/addclass", handlers.Class.AddClass)
		admin.GET("/class/:id", handlers.Class.ClassDetail)
		admin.POST("/delete_class/:id", handlers.Class.DeleteClass)

		admin.GET("/ws/classes/:id/activity", handlers.WS.ClassActivityStream)
	}

	return router
}
