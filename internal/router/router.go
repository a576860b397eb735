package router

import (
	"net/http"
	"time"

	"github.com/evenza/eventdesk-backend/internal/config"
	"github.com/evenza/eventdesk-backend/internal/handler"
	"github.com/evenza/eventdesk-backend/internal/middleware"
	"github.com/evenza/eventdesk-backend/internal/response"
	"github.com/evenza/eventdesk-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Form       *handler.FormHandler
	PublicForm *handler.PublicFormHandler
	QA         *handler.QAHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Public Group (No Auth) ─────────────────────────────────────
	// Forms are addressed by opaque handle only; internal ids stay off
	// this surface.
	publicAPI := router.Group("/api/v1/public")
	{
		publicAPI.GET("/forms/:hash", handlers.PublicForm.Get)
		publicAPI.POST("/forms/:hash/submit", handlers.PublicForm.Submit)
		publicAPI.GET("/forms/:hash/check-submission/:email", handlers.PublicForm.CheckSubmission)
		publicAPI.POST("/qa/questions", handlers.QA.Ask)
	}

	// ─── 3. Dashboard Group (JWT, presenters read-only) ────────────────
	formsAPI := router.Group("/api/v1/forms")
	formsAPI.Use(middleware.RequireJWT(authService))
	{
		formsAPI.GET("", handlers.Form.List)
		formsAPI.POST("", middleware.RequireWriteRole(), handlers.Form.Create)
		formsAPI.GET("/:id", handlers.Form.Get)
		formsAPI.PUT("/:id", middleware.RequireWriteRole(), handlers.Form.Update)
		formsAPI.DELETE("/:id", middleware.RequireWriteRole(), handlers.Form.Delete)
		formsAPI.POST("/:id/clone", middleware.RequireWriteRole(), handlers.Form.Clone)
		formsAPI.GET("/:id/link", handlers.Form.Link)
		formsAPI.GET("/:id/analytics", handlers.Form.Analytics)
		formsAPI.GET("/:id/responses", handlers.Form.Responses)
	}

	qaAPI := router.Group("/api/v1/qa")
	qaAPI.Use(middleware.RequireJWT(authService))
	{
		qaAPI.GET("/questions", handlers.QA.List)
		qaAPI.PUT("/questions/:id/status", middleware.RequireWriteRole(), handlers.QA.UpdateStatus)
	}

	// ─── 4. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	{
		ws.GET("/forms/:form_id/stream", middleware.RequireWSAuth(authService), handlers.WS.FormStream)
		ws.GET("/qa/stream", handlers.WS.QAStream)
	}

	return router
}
