package http

import (
	"log/slog"

	"devdrawer/internal/config"
	"devdrawer/internal/http/handlers"
	"devdrawer/internal/http/middleware"
	"devdrawer/internal/services"
	"github.com/gin-gonic/gin"
)

type Dependencies struct {
	Config         *config.Config
	AuthService    *services.AuthService
	ProfileService *services.ProfileService
	PlannerService *services.PlannerService
	HealthChecks   map[string]handlers.Pinger
	Logger         *slog.Logger
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))

	cookie := handlers.CookieConfig{Name: deps.Config.SessionCookieName, Secure: deps.Config.IsProd()}
	requireSession := middleware.RequireSession(deps.Config.SessionCookieName, deps.AuthService)

	authHandler := handlers.NewAuthHandler(deps.AuthService, cookie)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	plannerHandler := handlers.NewPlannerHandler(deps.PlannerService)
	healthHandler := handlers.NewHealthHandler(deps.HealthChecks)

	router.GET("/healthz", healthHandler.Health)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(deps.RateLimiter.Middleware())
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.GET("/verify-email", authHandler.VerifyEmail)
		authGroup.POST("/resend-verification", requireSession, authHandler.ResendVerification)
	}

	protected := api.Group("")
	protected.Use(requireSession)
	{
		protected.GET("/me", profileHandler.Get)
		protected.GET("/profile", profileHandler.Get)
		protected.PATCH("/profile", profileHandler.Update)

		protected.GET("/planner", plannerHandler.List)
		protected.POST("/planner", plannerHandler.Create)
		protected.GET("/planner/:id", plannerHandler.Get)
		protected.PATCH("/planner/:id", plannerHandler.Update)
		protected.POST("/planner/:id", plannerHandler.Duplicate)
		protected.DELETE("/planner/:id", plannerHandler.Delete)
	}

	return router
}
