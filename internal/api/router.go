package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motiva-app/messaging-api/internal/api/handler"
	"github.com/motiva-app/messaging-api/internal/api/middleware"
	"github.com/motiva-app/messaging-api/internal/core/domain"
	"github.com/motiva-app/messaging-api/internal/core/ports"
	"github.com/motiva-app/messaging-api/internal/core/service"
	"github.com/motiva-app/messaging-api/internal/infrastructure/config"
	mongostore "github.com/motiva-app/messaging-api/internal/infrastructure/db/mongo"
	redisstore "github.com/motiva-app/messaging-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, uploader ports.MediaUploader, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("messaging"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	profileCache := redisstore.NewProfileCache(rdb)

	tokenService := service.NewTokenService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
	)
	authService := service.NewAuthService(userRepo, tokenService, uploader, log)
	userService := service.NewUserService(userRepo, profileCache, log)

	authHandler := handler.NewAuthHandler(authService, tokenService.AccessTTL(), tokenService.RefreshTTL())
	userHandler := handler.NewUserHandler(userService)

	authRequired := middleware.Auth(tokenService, userRepo)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.POST("/change-password", authHandler.ChangePassword, authRequired)

	// --- User management ---
	users := e.Group("/users", authRequired)
	users.GET("/me", userHandler.Me)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.GetByID)
	users.PATCH("/:id/status", userHandler.UpdateStatus, adminOnly)
	users.POST("/:id/approve", userHandler.Approve, adminOnly)
	users.POST("/:id/reject", userHandler.Reject, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
