package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/hirementis/hirementis/internal/app"
	iauth "github.com/hirementis/hirementis/internal/auth"
	"github.com/hirementis/hirementis/internal/handlers"
	"github.com/hirementis/hirementis/internal/middleware"
	"github.com/hirementis/hirementis/internal/services"
	"github.com/hirementis/hirementis/internal/storage"
	"github.com/hirementis/hirementis/pkg/mail"
)

// Deps carries the external dependencies required to assemble the router.
type Deps struct {
	DB        *gorm.DB
	Sessions  *iauth.SessionService
	Mailer    mail.Mailer
	Avatars   storage.Store
	RateStore middleware.RateStore
	Config    *app.Config
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.Mailer == nil {
		return nil, fmt.Errorf("mailer must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(deps.Config.Frontend.Origin))

	otpService, err := services.NewOTPService(deps.DB, deps.Mailer)
	if err != nil {
		return nil, err
	}
	userService, err := services.NewUserService(deps.DB, deps.Avatars)
	if err != nil {
		return nil, err
	}
	jobService, err := services.NewJobService(deps.DB)
	if err != nil {
		return nil, err
	}
	feedbackService, err := services.NewFeedbackService(deps.DB)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(deps.Sessions, userService, otpService)
	jobHandler := handlers.NewJobHandler(jobService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	requireAuth := middleware.Auth(deps.Sessions, deps.DB)
	requireAdmin := middleware.Admin(deps.Sessions, deps.DB)

	// OTP delivery and login are throttled per client IP.
	otpLimit := middleware.RateLimit(deps.RateStore, 5, time.Minute)
	loginLimit := middleware.RateLimit(deps.RateStore, 10, time.Minute)

	registerAuthRoutes(r, authRouteDeps{
		Handler:     authHandler,
		RequireAuth: requireAuth,
		OTPLimit:    otpLimit,
		LoginLimit:  loginLimit,
	})
	registerJobRoutes(r, jobRouteDeps{
		Handler:      jobHandler,
		RequireAdmin: requireAdmin,
	})
	registerFeedbackRoutes(r, feedbackRouteDeps{
		Handler:     feedbackHandler,
		RequireAuth: requireAuth,
	})

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded profile images
	if deps.Config.Uploads.Dir != "" {
		r.Static(deps.Config.Uploads.BaseURL, deps.Config.Uploads.Dir)
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
