package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/echofinder/api/internal/api/handlers"
	"github.com/echofinder/api/internal/api/middleware"
	"github.com/echofinder/api/internal/auth"
	"github.com/echofinder/api/internal/database/models"
	"github.com/echofinder/api/internal/invites"
	"github.com/echofinder/api/internal/security"
	"github.com/echofinder/api/internal/users"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB               *gorm.DB
	Redis            *redis.Client
	Logger           *slog.Logger
	JWTService       *auth.JWTService
	Hasher           *security.TokenHasher
	AsynqClient      *asynq.Client
	InviteDefaultTTL time.Duration
	AllowedOrigins   []string // CORS allowed origins
	RateLimitReqs    int      // Rate limit requests per window
	RateLimitSecs    int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Correlation())
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.CorrelationHeader},
		ExposedHeaders:   []string{middleware.CorrelationHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	userService := users.NewService(cfg.DB)
	inviteService := invites.NewService(cfg.DB, cfg.Hasher)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	inviteHandler := handlers.NewInviteHandler(inviteService, cfg.JWTService, cfg.AsynqClient, cfg.InviteDefaultTTL, cfg.Logger)
	userHandler := handlers.NewUserHandler(userService)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public invite endpoints - the token itself is the credential
		r.Post("/invites/validate", inviteHandler.Validate)
		r.Post("/invites/accept", inviteHandler.Accept)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateMe)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Route("/invites", func(r chi.Router) {
					r.Get("/", inviteHandler.List)
					r.Post("/", inviteHandler.Issue)
					r.Get("/{id}", inviteHandler.Get)
					r.Post("/{id}/revoke", inviteHandler.Revoke)
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Get("/{id}", userHandler.Get)
					r.Put("/{id}/role", userHandler.UpdateRole)
					r.Put("/{id}/status", userHandler.UpdateStatus)
				})
			})
		})
	})

	return &Router{r}
}
