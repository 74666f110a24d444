// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"lotboard/internal/cache"
	"lotboard/internal/config"
	"lotboard/internal/database"
	"lotboard/internal/middleware"
	"lotboard/internal/moderation"
	"lotboard/internal/repository"
	"lotboard/internal/scraper"
	"lotboard/internal/service"
	"lotboard/internal/token"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	codec          *token.Codec
	auth           *middleware.Authenticator
	userRepo       repository.UserRepository
	listingRepo    repository.ListingRepository
	commentRepo    repository.CommentRepository
	likeRepo       repository.LikeRepository
	patternRepo    repository.PatternRepository
	listingService *service.ListingService
	commentService *service.CommentService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	patternRepo := repository.NewPatternRepository(db)

	codec := token.NewCodec(cfg.TokenSecret)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("lotboard-api"),
		codec:          codec,
		auth:           middleware.NewAuthenticator(codec, userRepo),
		userRepo:       userRepo,
		listingRepo:    listingRepo,
		commentRepo:    commentRepo,
		likeRepo:       likeRepo,
		patternRepo:    patternRepo,
	}

	pages := scraper.New(time.Duration(cfg.ScrapeTimeout) * time.Second)
	server.listingService = service.NewListingService(listingRepo, pages)
	server.commentService = service.NewCommentService(
		commentRepo, listingRepo, likeRepo, moderation.NewEngine(patternRepo))

	return server, nil
}

func (s *Server) tokenTTL() time.Duration {
	return time.Duration(s.config.TokenTTLHours) * time.Hour
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))

	// Context middleware to propagate request ID and user ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Lotboard Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", s.auth.Required(), s.Me)

	// Listing routes
	listings := api.Group("/listings")
	listings.Get("/popular", s.GetPopularListings)
	listings.Post("/by-url", middleware.RateLimit(
		s.redis, 10, time.Minute, "listing_by_url"), s.GetOrCreateListing)
	// Specific /:id/:resource routes BEFORE the generic /:id route
	listings.Get("/:id/comments", s.GetComments)
	listings.Post("/:id/comments", s.auth.Required(), middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	listings.Get("/:id", s.GetListing)

	// Comment routes
	comments := api.Group("/comments")
	comments.Get("/:id", s.GetComment)
	comments.Patch("/:id", s.auth.Required(), s.UpdateComment)
	comments.Delete("/:id", s.auth.Required(), s.DeleteComment)
	comments.Post("/:id/like", s.auth.Required(), s.ToggleCommentLike)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": map[string]string{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server-held resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	return nil
}
