// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"gymbuddy/internal/cache"
	"gymbuddy/internal/config"
	"gymbuddy/internal/database"
	"gymbuddy/internal/featureflags"
	"gymbuddy/internal/middleware"
	"gymbuddy/internal/models"
	"gymbuddy/internal/notifications"
	"gymbuddy/internal/repository"
	"gymbuddy/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo    repository.UserRepository
	gymRepo     repository.GymRepository
	sessionRepo repository.SessionRepository
	friendRepo  repository.FriendRepository
	groupRepo   repository.GroupRepository
	tokenRepo   repository.NotificationTokenRepository

	notifier     *notifications.Notifier
	dispatcher   *notifications.PushDispatcher
	featureFlags *featureflags.Manager

	sessionService *service.SessionService
	friendService  *service.FriendService
	userService    *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: fiberprometheus.New("gymbuddy-api"),
		userRepo:       repository.NewUserRepository(db),
		gymRepo:        repository.NewGymRepository(db),
		sessionRepo:    repository.NewSessionRepository(db),
		friendRepo:     repository.NewFriendRepository(db),
		groupRepo:      repository.NewGroupRepository(db),
		tokenRepo:      repository.NewNotificationTokenRepository(db),
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.dispatcher = notifications.NewPushDispatcher(
			server.notifier,
			notifications.NewExpoClient(cfg.ExpoPushURL),
			server.tokenRepo,
			server.featureFlags,
		)
	}

	server.sessionService = service.NewSessionService(
		server.sessionRepo,
		server.friendRepo,
		server.userRepo,
		server.gymRepo,
		server.groupRepo,
		server.notifier,
		cfg.FeedPageSize,
		cfg.DefaultSessionDuration,
	)
	server.friendService = service.NewFriendService(server.friendRepo, server.userRepo, server.notifier)
	server.userService = service.NewUserService(server.userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Distributed tracing
	app.Use(middleware.TracingMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so mobile/web clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:19006,http://localhost:3000,http://127.0.0.1:19006"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
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
		Title: "GymBuddy Backend Metrics Dashboard",
	}))

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Get("/me", middleware.AuthRequired, s.GetMyProfile)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Delete("/me", s.DeactivateMyAccount)
	users.Get("/search", s.SearchUsers)
	users.Get("/:id", s.GetUserProfile)

	// Gym routes
	gyms := protected.Group("/gyms")
	gyms.Post("/", s.CreateGym)
	gyms.Get("/", s.GetGyms)
	gyms.Get("/search", middleware.RateLimit(
		s.redis, 20, time.Minute, "gym_search"), s.SearchGyms)
	gyms.Get("/favorites", s.GetFavoriteGyms)
	gyms.Post("/:id/favorite", s.AddFavoriteGym)
	gyms.Delete("/:id/favorite", s.RemoveFavoriteGym)
	gyms.Get("/:id", s.GetGym)

	// Session routes
	sessions := protected.Group("/sessions")
	sessions.Get("/feed", s.GetSessionFeed)
	sessions.Get("/mine", s.GetMySessions)
	sessions.Post("/", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "create_session"), s.CreateSession)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	sessions.Post("/:id/join", s.JoinSession)
	sessions.Put("/:id/rsvp", s.UpdateRSVP)
	sessions.Post("/:id/leave", s.LeaveSession)
	sessions.Post("/:id/check-in", s.CheckInSession)
	sessions.Post("/:id/invite", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "session_invite"), s.InviteToSession)
	sessions.Post("/:id/cancel", s.CancelSession)
	sessions.Post("/:id/exercises", s.AddSessionExercise)
	sessions.Put("/:id", s.UpdateSession)
	sessions.Delete("/:id", s.DeleteSession)
	sessions.Get("/:id", s.GetSession)

	// Friend routes
	friends := protected.Group("/friends")
	friends.Get("/", s.GetFriends)
	// Specific /requests routes before generic /:userId
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/decline", s.DeclineFriendRequest)
	friends.Get("/status/:userId", s.GetFriendshipStatus)
	friends.Post("/block/:userId", s.BlockUser)
	// Generic /:userId route must be last
	friends.Delete("/:userId", s.RemoveFriend)

	// Group routes
	groups := protected.Group("/groups")
	groups.Post("/", s.CreateGroup)
	groups.Get("/", s.GetMyGroups)
	groups.Get("/mine", s.GetMyGroups)
	groups.Put("/:id", s.UpdateGroup)
	groups.Delete("/:id", s.DeleteGroup)
	groups.Get("/:id", s.GetGroup)

	// Push notification token routes
	tokens := protected.Group("/notifications/tokens")
	tokens.Post("/", s.RegisterPushToken)
	tokens.Get("/", s.ListPushTokens)
	tokens.Delete("/", s.UnregisterPushToken)
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

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Push delivery needs Redis; readiness reports it as degraded.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName: "GymBuddy API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire the push dispatcher to Redis pub/sub if available
	if s.dispatcher != nil {
		go func() {
			if err := s.dispatcher.Start(s.shutdownCtx); err != nil {
				log.Printf("failed to start push dispatcher: %v", err)
			}
		}()
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop the dispatcher
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
