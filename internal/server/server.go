// Package server contains the HTTP handlers and wiring for the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "blogapi/docs" // swagger docs
	"blogapi/internal/cache"
	"blogapi/internal/config"
	"blogapi/internal/database"
	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/notifications"
	"blogapi/internal/repository"
	"blogapi/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server owns the stores and services behind the HTTP handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	userRepo       repository.UserRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	notifier       *notifications.Notifier
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	authService    *service.AuthService
}

// NewServer opens the database and, when a feature needs it, Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.CacheEnabled || cfg.EventsEnabled || cfg.LoginRateLimit > 0 {
		rdb, err := cache.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			middleware.Logger.Warn("continuing without redis", slog.String("error", err.Error()))
		} else {
			middleware.Logger.Info("redis connected", slog.String("addr", rdb.Options().Addr))
			redisClient = rdb
		}
	}

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redis client disables caching, events and login throttling.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	cache.SetClient(redisClient)
	cache.SetEnabled(cfg.CacheEnabled)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blog-api"),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
	}
	s.shutdownCtx, s.shutdownFn = context.WithCancel(context.Background())

	if redisClient != nil && cfg.EventsEnabled {
		s.notifier = notifications.NewNotifier(redisClient)
	}
	s.wireServices()

	return s, nil
}

func (s *Server) wireServices() {
	s.userService = service.NewUserService(s.userRepo, s.notifier, s.config.BcryptCost)
	s.postService = service.NewPostService(s.postRepo, s.userRepo, s.notifier)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.userRepo, s.notifier)
	s.authService = service.NewAuthService(s.userRepo)
}

// NewApp builds the fiber app with middleware and routes installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Blog API",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders errors that escape handlers as plain text.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).SendString(fe.Message)
	}
	return models.RespondWithAppError(c, err)
}

// SetupMiddleware installs the request pipeline. Order matters: request and
// trace ids must exist before the logger reads them, and CORS headers are
// set before the limiter can reject.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowHeaders:  "Origin, Content-Type, Accept",
		ExposeHeaders: "Location, X-Request-ID, X-Trace-ID",
		MaxAge:        int((24 * time.Hour).Seconds()),
	}))

	// In-process ceiling per client IP; login has its own Redis-backed limit.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions || s.config.Env == "test"
		},
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests")
		},
	}))
}

// SetupRoutes mounts probes, metrics, docs and the resource routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	health := app.Group("/health")
	health.Get("/live", s.LivenessCheck)
	health.Get("/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := app.Group("/auth")
	if l := s.loginLimiter(); l != nil {
		auth.Post("/login", l.Handler(), s.Login)
	} else {
		auth.Post("/login", s.Login)
	}

	users := app.Group("/users")
	users.Post("/", s.CreateUser)
	users.Get("/", s.GetUsers)
	users.Get("/:id", s.GetUser)
	users.Put("/:id", s.UpdateUser)
	users.Delete("/:id", s.DeleteUser)

	posts := app.Group("/posts")
	posts.Post("/", s.CreatePost)
	posts.Get("/", s.GetPosts)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	comments := app.Group("/comments")
	comments.Post("/", s.CreateComment)
	comments.Get("/", s.GetComments)
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)
}

// loginLimiter returns nil when login throttling is off for this environment.
func (s *Server) loginLimiter() *middleware.Limiter {
	window := time.Duration(s.config.LoginRateWindowSeconds) * time.Second
	if s.config.LoginRateLimit <= 0 || window <= 0 {
		return nil
	}
	switch s.config.Env {
	case "test", "development":
		return nil
	}
	return middleware.NewLimiter(s.redis, "login", s.config.LoginRateLimit, window, middleware.FailOpen)
}

// LivenessCheck answers as long as the process can serve HTTP.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "up", "time": time.Now().UTC()})
}

// Probe states reported by ReadinessCheck.
const (
	probeHealthy   = "healthy"
	probeUnhealthy = "unhealthy"
	probeDisabled  = "disabled"
)

func probeState(err error) string {
	if err != nil {
		return probeUnhealthy
	}
	return probeHealthy
}

// readinessProbes lists the dependencies the API needs. Redis is optional,
// so it only counts against readiness once a client is configured.
func (s *Server) readinessProbes() map[string]func(context.Context) string {
	return map[string]func(context.Context) string{
		"database": func(ctx context.Context) string {
			return probeState(database.Ping(ctx, s.db))
		},
		"redis": func(ctx context.Context) string {
			if s.redis == nil {
				return probeDisabled
			}
			return probeState(s.redis.Ping(ctx).Err())
		},
	}
}

// ReadinessCheck reports each dependency and answers 503 when any is down.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := fiber.Map{}
	ready := true
	for name, probe := range s.readinessProbes() {
		state := probe(ctx)
		checks[name] = state
		ready = ready && state != probeUnhealthy
	}

	code, summary := fiber.StatusOK, probeHealthy
	if !ready {
		code, summary = fiber.StatusServiceUnavailable, probeUnhealthy
	}
	return c.Status(code).JSON(fiber.Map{
		"status": summary,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}

// Shutdown stops the event log, drains in-flight requests and then closes
// the stores. All close errors are returned together.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	var errs []error
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("drain http: %w", err))
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		middleware.Logger.Error("shutdown incomplete", slog.String("error", err.Error()))
	} else {
		middleware.Logger.Info("shutdown complete")
	}
	return err
}
