package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack/fintrack-backend/internal/config"
	"github.com/fintrack/fintrack-backend/internal/database"
	"github.com/fintrack/fintrack-backend/internal/handler"
	"github.com/fintrack/fintrack-backend/internal/metrics"
	"github.com/fintrack/fintrack-backend/internal/middleware"
	"github.com/fintrack/fintrack-backend/internal/repository/postgres"
	"github.com/fintrack/fintrack-backend/internal/service"
	"github.com/fintrack/fintrack-backend/internal/validation"
	"github.com/fintrack/fintrack-backend/internal/websocket"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.MigrateOnStart {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	txManager := postgres.NewTxManager(pool)

	recorder := metrics.NewRecorder()
	// Live updates go out through the hub
	hub := websocket.NewHub()
	var publisher websocket.EventPublisher = hub

	var serviceMetrics service.MetricsRecorder = service.NoOpMetrics{}
	if cfg.MetricsEnabled {
		serviceMetrics = recorder
		publisher = websocket.NewObservedPublisher(hub, recorder)
		recorder.TrackConnections(hub.TotalClientCount)
	}

	// Initialize services
	authService := service.NewAuthService(userRepo)
	categoryService := service.NewCategoryService(categoryRepo, transactionRepo, publisher)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, publisher)
	budgetValidator := service.NewBudgetValidator(budgetRepo, categoryRepo, serviceMetrics)
	budgetService := service.NewBudgetService(budgetRepo, transactionRepo, txManager, budgetValidator, publisher)
	analyticsService := service.NewAnalyticsService(transactionRepo, categoryRepo, budgetRepo, budgetService, serviceMetrics)

	// AuthService resolves subjects to owners for both HTTP and WebSocket auth
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, authService)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}
	wsValidator := websocket.NewAuth0JWTValidator(authMiddleware.Validator(), authService)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:        handler.NewAuthHandler(authService, categoryService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Category:    handler.NewCategoryHandler(categoryService),
		Budget:      handler.NewBudgetHandler(budgetService),
		Analytics:   handler.NewAnalyticsHandler(analyticsService),
	}
	// Live connections are closed on shutdown through wsCtx
	wsCtx, closeSockets := context.WithCancel(context.Background())
	defer closeSockets()
	wsHandler := handler.NewWebSocketHandler(wsCtx, hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.NewValidator()

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	if cfg.MetricsEnabled {
		e.Use(recorder.Middleware())
		e.GET("/metrics", echo.WrapHandler(recorder.Handler()))
	}

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// WebSocket authenticates through its token query parameter
	e.GET("/ws", wsHandler.HandleWS)

	// Register API routes
	handler.RegisterRoutes(e, handlers, authMiddleware.Authenticate(), middleware.RateLimitMiddleware(rateLimiter))

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	closeSockets()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// runMigrations waits for the database and applies pending migrations on a
// short-lived database/sql handle
func runMigrations(databaseURL string) error {
	db, err := database.Open(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	runner := database.NewMigrationRunner(db)
	if err := runner.WaitForDatabase(ctx); err != nil {
		return err
	}
	return runner.Up()
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Str("owner_id", ownerField(c)).
				Msg("request")

			return nil
		}
	}
}

func ownerField(c echo.Context) string {
	if ownerID := middleware.GetOwnerID(c); ownerID != uuid.Nil {
		return ownerID.String()
	}
	return ""
}
