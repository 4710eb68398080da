package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniel1743/finanza-suite-sub000/internal/config"
	"github.com/daniel1743/finanza-suite-sub000/internal/handler"
	"github.com/daniel1743/finanza-suite-sub000/internal/middleware"
	"github.com/daniel1743/finanza-suite-sub000/internal/repository/postgres"
	"github.com/daniel1743/finanza-suite-sub000/internal/service"
	"github.com/daniel1743/finanza-suite-sub000/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "1.0.0"

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
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	recurringRepo := postgres.NewRecurringExpenseRepository(pool)
	alertHistory := postgres.NewAlertHistoryRepository(pool)
	reminderStore := postgres.NewReminderStoreRepository(pool)

	// Initialize websocket hub
	hub := websocket.NewHub()

	// Initialize services
	transactionService := service.NewTransactionService(transactionRepo)
	budgetService := service.NewBudgetService(budgetRepo)
	goalService := service.NewGoalService(goalRepo)
	recurringService := service.NewRecurringExpenseService(recurringRepo)
	insightService := service.NewInsightService(transactionRepo, budgetRepo, goalRepo, recurringRepo, alertHistory, reminderStore)
	insightService.SetReminderLeadDays(cfg.ReminderLeadDays)

	transactionService.SetEventPublisher(hub)
	budgetService.SetEventPublisher(hub)
	goalService.SetEventPublisher(hub)
	recurringService.SetEventPublisher(hub)
	insightService.SetEventPublisher(hub)

	// Background pruning of alert history and reminder marks
	retentionWorker := service.NewRetentionWorker(alertHistory, reminderStore)
	retentionWorker.Start()
	defer retentionWorker.Stop()

	// Initialize middleware
	userMiddleware := middleware.NewUserMiddleware()
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	statusHandler := handler.NewStatusHandler(version)
	transactionHandler := handler.NewTransactionHandler(transactionService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	goalHandler := handler.NewGoalHandler(goalService)
	recurringHandler := handler.NewRecurringHandler(recurringService)
	insightsHandler := handler.NewInsightsHandler(insightService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-User-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
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

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, userMiddleware, rateLimiter, statusHandler, transactionHandler, budgetHandler, goalHandler, recurringHandler, insightsHandler, wsHandler)

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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
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
				Msg("request")

			return nil
		}
	}
}
