package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "devreviewd/docs" // This is for Swagger
	"devreviewd/internal/auth"
	"devreviewd/internal/config"
	"devreviewd/internal/database"
	"devreviewd/internal/handlers"
	"devreviewd/internal/logger"
	"devreviewd/internal/middleware"
	"devreviewd/internal/repository"
	"devreviewd/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Devreviewd API
// @version 1.0
// @description Backend API for the developer peer review exchange: versioned review forms, reviews, and the credit ledger connecting them

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	formRepo := repository.NewFormRepository(db.DB)
	reviewRepo := repository.NewReviewRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	reconciler := service.NewCreditReconciler(userRepo)
	accountService := service.NewAccountService(userRepo, authService)
	formService := service.NewFormService(db.DB, formRepo, userRepo, reconciler)
	reviewService := service.NewReviewService(db.DB, reviewRepo, formRepo, userRepo, reconciler)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(accountService)
	authHandler := handlers.NewAuthHandler(accountService)
	formHandler := handlers.NewFormHandler(formService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	mux := http.NewServeMux()

	// Account endpoints
	mux.HandleFunc("POST /api/v1/users", userHandler.Register)
	mux.Handle("GET /api/v1/users/me", authMw.Authenticate(http.HandlerFunc(userHandler.Me)))
	mux.HandleFunc("GET /api/v1/users/{id}", userHandler.GetUsername)

	// Auth endpoints
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("POST /api/v1/auth/refresh", authMw.Authenticate(http.HandlerFunc(authHandler.Refresh)))

	// Form endpoints. The literal to-review segment takes precedence
	// over the {id} routes.
	mux.Handle("GET /api/v1/forms/to-review", authMw.OptionalAuth(http.HandlerFunc(formHandler.ToReview)))
	mux.Handle("POST /api/v1/forms", authMw.Authenticate(http.HandlerFunc(formHandler.Create)))
	mux.HandleFunc("GET /api/v1/forms/{id}", formHandler.Get)
	mux.Handle("PATCH /api/v1/forms/{id}", authMw.Authenticate(http.HandlerFunc(formHandler.Patch)))
	mux.Handle("DELETE /api/v1/forms/{id}", authMw.Authenticate(http.HandlerFunc(formHandler.Delete)))
	mux.Handle("GET /api/v1/forms/{id}/reviews", authMw.Authenticate(http.HandlerFunc(reviewHandler.ListByForm)))

	// Review endpoints. Submission is open so external reviewers can
	// respond without an account.
	mux.HandleFunc("POST /api/v1/reviews", reviewHandler.Submit)
	mux.Handle("GET /api/v1/reviews/{id}", authMw.Authenticate(http.HandlerFunc(reviewHandler.Get)))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
