package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"portfolio-backend-refactor/pkg/auth"
	"portfolio-backend-refactor/pkg/config"
	"portfolio-backend-refactor/pkg/database"
	"portfolio-backend-refactor/pkg/handlers"
	"portfolio-backend-refactor/pkg/middleware"
	"portfolio-backend-refactor/pkg/storage"
	"portfolio-backend-refactor/pkg/utils"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	store, err := database.NewPostgresStore(cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()

	files, err := storage.NewFileStore(cfg.UploadDir, cfg.AllowedExtensions)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize file storage")
	}

	router := newRouter(cfg, store, files, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}

	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

func newRouter(cfg *config.Config, store database.Store, files *storage.FileStore, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	setupMiddleware(r, cfg, store, logger)
	setupRoutes(r, cfg, store, files, logger)

	return r
}

func setupMiddleware(r *chi.Mux, cfg *config.Config, store database.Store, logger zerolog.Logger) {
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.NewCORS(cfg))
	r.Use(chimiddleware.Timeout(25 * time.Second))
	r.Use(chimiddleware.Compress(5))

	if cfg.IsDevelopment() {
		r.Use(chimiddleware.Heartbeat("/ping"))
	}

	r.Use(middleware.Identity(store, utils.NewJWTService(cfg.JWTSecret)))
}

func setupRoutes(r *chi.Mux, cfg *config.Config, store database.Store, files *storage.FileStore, logger zerolog.Logger) {
	jwtService := utils.NewJWTService(cfg.JWTSecret)
	credentials := auth.NewCredentialStore(store, auth.NewBcryptHasher(12))

	authHandler := handlers.NewAuthHandler(cfg, store, credentials, jwtService, logger)
	projectHandler := handlers.NewProjectHandler(cfg, store, files, logger)
	dashboardHandler := handlers.NewDashboardHandler(store, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(cfg, store, logger)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := store.HealthCheck(req.Context()); err != nil {
			utils.WriteErrorResponseWithCode(w, http.StatusServiceUnavailable,
				"UNHEALTHY", "Database is unreachable", "")
			return
		}
		utils.WriteSuccessResponse(w, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/signup", authHandler.Signup)
		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/logout", authHandler.Logout)
		api.Post("/auth/refresh", authHandler.RefreshToken)

		api.Group(func(protected chi.Router) {
			protected.Use(middleware.RequireAuth)

			protected.Get("/me", authHandler.Me)
			protected.Get("/catalog", projectHandler.Catalog)
			protected.Get("/dashboard", dashboardHandler.Dashboard)
			protected.Get("/analytics", analyticsHandler.Analytics)

			protected.Get("/projects", projectHandler.List)
			protected.Post("/projects", projectHandler.Create)
			protected.Get("/projects/{id}", projectHandler.Detail)
			protected.Post("/projects/{id}", projectHandler.Update)
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		utils.WriteNotFoundResponse(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		utils.WriteErrorResponseWithCode(w, http.StatusMethodNotAllowed,
			"METHOD_NOT_ALLOWED", "Method not allowed", "")
	})
}
