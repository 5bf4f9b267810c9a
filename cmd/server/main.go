package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "workculture-backend/internal/api/http"
	"workculture-backend/internal/config"
	"workculture-backend/internal/jobs"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/migrate"
	"workculture-backend/internal/repository/postgres"
	"workculture-backend/internal/scheduler"
	"workculture-backend/internal/security"
	"workculture-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Workculture Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Apply migrations
	if err := migrate.Run(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	// Initialize Repositories
	store := postgres.NewStore(db)
	repos := &store.Repositories

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.FromName, cfg.Email.FromAddress)
	quotaSvc := service.NewQuotaEvaluator(repos)
	api := &httpapi.API{
		Auth:         service.NewAuthService(repos, store, tokenManager),
		Limits:       service.NewLimitsService(repos, store),
		Quota:        quotaSvc,
		Usage:        service.NewUsageCounter(repos),
		Tenant:       service.NewTenantService(repos, store, quotaSvc),
		Access:       service.NewAccessRequestService(repos, store, emailSvc),
		Registration: service.NewRegistrationService(repos, store, emailSvc),
		Progress:     service.NewProgressService(repos),
	}

	// Initialize Scheduler
	jobRunner := jobs.NewJobRunner(db, repos, &jobs.Services{Email: emailSvc}, cfg)
	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Set up HTTP server
	router := httpapi.NewRouter(api, tokenManager)
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if err := srv.Close(); err != nil {
		logger.Error("Failed to close HTTP server", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
