package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"

	httpapi "libraflow-backend/internal/api/http"
	"libraflow-backend/internal/config"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/repository/postgres"
	"libraflow-backend/internal/security"
	"libraflow-backend/internal/service"

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
	logger.Info("Starting LibraFlow Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
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

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	authMW := httpapi.NewAuthMiddleware(tokenManager)

	// Push is optional: without Firebase credentials, notifications are
	// in-app only.
	var push service.PushSender
	if cfg.Firebase.CredentialsFile != "" {
		push, err = service.NewFCMPushSender(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize FCM push sender, continuing without push", "error", err)
			push = nil
		} else {
			logger.Info("FCM push notifications enabled")
		}
	}

	// Initialize Services
	notifSvc := service.NewNotificationService(store.NotificationRepository, push)
	rewardsSvc := service.NewRewardsService(store.UserRepository, store.LoanRepository, notifSvc)
	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	bookSvc := service.NewBookService(store.BookRepository, store.LoanRepository)
	loanSvc := service.NewLoanService(
		store.LoanRepository,
		store.BookRepository,
		store.UserRepository,
		rewardsSvc,
		notifSvc,
	)
	statsSvc := service.NewStatsService(store.StatsRepository)
	assistantSvc := service.NewAssistantService(
		cfg.Groq.APIKey,
		cfg.Groq.BaseURL,
		cfg.Groq.Model,
		store.LoanRepository,
		store.BookRepository,
		store.StatsRepository,
	)

	// Initialize HTTP handlers and router
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authSvc),
		Book:         httpapi.NewBookHandler(bookSvc),
		Loan:         httpapi.NewLoanHandler(loanSvc),
		Notification: httpapi.NewNotificationHandler(notifSvc),
		Stats:        httpapi.NewStatsHandler(statsSvc),
		Assistant:    httpapi.NewAssistantHandler(assistantSvc),
		AuthMW:       authMW,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
