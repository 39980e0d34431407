package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobsearch-backend/config"
	v1 "go-jobsearch-backend/internal/delivery/http/v1"
	"go-jobsearch-backend/internal/repository/postgres"
	"go-jobsearch-backend/internal/usecase"
	"go-jobsearch-backend/pkg/anthropic"
	"go-jobsearch-backend/pkg/database"
	"go-jobsearch-backend/pkg/email"
	"go-jobsearch-backend/pkg/logger"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting job search backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := postgres.Migrate(context.Background(), dbPool); err != nil {
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 4. Setup Repositories
	oppRepo := postgres.NewOpportunityRepository(dbPool)
	contactRepo := postgres.NewContactRepository(dbPool)
	activityRepo := postgres.NewActivityRepository(dbPool)

	// 5. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - outreach sending will be unavailable")
	}

	// 6. Setup Anthropic Client
	llmClient := anthropic.NewClient(anthropic.Config{
		APIKey:  cfg.AnthropicAPIKey,
		BaseURL: cfg.AnthropicBaseURL,
		Model:   cfg.AnthropicModel,
	})

	// 7. Setup UseCases
	oppUC := usecase.NewOpportunityUsecase(oppRepo, activityRepo)
	workflowUC := usecase.NewWorkflowUsecase(oppRepo, contactRepo, activityRepo)
	contactUC := usecase.NewContactUsecase(contactRepo, oppRepo, activityRepo, emailService, workflowUC)
	aiUC := usecase.NewAIUsecase(llmClient, oppRepo, contactRepo, activityRepo, cfg.OwnerBackground)
	activityUC := usecase.NewActivityUsecase(activityRepo)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		OpportunityUC: oppUC,
		ContactUC:     contactUC,
		WorkflowUC:    workflowUC,
		AIUC:          aiUC,
		ActivityUC:    activityUC,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
