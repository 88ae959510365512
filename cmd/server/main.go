package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finance-admin/internal/config"
	"finance-admin/internal/database"
	"finance-admin/internal/handlers"
	"finance-admin/internal/middleware"
	"finance-admin/internal/models"
	"finance-admin/internal/repositories"
	"finance-admin/internal/services"
)

const auditPurgeInterval = 24 * time.Hour

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Server.LogFormat)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Initialize(ctx, cfg, cfg.IsDevelopment())
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		stop()
		os.Exit(1)
	}

	transactionRepo := repositories.NewTransactionRepository(db)
	conceptRepo := repositories.NewConceptRepository(db)
	providerRepo := repositories.NewProviderRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	metrics := services.NewPrometheusMetrics()
	auditLogger := services.NewAuditLogger(logger)
	auditService := services.NewAuditService(auditRepo, logger)

	breakerCfg := services.CircuitBreakerConfigFromAI(cfg.AI)
	breakerCfg.OnStateChange = func(from, to models.CircuitBreakerState) {
		metrics.RecordGauge(services.MetricCircuitBreakerState, float64(to), map[string]string{"service": "genai"})
		auditLogger.LogCircuitBreakerStateChange(context.Background(), "genai", from.String(), to.String())
	}
	breaker := services.NewCircuitBreaker(breakerCfg)

	var generator services.TextGeneratorInterface
	if cfg.AI.APIKey != "" {
		generator, err = services.NewGeminiTextGenerator(ctx, cfg.AI)
		if err != nil {
			logger.Error("Failed to create text generator", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, chatbot will answer from templates")
	}

	conceptService := services.NewConceptService(conceptRepo, transactionRepo, auditService, metrics)
	providerService := services.NewProviderService(providerRepo, auditService, metrics)
	transactionService := services.NewTransactionService(transactionRepo, conceptRepo, providerRepo, auditService, auditLogger, metrics)
	importService := services.NewImportService(transactionRepo, conceptRepo, providerRepo, auditService, auditLogger, metrics)
	reportService := services.NewReportService(transactionRepo, metrics)
	chatbotService := services.NewChatbotService(
		transactionRepo, conceptRepo, providerRepo,
		generator, breaker, metrics, auditLogger,
		cfg.AI, cfg.Chatbot,
	)

	h := routeHandlers{
		Concepts:     handlers.NewConceptHandler(conceptService),
		Providers:    handlers.NewProviderHandler(providerService),
		Transactions: handlers.NewTransactionHandler(transactionService),
		Import:       handlers.NewImportHandler(importService, cfg.Security.MaxUploadBytes),
		Reports:      handlers.NewReportHandler(reportService),
		Audit:        handlers.NewAuditHandler(auditService),
		Chatbot:      handlers.NewChatbotHandler(chatbotService),
		Health:       handlers.NewHealthCheckHandler(db),
		Docs:         handlers.NewDocsHandler(cfg.Server.DocsDir),
	}
	if cfg.IsDevelopment() {
		demoService := services.NewDemoDataService(transactionRepo, conceptRepo, providerRepo, auditService, metrics)
		h.Dev = handlers.NewDevHandler(demoService)
	}

	opts := routeOptions{
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		ChatbotLimiter:   middleware.NewIPRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitBurst),
		HSTS:             cfg.IsProduction(),
	}
	if cfg.Auth.Enabled {
		opts.TokenService = services.NewTokenService(&cfg.Auth)
	} else {
		logger.Warn("AUTH_ENABLED is false, /api is not protected")
	}

	e := newEcho(h, opts)

	go opts.ChatbotLimiter.RunCleanup(ctx)
	go purgeAuditLogs(ctx, auditService, cfg.Database.AuditRetention, logger)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting API server", "addr", server.Addr, "environment", cfg.Server.Environment)
		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}

	logger.Info("Server exited")
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

// purgeAuditLogs deletes expired audit entries once at startup and then daily
func purgeAuditLogs(ctx context.Context, auditService services.AuditServiceInterface, retention time.Duration, logger *slog.Logger) {
	if retention <= 0 {
		return
	}

	ticker := time.NewTicker(auditPurgeInterval)
	defer ticker.Stop()

	for {
		deleted, err := auditService.PurgeOlderThan(retention)
		if err != nil {
			logger.Error("Audit log purge failed", "error", err)
		} else if deleted > 0 {
			logger.Info("Purged audit logs", "deleted", deleted, "retention", retention.String())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
