package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/splashngo/dashboard-service/internal/adapters/postgres"
	"github.com/splashngo/dashboard-service/internal/adapters/secrets"
	"github.com/splashngo/dashboard-service/internal/adapters/square"
	"github.com/splashngo/dashboard-service/internal/config"
	cronHandler "github.com/splashngo/dashboard-service/internal/handlers/cron"
	dashboardHandler "github.com/splashngo/dashboard-service/internal/handlers/dashboard"
	webhookHandler "github.com/splashngo/dashboard-service/internal/handlers/webhook"
	"github.com/splashngo/dashboard-service/internal/services/auth"
	"github.com/splashngo/dashboard-service/internal/services/changefeed"
	"github.com/splashngo/dashboard-service/internal/services/enrich"
	"github.com/splashngo/dashboard-service/internal/services/reconcile"
	syncService "github.com/splashngo/dashboard-service/internal/services/sync"
	"github.com/splashngo/dashboard-service/pkg/middleware"
	"github.com/splashngo/dashboard-service/pkg/observability"
)

func main() {
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting dashboard service",
		zap.String("version", "0.1.0"),
	)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	dbConfig := postgres.DefaultConfig(cfg.Database.ConnectionString())
	dbConfig.MaxConns = cfg.Database.MaxConns
	dbConfig.MinConns = cfg.Database.MinConns
	db, err := postgres.NewDB(dbCtx, dbConfig, logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Secrets
	secretManager, err := secrets.New(ctx, secrets.FactoryConfig{
		Backend:        secrets.Backend(cfg.Secrets.Backend),
		LocalBasePath:  cfg.Secrets.LocalBasePath,
		AWSRegion:      cfg.Secrets.AWSRegion,
		AWSProfile:     cfg.Secrets.AWSProfile,
		AWSEndpoint:    cfg.Secrets.AWSEndpoint,
		VaultAddress:   cfg.Secrets.VaultAddress,
		VaultToken:     cfg.Secrets.VaultToken,
		VaultMountPath: cfg.Secrets.VaultMountPath,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize secrets backend", zap.Error(err))
	}

	accessToken, err := secretManager.GetSecret(ctx, cfg.Provider.AccessTokenSecret)
	if err != nil {
		logger.Fatal("Failed to resolve provider access token", zap.Error(err))
	}
	cronSecret, err := secretManager.GetSecret(ctx, cfg.Provider.CronSecretName)
	if err != nil {
		logger.Fatal("Failed to resolve cron secret", zap.Error(err))
	}
	jwtKey, err := secretManager.GetSecret(ctx, cfg.Provider.JWTKeySecretName)
	if err != nil {
		logger.Fatal("Failed to resolve JWT signing key", zap.Error(err))
	}

	// Provider client
	providerConfig := square.DefaultConfig(accessToken)
	providerConfig.BaseURL = cfg.Provider.BaseURL
	providerConfig.Version = cfg.Provider.Version
	providerConfig.Timeout = time.Duration(cfg.Provider.Timeout) * time.Second
	providerClient := square.NewClient(providerConfig, nil, logger)

	// Repositories
	transactionRepo := postgres.NewTransactionRepository(db, logger)
	customerRepo := postgres.NewCustomerRepository(db, logger)
	storeRepo := postgres.NewStoreRepository(db, logger)

	// Services
	enricher := enrich.NewEnricher(providerClient, logger)
	reconciler := reconcile.NewReconciler(transactionRepo, customerRepo, logger)
	synchronizer := syncService.NewSynchronizer(providerClient, customerRepo, transactionRepo, enricher, logger)
	authService := auth.NewService(storeRepo, []byte(jwtKey),
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour, logger)

	feed := changefeed.NewListener(db.Pool, logger)
	go feed.Run(ctx)

	// Handlers
	webhook := webhookHandler.NewHandler(reconciler, enricher, db, logger)
	cron := cronHandler.NewSyncHandler(synchronizer, logger, cronSecret)
	dashboard := dashboardHandler.NewHandler(transactionRepo, customerRepo, storeRepo, authService, feed, logger)

	// HTTP server
	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst)
	defer rateLimiter.Shutdown()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/square-webhook", webhook.HandleEvent)
	mux.HandleFunc("/cron/sync-customers", cron.SyncCustomers)
	mux.HandleFunc("/cron/sync-transactions", cron.SyncTransactions)
	mux.HandleFunc("/api/stores", dashboard.ListStores)
	mux.HandleFunc("/api/transactions", dashboard.ListTransactions)
	mux.HandleFunc("/api/transactions/stream", dashboard.StreamTransactions)
	mux.HandleFunc("/api/sales/monthly", dashboard.MonthlySales)
	mux.HandleFunc("/api/customers", dashboard.Customers)
	mux.HandleFunc("/api/customers/", dashboard.CustomerByID)
	mux.HandleFunc("/api/auth/login", dashboard.Login)

	handler := observability.HTTPMetricsMiddleware(rateLimiter.Middleware(mux))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE connections stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Metrics server
	healthChecker := observability.NewHealthChecker(db.Pool)
	metricsServer := observability.StartMetricsServer(fmt.Sprintf("%d", cfg.Server.MetricsPort), healthChecker, logger)

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}

	logger.Info("Dashboard service stopped")
}

// initLogger initializes the logger
func initLogger() *zap.Logger {
	env := os.Getenv("ENVIRONMENT")

	if env == "production" {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		logger, _ := zapCfg.Build()
		return logger
	}

	logger, _ := zap.NewDevelopment()
	return logger
}
