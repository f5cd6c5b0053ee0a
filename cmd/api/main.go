package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sangkips/pos-multicurrency/internal/application/service"
	"github.com/sangkips/pos-multicurrency/internal/config"
	"github.com/sangkips/pos-multicurrency/internal/domain/repository"
	"github.com/sangkips/pos-multicurrency/internal/infrastructure/database"
	infraRepo "github.com/sangkips/pos-multicurrency/internal/infrastructure/repository"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/handler"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/middleware"
	"github.com/sangkips/pos-multicurrency/internal/presentation/http/routes"
	"github.com/sangkips/pos-multicurrency/pkg/logger"
	"github.com/sangkips/pos-multicurrency/pkg/metrics"
	"github.com/sangkips/pos-multicurrency/pkg/printer"
	"github.com/sangkips/pos-multicurrency/pkg/utils"
)

const idempotencyCleanupInterval = time.Hour

func main() {
	cfg := config.Load()

	log := logger.New(logger.Options{
		ServiceName: cfg.App.Name,
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
		WarnStack:   cfg.Log.WarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		log.Error(ctx, "failed to connect to database", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Error(ctx, "failed to run migrations", err)
		os.Exit(1)
	}

	if err := database.SeedDefaultData(ctx, db, cfg.Admin, log); err != nil {
		log.Warn(log.WithField(ctx, "error", err.Error()), "failed to seed default data")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Repositories
	userRepo := infraRepo.NewUserRepository(db)
	companyRepo := infraRepo.NewCompanyRepository(db)
	currencyRepo := infraRepo.NewCurrencyRepository(db)
	configRepo := infraRepo.NewConfigRepository(db)
	methodRepo := infraRepo.NewPaymentMethodRepository(db)
	sessionRepo := infraRepo.NewSessionRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	idempotencyRepo := infraRepo.NewIdempotencyRepository(db)
	txManager := infraRepo.NewTransactionManager(db)

	// Services
	rateService := service.NewRateService(currencyRepo, companyRepo, sessionRepo, paymentRepo)
	recomputer := service.NewRecomputer(orderRepo, sessionRepo, metrics.NewRecomputeMetrics(registry), log)
	authService := service.NewAuthService(userRepo, jwtManager)
	configService := service.NewConfigService(configRepo, currencyRepo, userRepo, txManager, rateService, log)
	orderService := service.NewOrderService(sessionRepo, orderRepo, paymentRepo, methodRepo, currencyRepo, txManager, rateService, recomputer, log)
	paymentService := service.NewPaymentService(paymentRepo, sessionRepo, currencyRepo, txManager, recomputer, log)
	sessionService := service.NewSessionService(sessionRepo, configRepo, paymentRepo, txManager, recomputer, log)

	receiptPrinter, err := printer.New(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Warn(log.WithField(ctx, "error", err.Error()), "printer disabled")
		receiptPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(receiptPrinter, orderService, cfg.Printer.Type, cfg.Printer.StoreName, cfg.Printer.CharWidth, log)

	handlers := &routes.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Config:   handler.NewConfigHandler(configService, rateService),
		Currency: handler.NewCurrencyHandler(rateService),
		Order:    handler.NewOrderHandler(orderService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Session:  handler.NewSessionHandler(sessionService),
		RPC:      handler.NewRPCHandler(rateService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	rateLimiter := middleware.NewCompanyRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond(),
		BurstSize:         cfg.RateLimit.Requests,
	})
	go rateLimiter.Run(ctx)
	go cleanupIdempotencyKeys(ctx, idempotencyRepo, log)

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		Log:             log,
		IdempotencyRepo: idempotencyRepo,
		RateLimiter:     rateLimiter,
		RPCMetrics:      metrics.NewRPCMetrics(registry),
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(log.WithFields(ctx, map[string]any{"port": port, "env": cfg.App.Env}), "starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "server stopped", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "graceful shutdown failed", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// cleanupIdempotencyKeys removes expired order sync keys until ctx is done.
func cleanupIdempotencyKeys(ctx context.Context, repo repository.IdempotencyRepository, log *logger.Logger) {
	ticker := time.NewTicker(idempotencyCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Error(ctx, "idempotency cleanup failed", err)
				continue
			}
			if removed > 0 {
				log.Debug(log.WithField(ctx, "removed", removed), "expired idempotency keys removed")
			}
		}
	}
}
