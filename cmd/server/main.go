package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/config"
	"github.com/rahhaltours/admin-backend/internal/database"
	"github.com/rahhaltours/admin-backend/internal/handlers"
	"github.com/rahhaltours/admin-backend/internal/services"
	"github.com/rahhaltours/admin-backend/pkg/jwt"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting trip admin backend")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	gin.SetMode(cfg.Server.GinMode)

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		logger.Fatalf("Failed to prepare schema: %v", err)
	}
	logger.Info("Database connection established")

	store := database.NewSQLStore(db)

	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
	)

	auditService := services.NewAuditService(store, logger)
	tripService := services.NewTripCatalogService(store, logger, cfg.Policy.RejectCapacityShrink)
	ledgerService := services.NewBookingLedgerService(store, logger)
	reportingService := services.NewReportingService(store, logger, cfg.ReportingLocation())
	userService := services.NewUserService(store, ledgerService, jwtService, logger, cfg.Policy.BcryptCost)
	catalogService := services.NewCatalogService(store, logger)

	cronService := services.NewCronService(tripService, logger, cfg.Policy.ExpireSweepSpec)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	router := handlers.SetupRouter(cfg, jwtService, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(userService, logger),
		Trip:    handlers.NewTripHandler(tripService, ledgerService, auditService, logger),
		Booking: handlers.NewBookingHandler(ledgerService, auditService, logger),
		User:    handlers.NewUserHandler(userService, auditService, logger),
		Catalog: handlers.NewCatalogHandler(catalogService, auditService, logger),
		Stats:   handlers.NewStatsHandler(reportingService, auditService, logger),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
