package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"smarttax/internal/cache"
	"smarttax/internal/handler"
	"smarttax/internal/menu"
	"smarttax/internal/middleware"
	"smarttax/internal/repository"
	"smarttax/internal/repository/postgres"
	"smarttax/internal/service"
	"smarttax/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the USSD gateway endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")

	return cmd
}

func runServe(ctx context.Context, skipMigrations bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting SmartTax USSD", zap.String("version", Version), zap.String("env", cfg.Env))

	db, err := connectDatabase(ctx, cfg.DSN(), logger)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database connection established")

	if !skipMigrations {
		if err := runMigrations(db, cfg.Database.MigrationsPath, logger); err != nil {
			return err
		}
	}

	// Initialize repositories
	traderRepo := postgres.NewTraderRepo(db)
	txRepo := postgres.NewTransactionRepo(db)
	var locationRepo repository.LocationRepository = postgres.NewLocationRepo(db)

	if client := connectRedis(ctx, cfg.Redis, logger); client != nil {
		defer client.Close()
		locationRepo = cache.NewLocationCache(locationRepo, client, cfg.Redis.LocationTTL, logger)
	}

	// Initialize services
	calc, err := service.NewTaxCalculator(cfg.TaxRate)
	if err != nil {
		return err
	}
	hasher := service.NewBcryptHasher(cfg.PINHashCost)
	traderService := service.NewTraderService(traderRepo, locationRepo, hasher, logger)
	authService := service.NewAuthService(traderRepo, hasher)
	locationService := service.NewLocationService(locationRepo, logger)
	paymentService := service.NewPaymentService(txRepo, calc, logger)
	statsService := service.NewStatsService(txRepo, logger)

	store := session.NewStore(traderService, logger, session.WithTTL(cfg.Session.TTL))
	machine := menu.NewMachine(menu.Deps{
		Traders:   traderService,
		Auth:      authService,
		Locations: locationService,
		Payments:  paymentService,
		Stats:     statsService,
	}, cfg.USSDCode, logger)
	h := handler.NewHandler(store, machine, traderService, logger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
	)
	h.RegisterRoutes(router)

	go runCleanupJob(ctx, store, cfg.Session.SweepInterval, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", srv.Addr),
			zap.String("tax_rate", calc.RatePercent()+"%"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully", zap.Int("sessions_dropped", store.Len()))
	return nil
}

// runCleanupJob periodically evicts idle sessions
func runCleanupJob(ctx context.Context, store *session.Store, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Session cleanup job stopped")
			return
		case <-ticker.C:
			if removed := store.Sweep(); removed > 0 {
				logger.Debug("Expired sessions removed",
					zap.Int("removed", removed),
					zap.Int("remaining", store.Len()),
				)
			}
		}
	}
}
