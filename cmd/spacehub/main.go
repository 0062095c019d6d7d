package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"campus/spacehub/internal/booking"
	"campus/spacehub/internal/config"
	"campus/spacehub/internal/handler"
	"campus/spacehub/internal/handler/middleware"
	"campus/spacehub/internal/model"
	oidcmod "campus/spacehub/internal/oidc"
	"campus/spacehub/internal/repository"
	"campus/spacehub/internal/service"
	jwtpkg "campus/spacehub/pkg/jwt"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "path to the YAML config file")
	pflag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	// 3. Connect to the database
	db, err := config.NewDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize booking lock (Redis or in-memory)
	var locker repository.Locker
	switch cfg.Lock.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		locker = repository.NewRedisLocker(redisClient, cfg.Lock.TTL, cfg.Lock.Wait)
		logger.Info("using Redis booking lock")
	default:
		locker = repository.NewMemoryLocker(cfg.Lock.Wait)
		logger.Info("using in-memory booking lock")
	}

	// 6. Initialize repositories
	repos := repository.NewPGRepositories(db)
	uow := repository.NewPGUnitOfWork(db)

	// 7. Initialize token verification
	var verifier middleware.TokenVerifier
	if cfg.JWT.JWKSURL != "" {
		verifier = oidcmod.NewVerifier(cfg.JWT.Issuer, cfg.JWT.JWKSURL, cfg.JWT.RoleClaim, nil)
		logger.Info("verifying identity provider tokens", zap.String("jwks_url", cfg.JWT.JWKSURL))
	} else {
		verifier = jwtpkg.NewManager(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	}

	// 8. Initialize services
	accounting, err := booking.ParseSeatAccounting(cfg.Reservation.SeatAccounting)
	if err != nil {
		logger.Fatal("invalid seat accounting", zap.Error(err))
	}
	location, err := cfg.Availability.Location()
	if err != nil {
		logger.Fatal("invalid availability timezone", zap.Error(err))
	}
	opts := service.Options{
		SeatAccounting: accounting,
		InvitationTTL:  cfg.Reservation.InvitationTTL,
		BaseURL:        cfg.App.BaseURL,
		Location:       location,
		OpenHour:       cfg.Availability.OpenHour,
		CloseHour:      cfg.Availability.CloseHour,
	}
	reservationService := service.NewReservationService(repos, uow, locker, opts, logger)
	invitationService := service.NewInvitationService(repos, uow, locker, opts, logger)
	availabilityService := service.NewAvailabilityService(repos, opts)
	spaceService := service.NewSpaceService(repos, uow, locker, logger)
	floorService := service.NewFloorService(repos.Floors, logger)
	analyticsService := service.NewAnalyticsService(repos)

	// 9. Initialize handlers and router
	router := handler.SetupRouter(cfg, logger, verifier, handler.Handlers{
		Floors:       handler.NewFloorHandler(floorService),
		Spaces:       handler.NewSpaceHandler(spaceService, availabilityService),
		Reservations: handler.NewReservationHandler(reservationService),
		Invitations:  handler.NewInvitationHandler(invitationService),
		Admin:        handler.NewAdminHandler(reservationService, spaceService, floorService, analyticsService),
	})

	// 10. Start the sweeper
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	if cfg.Sweeper.Enabled {
		sweeper := service.NewSweeper(repos, cfg.Sweeper.Interval, nil, logger)
		go sweeper.Run(ctx)
		logger.Info("sweeper started", zap.Duration("interval", cfg.Sweeper.Interval))
	}

	// 11. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("server exited gracefully")
}
