package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dealhub.backend/internal/config"
	"dealhub.backend/internal/infrastructure/datasources/postgres"
	"dealhub.backend/internal/infrastructure/jobs"
	"dealhub.backend/internal/infrastructure/repositories"
	"dealhub.backend/internal/interfaces/http/handlers"
	"dealhub.backend/internal/interfaces/http/middleware"
	"dealhub.backend/internal/usecases"
	"dealhub.backend/pkg/jwt"
	"dealhub.backend/pkg/logger"
	"dealhub.backend/pkg/metrics"
	"dealhub.backend/pkg/qrcode"
	"dealhub.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	openDB     = postgres.NewConnection
	openRedis  = redis.New
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	defer logger.Sync()
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer postgres.Close(db)

	if err := postgres.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := postgres.SeedAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	logger.Info(context.Background(), "Database ready")

	// Redis backs sessions and idempotency. Without REDIS_URL both are off.
	var (
		kv           *redis.Client
		sessionStore usecases.SessionStore
		idemStore    middleware.IdempotencyStore
	)
	if cfg.Redis.URL != "" {
		kv, err = openRedis(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer kv.Close()

		store, err := redis.NewSessionStore(kv, cfg.Security.SessionEncryptionKey)
		if err != nil {
			return fmt.Errorf("failed to initialize session store: %w", err)
		}
		sessionStore = store
		idemStore = kv
		logger.Info(context.Background(), "Redis initialized")
	} else {
		logger.Warn(context.Background(), "REDIS_URL not set, sessions and idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
	qrGenerator := qrcode.NewPNGGenerator(cfg.QR.Size)

	// Repositories
	uow := repositories.NewUnitOfWork(db)
	userRepo := repositories.NewUserRepository(db)
	restaurantRepo := repositories.NewRestaurantRepository(db)
	dealRepo := repositories.NewDealRepository(db)
	redemptionRepo := repositories.NewRedemptionRepository(db)

	// Usecases
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, sessionStore)
	restaurantUsecase := usecases.NewRestaurantUsecase(restaurantRepo, userRepo)
	dealUsecase := usecases.NewDealUsecase(uow, dealRepo, restaurantRepo, qrGenerator, m)
	redemptionUsecase := usecases.NewRedemptionUsecase(uow, dealRepo, restaurantRepo, redemptionRepo, m)

	checks := map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(ctx context.Context) error { return pingDB(ctx, db) }),
	}
	if kv != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return kv.Raw().Ping(ctx).Err() })
	}

	r := newRouter(cfg, routeDeps{
		authHandler:       handlers.NewAuthHandler(authUsecase),
		dealHandler:       handlers.NewDealHandler(dealUsecase),
		redemptionHandler: handlers.NewRedemptionHandler(redemptionUsecase),
		restaurantHandler: handlers.NewRestaurantHandler(restaurantUsecase),
		adminHandler:      handlers.NewAdminHandler(restaurantUsecase, authUsecase),
		healthHandler:     handlers.NewHealthHandler(checks),
		authMiddleware:    middleware.AuthMiddleware(authUsecase),
		activeUser:        middleware.RequireActiveUser(authUsecase),
		optionalAuth:      middleware.OptionalAuthMiddleware(authUsecase),
		idempotency:       middleware.IdempotencyMiddleware(idemStore),
	}, m, registry)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	expiryJob := jobs.NewRedemptionExpiryJob(redemptionRepo, cfg.Redemption.PendingTTL, cfg.Redemption.JobInterval, m)
	if expiryJob.Enabled() {
		go expiryJob.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down server")
		expiryJob.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(context.Background(), "Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(context.Background(), "DealHub backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
