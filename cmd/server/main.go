package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/videohub/config"
	"github.com/d60-Lab/videohub/internal/api/handler"
	"github.com/d60-Lab/videohub/internal/api/middleware"
	"github.com/d60-Lab/videohub/internal/api/router"
	"github.com/d60-Lab/videohub/internal/cache"
	"github.com/d60-Lab/videohub/internal/repository"
	"github.com/d60-Lab/videohub/internal/service"
	"github.com/d60-Lab/videohub/pkg/auth"
	"github.com/d60-Lab/videohub/pkg/database"
	"github.com/d60-Lab/videohub/pkg/logger"
	"github.com/d60-Lab/videohub/pkg/tracing"
)

// @title videohub API
// @version 1.0
// @description 互动与关系聚合服务
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", zap.Error(err))
		os.Exit(1)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Error("init tracing", zap.Error(err))
		os.Exit(1)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("init database", zap.Error(err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("get sql.DB", zap.Error(err))
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	contentRepo := repository.NewContentRepository(db)
	historyRepo := repository.NewWatchHistoryRepository(db)

	checks := map[string]handler.HealthCheck{"database": sqlDB.PingContext}

	var directory service.UserDirectory = userRepo
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		directory = cache.NewUserSummaryCache(userRepo, rdb, cfg.Redis.TTL)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	h := handler.New(
		service.NewReactionService(reactionRepo, contentRepo, videoRepo, directory),
		service.NewRelationshipService(subRepo, userRepo, directory),
		service.NewChannelService(userRepo, subRepo),
		service.NewHistoryService(historyRepo, videoRepo, directory),
		checks,
	)
	tm := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	engine := router.Setup(h, tm, middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst), router.Options{
		Mode:           cfg.Server.Mode,
		ServiceName:    cfg.Tracing.ServiceName,
		RequestTimeout: cfg.Database.QueryTimeout,
		Tracing:        cfg.Tracing.Enabled,
		Sentry:         cfg.Sentry.DSN != "",
		Swagger:        cfg.Server.Mode != "release",
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown", zap.Error(err))
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = sqlDB.Close()
}
