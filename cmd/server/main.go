package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apporder "github.com/distriflow/backend/internal/application/order"
	"github.com/distriflow/backend/internal/infrastructure/auth"
	"github.com/distriflow/backend/internal/infrastructure/cache"
	"github.com/distriflow/backend/internal/infrastructure/config"
	"github.com/distriflow/backend/internal/infrastructure/event"
	"github.com/distriflow/backend/internal/infrastructure/logger"
	"github.com/distriflow/backend/internal/infrastructure/persistence"
	"github.com/distriflow/backend/internal/interfaces/http/handler"
	"github.com/distriflow/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting DistriFlow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database,
		logger.NewGormLogger(log.Named("gorm"), logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := persistence.AutoMigrate(db.DB); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}
	log.Info("Database schema up to date")

	// Page-cache invalidation is best effort: without Redis the handler
	// still runs, it just has nothing to flush.
	var invalidator event.PageInvalidator = cache.NoopInvalidator{}
	if cfg.Redis.Enabled {
		redisInvalidator, err := cache.NewRedisPageInvalidator(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis unavailable, page cache invalidation disabled", zap.Error(err))
		} else {
			invalidator = redisInvalidator
			defer func() {
				_ = redisInvalidator.Close()
			}()
			log.Info("Redis page cache invalidation enabled",
				zap.String("host", cfg.Redis.Host), zap.Int("port", cfg.Redis.Port))
		}
	}

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewAuditLogHandler(log))
	bus.Subscribe(event.NewEmailNotificationHandler(event.NewLoggingNotifier(log)))
	bus.Subscribe(event.NewCacheInvalidationHandler(invalidator))

	settings := persistence.NewGormSettingsRepository(db.DB, log).
		WithFallbackTaxRate(decimal.NewFromFloat(cfg.Tax.DefaultRatePercent))
	uow := persistence.NewGormUnitOfWork(db.DB)
	orderService := apporder.NewService(uow, settings, bus, log)

	tokens := auth.NewTokenService(cfg.JWT)

	engine := router.New(router.Dependencies{
		Logger:      log,
		Tokens:      tokens,
		Orders:      handler.NewOrderHandler(orderService),
		Inventory:   handler.NewInventoryHandler(orderService),
		HealthCheck: db.Ping,
	})
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies configuration", zap.Error(err))
		}
	}

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
