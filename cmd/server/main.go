package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appforecast "github.com/mirai/inventory-backend/internal/application/forecast"
	appledger "github.com/mirai/inventory-backend/internal/application/ledger"
	appreporting "github.com/mirai/inventory-backend/internal/application/reporting"
	"github.com/mirai/inventory-backend/internal/infrastructure/cache"
	"github.com/mirai/inventory-backend/internal/infrastructure/config"
	"github.com/mirai/inventory-backend/internal/infrastructure/logger"
	"github.com/mirai/inventory-backend/internal/infrastructure/persistence"
	"github.com/mirai/inventory-backend/internal/interfaces/http/handler"
	"github.com/mirai/inventory-backend/internal/interfaces/http/middleware"
	"github.com/mirai/inventory-backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting inventory service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with a gorm logger backed by the application logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Summary cache: Redis when enabled, otherwise process-local
	var summaryCache appreporting.SummaryCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisSummaryCache(&cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, falling back to in-memory summary cache",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Error(err),
			)
			summaryCache = cache.NewInMemorySummaryCache()
		} else {
			log.Info("using redis summary cache", zap.String("addr", cfg.Redis.Addr()))
			summaryCache = redisCache
		}
	} else {
		summaryCache = cache.NewInMemorySummaryCache()
	}

	// Initialize repositories
	recordRepo := persistence.NewGormInventoryRecordRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	predictionRepo := persistence.NewGormPredictionRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	ledgerService := appledger.NewLedgerService(txScope, recordRepo, itemRepo)
	transferService := appledger.NewTransferService(txScope, itemRepo)
	movementService := appledger.NewMovementQueryService(movementRepo)
	reportingService := appreporting.NewReportingService(recordRepo, itemRepo, predictionRepo, summaryCache).
		WithSummaryTTL(cfg.Forecast.SummaryCacheTTL)
	forecastService := appforecast.NewForecastService(recordRepo, movementRepo, itemRepo, predictionRepo)

	// Set gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Register custom validator tag name resolution
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewInventoryHandler(ledgerService, transferService, movementService)).
		Register(handler.NewReportingHandler(reportingService)).
		Register(handler.NewForecastHandler(forecastService, cfg.Forecast.AtRiskThreshold))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Error("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
