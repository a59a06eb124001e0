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
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dancewave-backend-go/internal/api"
	"dancewave-backend-go/internal/config"
	"dancewave-backend-go/internal/core"
	"dancewave-backend-go/internal/db"
	"dancewave-backend-go/internal/middleware"
	"dancewave-backend-go/pkg/cache"
	"dancewave-backend-go/pkg/messagequeue"
)

func main() {
	// --- 1. Configuration and logger ---
	// Configuration comes first because GIN_MODE picks the logger flavour.
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// JSON logs in release mode, human-readable ones otherwise.
	var zapLogger *zap.Logger
	if appConfig.IsRelease() {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync() // flushes buffered entries on exit
	zapLogger.Info("Application configuration loaded", zap.String("store_driver", appConfig.StoreDriver))

	// --- 2. Store ---
	// One timeout bounds every connection made during startup.
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	store, err := db.Open(initCtx, appConfig, zapLogger) // mongo, firestore or memory per STORE_DRIVER
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to open store", zap.Error(err))
	}

	// --- 3. Optional adapters: catalog cache and event queue ---
	// Both adapters are optional: unset or unreachable means a no-op and a warning.
	var catalog cache.Cache = cache.Noop{}
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, zapLogger)
		if err != nil {
			zapLogger.Warn("Catalog cache disabled", zap.Error(err))
		} else {
			catalog = redisCache
		}
	}
	defer catalog.Close()

	var publisher core.EventPublisher = core.NoopEventPublisher{}
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
		if err != nil {
			zapLogger.Warn("Lifecycle events disabled", zap.Error(err))
		} else {
			defer mq.Close()
			publisher = core.NewQueueEventPublisher(mq, appConfig.EventsQueue)
		}
	}

	// --- 4. Services ---
	tokenService := core.NewTokenService(appConfig.AccessTokenSecret, appConfig.TokenTTL, nil) // nil clock: time.Now
	// Lifecycle and enrollment share the catalog cache so enrollments invalidate it.
	services := api.Services{
		Tokens:     tokenService,
		Access:     core.NewAccessService(tokenService, store.Users),
		Users:      core.NewUserService(store.Users, zapLogger),
		Lifecycle:  core.NewLifecycleService(store.Proposals, store.Classes, catalog, appConfig.CatalogCacheTTL, publisher, zapLogger),
		Enrollment: core.NewEnrollmentService(store.Selections, store.Classes, catalog, publisher, zapLogger),
		Payments:   core.NewPaymentService(core.NewStripeGateway(appConfig.StripeSecretKey), appConfig.PaymentCurrency, zapLogger),
		Store:      store,
	}

	// --- 5. Gin engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New() // no default middleware; the chain below replaces gin.Default()

	// Global middleware. Order matters: the request id must exist before the
	// logger and the recovery handler read it.
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(zapLogger))      // zap request log
	router.Use(middleware.RecoveryMiddleware(zapLogger)) // panic -> 500 for that request
	router.Use(middleware.CORSMiddleware(appConfig))     // origins from CLIENT_URL
	if appConfig.ClientURL == "" {
		zapLogger.Warn("CLIENT_URL is not configured; CORS allows every origin.")
	}

	api.SetupRoutes(router, appConfig, zapLogger, services)

	// --- 6. HTTP server with graceful shutdown ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second, // bounds slow header writers
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	// Serve in a goroutine so main can wait for a shutdown signal.
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Block until SIGINT (Ctrl+C) or SIGTERM (container stop).
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	// Stop accepting connections and let in-flight requests finish, then close the store.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		zapLogger.Error("Failed to close store", zap.Error(err))
	}
	zapLogger.Info("Server exiting gracefully.")
}
