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

	"truefit-backend-go/internal/api"
	"truefit-backend-go/internal/auth"
	"truefit-backend-go/internal/config"
	"truefit-backend-go/internal/core"
	"truefit-backend-go/internal/db"
	"truefit-backend-go/internal/middleware"
	"truefit-backend-go/internal/notify"
	"truefit-backend-go/internal/payments"
	"truefit-backend-go/pkg/cache"
	"truefit-backend-go/pkg/messagequeue"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := config.NewLogger(os.Getenv("GIN_MODE"))
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded",
		zap.String("databaseDriver", appConfig.DatabaseDriver),
		zap.String("authProvider", appConfig.AuthProvider))

	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()

	// Closed in reverse order on shutdown.
	var closers []func() error

	// --- 3. Initialize Store ---
	var (
		repos          *db.Repositories
		firebaseClient *db.Client
	)
	switch appConfig.DatabaseDriver {
	case config.DriverMemory:
		repos = db.NewMemoryStore().Repositories()
		zapLogger.Warn("Using in-memory store; data is lost on restart")
	default:
		firebaseClient, err = db.NewClient(initCtx, appConfig, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
		}
		closers = append(closers, firebaseClient.Close)
		repos = db.NewFirestoreRepositories(firebaseClient.Firestore)
	}

	// --- 4. Initialize Role Cache ---
	var roleCache cache.Cache = cache.NewMemoryCache(cache.DefaultMemoryCacheSize, appConfig.RoleCacheTTL)
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err))
		}
		roleCache = redisCache
		zapLogger.Info("Role cache backed by Redis", zap.String("address", appConfig.RedisAddr))
	}
	closers = append(closers, roleCache.Close)

	// --- 5. Initialize Event Publisher ---
	var events core.EventPublisher = core.NopPublisher{}
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{
			URL:    appConfig.RabbitMQURL,
			Logger: zapLogger,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to RabbitMQ", zap.Error(err))
		}
		closers = append(closers, mq.Close)
		events = notify.NewQueuePublisher(mq, appConfig.EventsQueue)
		zapLogger.Info("Publishing notification events", zap.String("queue", appConfig.EventsQueue))
	} else {
		zapLogger.Warn("RABBITMQ_URL is not configured; notification events are discarded")
	}

	// --- 6. Initialize Payment Processor ---
	var processor core.PaymentProcessor
	if appConfig.StripeSecretKey != "" {
		stripeProcessor, err := payments.NewStripeProcessor(appConfig.StripeSecretKey, appConfig.PaymentCurrency, payments.DefaultBreakerConfig, zapLogger)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Stripe", zap.Error(err))
		}
		processor = stripeProcessor
	} else {
		zapLogger.Warn("STRIPE_SECRET_KEY is not configured; payment intents are disabled and payments are not verified")
	}

	// --- 7. Initialize Token Verifier ---
	var (
		verifier auth.Verifier
		tokens   *auth.JWTManager
	)
	switch appConfig.AuthProvider {
	case config.AuthProviderFirebase:
		verifier = auth.NewFirebaseVerifier(firebaseClient.Auth)
	default:
		tokens, err = auth.NewJWTManager(appConfig.AccessTokenSecret, appConfig.AccessTokenTTL)
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize JWT manager", zap.Error(err))
		}
		verifier = tokens
	}

	// --- 8. Initialize Services ---
	roles := core.NewRoleResolver(repos.Users, roleCache, appConfig.RoleCacheTTL, zapLogger)
	auditService := core.NewAuditService(repos.Audit)
	services := api.Services{
		Users:        core.NewUserService(repos.Users, roles, auditService, zapLogger),
		Applications: core.NewApplicationService(repos.Applications, repos.Transactor, roles, auditService, events, appConfig.ApplicationSlotQuota, zapLogger),
		Classes:      core.NewClassService(repos.Classes),
		Slots:        core.NewSlotService(repos.Slots, repos.Transactor),
		Forum:        core.NewForumService(repos.Forum, repos.Users, roles),
		Billing: core.NewBillingService(core.BillingDeps{
			Payments:  repos.Payments,
			Slots:     repos.Slots,
			Users:     repos.Users,
			Classes:   repos.Classes,
			Tx:        repos.Transactor,
			Processor: processor,
			Roles:     roles,
			Audit:     auditService,
			Events:    events,
			Logger:    zapLogger,
		}),
		Reviews:     core.NewReviewService(repos.Reviews),
		Subscribers: core.NewSubscriberService(repos.Subscribers, repos.Users),
	}
	zapLogger.Info("Core services initialized successfully.")

	// --- 9. Setup Gin HTTP Engine ---
	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	metrics := middleware.NewMetrics()
	router, err := middleware.NewEngine(middleware.EngineConfig{
		Logger:         zapLogger,
		Metrics:        metrics,
		ClientURL:      appConfig.ClientURL,
		TrustedProxies: appConfig.TrustedProxyList(),
	})
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to set up HTTP engine", zap.Error(err))
	}

	// --- 10. Setup API Routes ---
	rateLimiter := middleware.NewIPRateLimiter(appConfig.TokenRateLimitPerMinute, zapLogger)
	api.SetupRoutes(router, api.RouterDeps{
		Verifier:    verifier,
		Roles:       roles,
		Tokens:      tokens,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Logger:      zapLogger,
	}, services)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go rateLimiter.Cleanup(bgCtx)

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopBackground()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			zapLogger.Warn("Failed to release resource during shutdown", zap.Error(err))
		}
	}
	zapLogger.Info("Server exiting gracefully.")
}
