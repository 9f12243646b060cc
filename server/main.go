package main

import (
	"context"
	"dexotix/api/routes"
	"dexotix/internal/notifications"
	"dexotix/internal/seats"
	"dexotix/internal/shared/config"
	"dexotix/internal/shared/database"
	"dexotix/pkg/logger"
	"dexotix/pkg/metrics"
	"dexotix/pkg/ratelimit"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	appLogger := logger.GetDefault()

	// Smart environment loading
	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect:", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Preload the Redis Lua scripts the seat-hold flow depends on.
	if db.Redis != nil {
		holds := seats.NewAtomicHoldStore(db.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := holds.PreloadScripts(ctx); err != nil {
			appLogger.Error("Failed to preload Redis Lua scripts", slog.Any("error", err))
			// Scripts load lazily on first use, so keep going.
		} else {
			appLogger.Info("Redis Lua scripts preloaded for atomic seat holds")
		}
		cancel()
	}

	appMetrics := metrics.New()

	// Rate limiter
	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), &ratelimit.Config{
			Enabled:         cfg.RateLimit.Enabled,
			WindowDuration:  cfg.RateLimit.WindowDuration,
			DefaultRequests: cfg.RateLimit.DefaultRequests,
			PublicRequests:  cfg.RateLimit.PublicRequests,
			AuthRequests:    cfg.RateLimit.AuthRequests,
			BookingRequests: cfg.RateLimit.BookingRequests,
			PaymentRequests: cfg.RateLimit.PaymentRequests,
			AdminRequests:   cfg.RateLimit.AdminRequests,
			WhitelistedIPs:  cfg.RateLimit.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	// Event pipeline: producer for the API, consumer for emails.
	producer := notifications.NewNoopProducer()
	if cfg.Kafka.Enabled {
		kafkaProducer, err := notifications.NewKafkaEventProducer(cfg.Kafka)
		if err != nil {
			appLogger.Error("Failed to initialize Kafka producer, events will be dropped", slog.Any("error", err))
		} else {
			producer = kafkaProducer
			defer producer.Close()
		}
	}

	appRouter := routes.NewRouter(cfg, db, producer, appMetrics)
	engine := setupEngine(cfg, appRouter, rateLimiter, appMetrics)

	if cfg.Kafka.Enabled {
		consumerCtx, consumerCancel := context.WithCancel(context.Background())
		defer consumerCancel()

		emailService := notifications.NewEmailService(cfg.Email)
		consumer, err := notifications.NewKafkaConsumer(cfg.Kafka, emailService, appRouter.NotificationResolver())
		if err != nil {
			appLogger.Error("Failed to initialize notification consumer", slog.Any("error", err))
			appLogger.Info("Continuing without email notifications")
		} else {
			if err := consumer.Start(consumerCtx, 3); err != nil {
				appLogger.Error("Failed to start notification consumer", slog.Any("error", err))
			}
			defer func() {
				appLogger.Info("Stopping notification consumer...")
				if err := consumer.Stop(); err != nil {
					appLogger.Error("Error stopping notification consumer", slog.Any("error", err))
				}
			}()
		}
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", cfg.APIVersion),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("kafka", cfg.Kafka.Enabled),
			slog.Bool("rate_limiting", rateLimiter != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

func setupEngine(cfg *config.Config, appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter, m *metrics.Metrics) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), RequestMetricsMiddleware(m), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Razorpay-Signature"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
		appLogger.Info("Rate limiting middleware applied to all routes")
	}

	appRouter.SetupRoutes(engine)

	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		l.LogHTTPRequest(c, duration)
	}
}

func RequestMetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
