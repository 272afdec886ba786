package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/piresc/coingate/internal/pkg/config"
	"github.com/piresc/coingate/internal/pkg/database"
	"github.com/piresc/coingate/internal/pkg/health"
	httpclient "github.com/piresc/coingate/internal/pkg/http"
	"github.com/piresc/coingate/internal/pkg/logger"
	"github.com/piresc/coingate/internal/pkg/middleware"
	natspkg "github.com/piresc/coingate/internal/pkg/nats"
	"github.com/piresc/coingate/internal/pkg/server"
	"github.com/piresc/coingate/services/gateway/gateway"
	"github.com/piresc/coingate/services/gateway/handler"
	"github.com/piresc/coingate/services/gateway/repository"
	"github.com/piresc/coingate/services/gateway/usecase"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	appName := "gateway-service"
	configPath := config.GetEnv("CONFIG_PATH", "config/gateway.env")
	configs := config.InitConfig(configPath)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	zapLogger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
	)

	// Initialize PostgreSQL database connection
	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	// Initialize NATS
	natsClient, err := natspkg.NewClient(configs.NATS.URL, appName)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS", logger.Err(err))
	}

	// Initialize repositories
	txRepo := repository.NewTransactionRepository(configs, postgresClient.GetDB())
	ratesCache := repository.NewRatesCache(redisClient.GetClient())
	locker, err := repository.NewLocker(configs, redisClient.GetClient())
	if err != nil {
		zapLogger.Fatal("Failed to initialize transaction locker", logger.Err(err))
	}

	// Initialize gateways
	processorClient := httpclient.NewClient(zapLogger, configs.CoinPayments.Timeout)
	gatewayGW := gateway.NewGatewayGW(
		gateway.NewCoinPaymentsGateway(configs.CoinPayments, processorClient, zapLogger),
		gateway.NewEventGateway(natsClient, configs.Gateway.EventSubject),
	)

	// Initialize usecase
	gatewayUC, err := usecase.NewGatewayUC(configs, txRepo, ratesCache, gatewayGW, gatewayGW, locker)
	if err != nil {
		zapLogger.Fatal("Failed to initialize gateway usecase", logger.Err(err))
	}

	// Initialize handlers
	h := handler.NewHandler(gatewayUC, configs)

	// Initialize Echo router
	e := echo.New()
	e.HideBanner = true

	// Add middlewares
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(middleware.RequestContextMiddleware())
	e.Use(logger.ZapEchoMiddleware(zapLogger))
	e.Use(middleware.MetricsMiddleware())

	// Register health endpoints
	healthService := health.NewHealthService(zapLogger)
	healthService.AddChecker("postgres", health.NewPingChecker(postgresClient))
	healthService.AddChecker("redis", health.NewPingChecker(redisClient))
	healthService.AddChecker("nats", health.NewNATSHealthChecker(natsClient))
	healthService.AddOptionalChecker("coinpayments", health.NewCircuitBreakerChecker(processorClient))
	health.RegisterEnhancedHealthEndpoints(e, appName, configs.App.Version, healthService)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Register service routes
	h.RegisterRoutes(e,
		middleware.JWTAuthMiddleware(configs.JWT),
		middleware.OwnerRateLimiter(configs.Gateway.OwnerRateLimit, time.Minute, redisClient.GetClient()),
	)

	srv := server.NewGracefulServer(e, zapLogger, configs.Server)
	srv.OnShutdown(func(ctx context.Context) error {
		natsClient.Close()
		return nil
	})
	srv.OnShutdown(func(ctx context.Context) error {
		return redisClient.Close()
	})
	srv.OnShutdown(func(ctx context.Context) error {
		return postgresClient.Close()
	})

	if err := srv.Start(); err != nil {
		zapLogger.Fatal("Server stopped with error",
			logger.String("app", appName),
			logger.Err(err),
		)
	}
}
