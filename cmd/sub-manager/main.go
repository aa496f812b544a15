package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Alicia-Alexia/sub-manager/internal/app"
	"github.com/Alicia-Alexia/sub-manager/internal/config"
	"github.com/Alicia-Alexia/sub-manager/internal/currency"
	"github.com/Alicia-Alexia/sub-manager/internal/db"
	"github.com/Alicia-Alexia/sub-manager/internal/http/routes"
	"github.com/Alicia-Alexia/sub-manager/internal/kafka"
	"github.com/Alicia-Alexia/sub-manager/internal/metrics"
	"github.com/Alicia-Alexia/sub-manager/internal/repository"
	"github.com/Alicia-Alexia/sub-manager/internal/service"
	"github.com/Alicia-Alexia/sub-manager/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	log := initLogger()

	log.Infow("Subscription manager starting up...")

	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}
	if cfg.Auth.JWTSecret == "" {
		log.Warnw("JWT secret is not set, every protected route will reject")
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbClient, err := db.NewDBClient(cfg.Database.DSN, log)
	if err != nil {
		log.Fatalw("Failed to connect to database", "error", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Errorw("Error closing database connection", "error", err)
		}
	}()
	log.Infow("Database connection established")

	baseRepo := repository.NewPostgresSubscriptionRepository(dbClient.DB(), log)
	categoryRepo := repository.NewPostgresCategoryRepository(dbClient.DB(), log)
	budgetRepo := repository.NewPostgresBudgetRepository(dbClient.DB(), log)

	subscriptionRepo := baseRepo
	if cfg.Redis.Addr != "" {
		redisCache, err := repository.NewRedisCacheRepository(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Warnw("Failed to initialize Redis cache, continuing without caching", "error", err)
		} else {
			log.Infow("Redis cache initialized")
			defer func() {
				if err := redisCache.Close(); err != nil {
					log.Errorw("Error closing Redis connection", "error", err)
				}
			}()
			subscriptionRepo = repository.NewCachedSubscriptionRepository(baseRepo, redisCache, log)
		}
	}

	var producer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewKafkaProducer(cfg.Kafka.Brokers, log)
		if err != nil {
			log.Errorw("Failed to initialize Kafka producer, continuing without event publishing", "error", err)
			producer = nil
		} else {
			defer func() {
				if err := producer.Close(); err != nil {
					log.Errorw("Error closing Kafka producer", "error", err)
				}
			}()
		}
	}

	ratesURL := cfg.Rates.URL
	if ratesURL == "" {
		ratesURL = currency.DefaultRatesURL
	}
	rates := currency.NewRatesClient(ratesURL, cfg.Rates.TTL, log)

	registry := prometheus.NewRegistry()
	billingMetrics := metrics.NewBillingMetrics(registry)

	subscriptionService := service.NewSubscriptionService(subscriptionRepo, categoryRepo, rates, producer, billingMetrics, log)
	budgetService := service.NewBudgetService(budgetRepo, subscriptionRepo, rates, log)

	application := app.NewApp(cfg, subscriptionService, budgetService, categoryRepo, log)

	router := gin.New()
	routes.SetupRoutes(router, application, registry, log)

	httpServer := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Infow("Starting HTTP server", "port", cfg.App.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Failed to start HTTP server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infow("Shutdown signal received, draining...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown failed", "error", err)
	}

	log.Infow("Subscription manager stopped")
}

func initLogger() *logger.Logger {
	level := logger.INFO
	if os.Getenv("APP_ENV") != "production" {
		level = logger.DEBUG
	}
	return logger.New(level)
}
