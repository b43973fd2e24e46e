package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/payment-service/internal/consumer"
	"github.com/rakharan/tokopaedi-microservices/payment-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/payment-service/internal/service"
	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/logger"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	zl, err := logger.New("payment-service")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("payment-service starting...")
	var wg sync.WaitGroup

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8085")
	gatewayLatency := time.Second

	// Database setup
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbName := getEnv("DB_NAME", "tokopaedi")
	migrationsPath := getEnv("MIGRATIONS_PATH", "./internal/repository/migrations")

	port, err := strconv.Atoi(dbPort)
	if err != nil {
		zl.Fatal("Invalid DB_PORT", zap.Error(err))
	}

	creds := &repository.Credentials{
		Host:              dbHost,
		Port:              port,
		User:              dbUser,
		Password:          dbPass,
		DBName:            dbName,
		MigrationsDirPath: migrationsPath,
	}

	repo, err := repository.NewRepository(creds)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		zl.Fatal("Failed to run migrations", zap.Error(err))
	}
	zl.Info("Database migrations completed")

	// Message bus
	busClient := bus.NewClient(bus.Config{
		Host:  getEnv("RABBITMQ_HOST", "localhost"),
		Port:  getEnv("RABBITMQ_PORT", "5672"),
		User:  getEnv("RABBITMQ_USER", "guest"),
		Pass:  getEnv("RABBITMQ_PASSWORD", "guest"),
		VHost: getEnv("RABBITMQ_VHOST", "/"),
	}, zl)
	if err := busClient.Connect(); err != nil {
		zl.Fatal("Failed to connect to message bus", zap.Error(err))
	}
	defer busClient.Close()

	svc := service.NewPaymentService(repo, busClient, gatewayLatency, zl)

	// Order created consumer
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	orderConsumer := consumer.NewOrderCreatedConsumer(svc, zl)
	if err := orderConsumer.Start(consumerCtx, busClient); err != nil {
		zl.Fatal("Failed to start order created consumer", zap.Error(err))
	}

	// HTTP server (health only)
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", httpPort),
		Handler: otelhttp.NewHandler(router, "payment-service"),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		zl.Info("Payment service HTTP listening", zap.String("port", httpPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Error("HTTP serve failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down payment service...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	consumerCancel()

	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		zl.Info("Servers stopped cleanly")
	case <-shutdownCtx.Done():
		zl.Warn("Servers didn't stop in time")
	}

	zl.Info("Payment service stopped")
}
