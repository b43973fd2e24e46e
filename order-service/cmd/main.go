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
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/rakharan/tokopaedi-microservices/order-service/internal/client"
	"github.com/rakharan/tokopaedi-microservices/order-service/internal/consumer"
	orderhttp "github.com/rakharan/tokopaedi-microservices/order-service/internal/http"
	"github.com/rakharan/tokopaedi-microservices/order-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/order-service/internal/service"
	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/logger"
	pb "github.com/rakharan/tokopaedi-microservices/product-service/pkg/proto"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	zl, err := logger.New("order-service")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("order-service starting...")
	var wg sync.WaitGroup

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8083")
	productGRPCAddr := getEnv("PRODUCT_GRPC_ADDR", "localhost:50051")
	reservationTimeout := 10 * time.Second

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

	// Product service gRPC client
	productConn, err := grpc.NewClient(
		productGRPCAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		zl.Fatal("Failed to connect to product service", zap.Error(err))
	}
	defer productConn.Close()

	productClient := client.NewProductClient(pb.NewProductServiceClient(productConn), reservationTimeout, zl)

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

	svc := service.NewOrderService(repo, productClient, busClient, zl)

	// Payment/delivery outcome consumers
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	outcomeConsumer := consumer.NewPaymentOutcomeConsumer(svc, zl)
	if err := outcomeConsumer.Start(consumerCtx, busClient); err != nil {
		zl.Fatal("Failed to start payment outcome consumer", zap.Error(err))
	}

	// HTTP server
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Mount("/api/v1/orders", orderhttp.NewOrderHandler(svc, zl).Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", httpPort),
		Handler: otelhttp.NewHandler(router, "order-service"),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		zl.Info("Order service HTTP listening", zap.String("port", httpPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Error("HTTP serve failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down order service...")
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

	zl.Info("Order service stopped")
}
