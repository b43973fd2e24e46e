package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/logger"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/cache"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/consumer"
	productgrpc "github.com/rakharan/tokopaedi-microservices/product-service/internal/grpc"
	producthttp "github.com/rakharan/tokopaedi-microservices/product-service/internal/http"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/product-service/internal/service"
	pb "github.com/rakharan/tokopaedi-microservices/product-service/pkg/proto"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	zl, err := logger.New("product-service")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("product-service starting...")
	var wg sync.WaitGroup

	// Configuration
	grpcPort := getEnv("GRPC_PORT", "50051")
	httpPort := getEnv("HTTP_PORT", "8081")
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")

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

	// Redis cache
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer redisClient.Close()
	productCache := cache.NewRedisCache(redisClient)

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

	svc := service.NewProductService(repo, productCache, busClient, zl)

	// Stock restoration consumer
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	stockConsumer := consumer.NewStockRestorationConsumer(svc, zl)
	if err := stockConsumer.Start(consumerCtx, busClient); err != nil {
		zl.Fatal("Failed to start stock restoration consumer", zap.Error(err))
	}

	// gRPC server
	lis, err := net.Listen("tcp", fmt.Sprintf(":%s", grpcPort))
	if err != nil {
		zl.Fatal("Failed to listen", zap.Error(err))
	}

	productHandler := productgrpc.NewProductServiceServer(svc, zl)
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	pb.RegisterProductServiceServer(grpcServer, productHandler)
	reflection.Register(grpcServer)

	wg.Add(1)
	go func() {
		defer wg.Done()
		zl.Info("Product service gRPC listening", zap.String("port", grpcPort))
		if err := grpcServer.Serve(lis); err != nil {
			zl.Error("gRPC serve failed", zap.Error(err))
		}
	}()

	// HTTP server
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Mount("/api/v1/products", producthttp.NewProductHandler(svc, zl).Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", httpPort),
		Handler: otelhttp.NewHandler(router, "product-service"),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		zl.Info("Product service HTTP listening", zap.String("port", httpPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Error("HTTP serve failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down product service...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Warn("HTTP server shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
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

	zl.Info("Product service stopped")
}
