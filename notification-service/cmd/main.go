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
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/consumer"
	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/repository"
	"github.com/rakharan/tokopaedi-microservices/notification-service/internal/service"
	"github.com/rakharan/tokopaedi-microservices/pkg/bus"
	"github.com/rakharan/tokopaedi-microservices/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	zl, err := logger.New("notification-service")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	zl.Info("notification-service starting...")
	var wg sync.WaitGroup

	// Configuration
	httpPort := getEnv("HTTP_PORT", "8086")
	sendLatency := 500 * time.Millisecond

	// MongoDB setup
	mongoURI := getEnv("MONGO_URI", "mongodb://localhost:27017")
	mongoDB := getEnv("MONGO_DB", "tokopaedi_notifications")

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := repository.Connect(connectCtx, mongoURI, mongoDB)
	connectCancel()
	if err != nil {
		zl.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}()

	repo := repository.NewMongoRepository(db)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.CreateIndexes(indexCtx); err != nil {
		zl.Warn("Failed to create MongoDB indexes", zap.Error(err))
	}
	indexCancel()

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

	svc := service.NewEmailService(repo, sendLatency, zl)

	// Lifecycle event consumers
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	lifecycleConsumer := consumer.NewNotificationConsumer(svc, zl)
	if err := lifecycleConsumer.Start(consumerCtx, busClient); err != nil {
		zl.Fatal("Failed to start notification consumer", zap.Error(err))
	}

	// HTTP server
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Get("/notifications/{order_id}", func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		notifications, err := svc.ListByOrderID(r.Context(), orderID)
		if err != nil {
			zl.Error("list notifications failed", zap.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(notifications)
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", httpPort),
		Handler: otelhttp.NewHandler(router, "notification-service"),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		zl.Info("Notification service HTTP listening", zap.String("port", httpPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Error("HTTP serve failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zl.Info("Shutting down notification service...")
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

	zl.Info("Notification service stopped")
}
