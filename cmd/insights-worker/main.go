package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/analytics/health"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/config"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/database"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/kafka"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/logger"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/observability/metrics"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/patient"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/pipeline"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/vitals"
	"github.com/gorilla/mux"
)

func main() {
	logger.InitWithService("insights-worker")
	cfg := config.Load()

	if !cfg.KafkaEnabled || len(cfg.KafkaBrokers) == 0 {
		logger.Log.Fatal("insights-worker requires KAFKA_ENABLED=true and KAFKA_BROKERS")
	}
	if cfg.CacheBackend != config.BackendRedis {
		logger.Log.Warn("CACHE_BACKEND is not redis, precomputed series stay local to this worker")
	}

	cache, err := patient.OpenCache(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open series cache")
	}
	defer database.CloseRedis()

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaInsightsTopic)
	defer producer.Close()

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaPatientTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	precomputer := pipeline.NewPrecomputer(cache, vitals.NewGenerator(), health.NewEngine(), producer, cfg.DefaultSeriesDays)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := consumer.Consume(ctx, precomputer.Handle)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Fatal("Consumer error")
		}
	}()

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"topic": cfg.KafkaPatientTopic,
			"group": cfg.KafkaGroupID,
			"port":  cfg.ServerPort,
		}).Info("Insights worker started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down insights worker...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Insights worker stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
