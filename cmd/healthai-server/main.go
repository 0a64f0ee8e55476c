package main

import (
	"context"
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
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/gateway/routes"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/narrative"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/patient"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/session"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/vitals"
)

const (
	sessionIdleLimit  = 24 * time.Hour
	sessionPruneEvery = 10 * time.Minute
)

func main() {
	logger.InitWithService("healthai-server")
	cfg := config.Load()

	store, err := patient.OpenStore(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open patient store")
	}
	defer database.ClosePostgres()

	cache, err := patient.OpenCache(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open series cache")
	}
	defer database.CloseRedis()

	var publisher kafka.Publisher = kafka.NopPublisher{}
	if cfg.KafkaEnabled {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaPatientTopic)
		defer producer.Close()
		publisher = producer
	}

	catalog, err := narrative.Load(cfg.NarrativeTemplates)
	if err != nil {
		logger.Log.WithError(err).Warn("Narrative templates not loaded, using built-in catalog")
		catalog = narrative.DefaultCatalog()
	}

	sessions := session.NewManager()
	router := routes.NewRouter(routes.Dependencies{
		Patients:       patient.NewService(store, cache, vitals.NewGenerator(), publisher, cfg.DefaultSeriesDays),
		Engine:         health.NewEngine(),
		Assistant:      narrative.NewAssistant(catalog),
		Sessions:       sessions,
		MaxRequestBody: cfg.MaxRequestBody,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pruneSessions(ctx, sessions)

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host":  cfg.ServerHost,
			"port":  cfg.ServerPort,
			"store": cfg.StoreBackend,
			"cache": cfg.CacheBackend,
			"kafka": cfg.KafkaEnabled,
		}).Info("HealthAI server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down HealthAI server...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("HealthAI server stopped")
}

func pruneSessions(ctx context.Context, sessions *session.Manager) {
	ticker := time.NewTicker(sessionPruneEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Prune(sessionIdleLimit); n > 0 {
				logger.Log.WithField("sessions", n).Debug("Pruned idle sessions")
			}
		}
	}
}
