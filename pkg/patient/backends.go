package patient

import (
	"fmt"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/config"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/database"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/logger"
)

// OpenStore returns the subject store selected by STORE_BACKEND.
func OpenStore(cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendPostgres:
		db, err := database.GetPostgres(cfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		repo := NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			return nil, fmt.Errorf("migrating patients table: %w", err)
		}
		logger.Log.Info("Using PostgreSQL patient store")
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// OpenCache returns the series cache selected by CACHE_BACKEND.
func OpenCache(cfg *config.Config) (SeriesCache, error) {
	switch cfg.CacheBackend {
	case "", config.BackendMemory:
		return NewMemoryCache(), nil
	case config.BackendRedis:
		client, err := database.GetRedis(cfg)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		logger.Log.Info("Using Redis series cache")
		return NewRedisCache(client, cfg.SeriesCacheTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
