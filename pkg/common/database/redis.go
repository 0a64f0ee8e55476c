package database

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/config"
	"github.com/Polani-Keerthi-Varshini/HealthAI/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 5 * time.Second

var (
	redisMu     sync.Mutex
	redisClient *redis.Client
)

func RedisOptions(cfg *config.Config) *redis.Options {
	return &redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// GetRedis returns the shared client, connecting with cfg on first use. A
// server that does not answer PING is an error and leaves no client behind,
// so a later call can try again.
func GetRedis(cfg *config.Config) (*redis.Client, error) {
	redisMu.Lock()
	defer redisMu.Unlock()

	if redisClient != nil {
		return redisClient, nil
	}

	opts := RedisOptions(cfg)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", opts.Addr, err)
	}

	logger.Log.WithField("addr", opts.Addr).Info("Connected to Redis")
	redisClient = client
	return redisClient, nil
}

func CloseRedis() error {
	redisMu.Lock()
	defer redisMu.Unlock()

	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	return err
}
