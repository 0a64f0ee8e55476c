package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64
	RateLimitRPS   int
	RateLimitBurst int

	// Storage selection
	StoreBackend string
	CacheBackend string

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	SeriesCacheTTL time.Duration

	// Kafka
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaGroupID       string
	KafkaPatientTopic  string
	KafkaInsightsTopic string

	// Analytics
	DefaultSeriesDays int

	// Narrative assistant
	NarrativeTemplates string
}

func Load() *Config {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 1024*1024)),
		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 100),

		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		CacheBackend: strings.ToLower(getEnv("CACHE_BACKEND", BackendMemory)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "healthai"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "healthai"),
		PostgresDB:       getEnv("POSTGRES_DB", "healthai"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getIntEnv("REDIS_DB", 0),
		SeriesCacheTTL: getDuration("SERIES_CACHE_TTL", 24*time.Hour),

		KafkaEnabled:       getBoolEnv("KAFKA_ENABLED", false),
		KafkaBrokers:       getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "healthai-insights"),
		KafkaPatientTopic:  getEnv("KAFKA_PATIENT_TOPIC", "healthai.patients"),
		KafkaInsightsTopic: getEnv("KAFKA_INSIGHTS_TOPIC", "healthai.insights"),

		DefaultSeriesDays: getIntEnv("DEFAULT_SERIES_DAYS", 30),

		NarrativeTemplates: getEnv("NARRATIVE_TEMPLATES", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
