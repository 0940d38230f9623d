package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	GRPCPort string
	LogLevel string

	DB     DBConfig
	Push   PushConfig
	Redis  RedisConfig
	Kafka  KafkaConfig
	Outbox OutboxConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the connection string in the key=value form pgxpool accepts.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type PushConfig struct {
	GatewayURL  string
	AccessToken string
	BatchSize   int
	Timeout     time.Duration
}

type RedisConfig struct {
	URL      string
	TokenTTL time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	ClaimTimeout time.Duration
}

func Load() Config {
	loadEnv()

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "9000"),
		GRPCPort: getEnv("GRPC_PORT", "9001"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "autoplux"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Push: PushConfig{
			GatewayURL:  getEnv("PUSH_GATEWAY_URL", "https://exp.host/--/api/v2/push/send"),
			AccessToken: getEnv("PUSH_ACCESS_TOKEN", ""),
			BatchSize:   getEnvInt("PUSH_BATCH_SIZE", 100),
			Timeout:     getEnvDuration("PUSH_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			TokenTTL: getEnvDuration("TOKEN_CACHE_TTL", time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "lifecycle_events"),
			GroupID: getEnv("KAFKA_GROUP_ID", "lifecycle-event-consumer-group"),
		},
		Outbox: OutboxConfig{
			PollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 2*time.Second),
			BatchSize:    getEnvInt("OUTBOX_BATCH_SIZE", 50),
			MaxAttempts:  getEnvInt("OUTBOX_MAX_ATTEMPTS", 5),
			ClaimTimeout: getEnvDuration("OUTBOX_CLAIM_TIMEOUT", 2*time.Minute),
		},
	}
}

func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	possiblePaths := []string{
		filepath.Join(wd, ".env"),
		filepath.Join(wd, "..", ".env"),
		filepath.Join(wd, "..", "..", ".env"),
	}

	for _, envPath := range possiblePaths {
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
