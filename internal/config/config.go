package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds PostgreSQL configuration. An empty Host disables
// durable history storage.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds the override-slot store configuration. An empty
// Addr selects the in-memory slot instead.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	OverrideTTL time.Duration
}

// KafkaConfig holds Kafka configuration. Empty Brokers disable event
// publishing and snapshot consumption.
type KafkaConfig struct {
	Brokers        []string
	RunsTopic      string
	PositionsTopic string
	GroupID        string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "scenariorisk"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:        getEnv("REDIS_ADDR", ""),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          0,
			OverrideTTL: 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers:        splitBrokers(getEnv("KAFKA_BROKERS", "")),
			RunsTopic:      getEnv("KAFKA_RUNS_TOPIC", "scenario-runs"),
			PositionsTopic: getEnv("KAFKA_POSITIONS_TOPIC", "position-snapshots"),
			GroupID:        getEnv("KAFKA_GROUP_ID", "scenario-risk-service"),
		},
	}
}

// ConnectionString returns the PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.DBName + "?sslmode=" + d.SSLMode
}

func splitBrokers(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
