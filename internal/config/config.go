package config

import (
	"os"
	"strconv"
	"time"
)

// Backend selects which store implementations back the registries.
type Backend string

const (
	// BackendMemory keeps all state in process memory (default).
	BackendMemory Backend = "memory"

	// BackendExternal keeps sessions in Redis and trips/drivers in
	// PostgreSQL.
	BackendExternal Backend = "external"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	USSD     USSDConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// USSDConfig holds dialog configuration.
type USSDConfig struct {
	CSVPath       string
	PageSize      int
	MaxDistanceKm float64
	SessionTTL    time.Duration // 0 disables session expiry
	PathReplay    bool          // gateway resends the full '*'-joined input
}

// StoreConfig selects the store backend.
type StoreConfig struct {
	Backend Backend
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		USSD: USSDConfig{
			CSVPath:       getEnv("CSV_PATH", "./data/locations.csv"),
			PageSize:      getIntEnv("USSD_PAGE_SIZE", 6),
			MaxDistanceKm: getFloatEnv("USSD_MAX_DISTANCE_KM", 30),
			SessionTTL:    getDurationEnv("SESSION_TTL", 0),
			PathReplay:    getBoolEnv("USSD_PATH_REPLAY", false),
		},
		Store: StoreConfig{
			Backend: Backend(getEnv("STORE_BACKEND", string(BackendMemory))),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "quickride"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "quickride-ussd"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
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
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
