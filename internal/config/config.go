package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Module provides the application configuration.
var Module = fx.Module("config", fx.Provide(Load))

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Port        string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminAPIKey string

	ESIBase        string
	ESIUserAgent   string
	ESITimeoutSecs int
	ESIMaxQPS      float64

	ZKillURL         string
	ZKillQueueID     string
	ZKillTimeoutSecs int

	PollInterval      time.Duration
	SeedInterval      time.Duration
	AggregateInterval time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "lostfits"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		Port:        getenv("PORT", "8000"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "lostfits"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),

		AdminAPIKey: strings.TrimSpace(getenv("ADMIN_API_KEY", "")),

		ESIBase:        getenv("ESI_BASE", "https://esi.evetech.net/latest"),
		ESIUserAgent:   getenv("ESI_USER_AGENT", "lostfits/0.1 (contact: ops@lostfits.app)"),
		ESITimeoutSecs: getenvInt("ESI_TIMEOUT_SECS", 10),
		ESIMaxQPS:      getenvFloat("ESI_MAX_QPS", 3),

		ZKillURL:         getenv("ZKILL_STREAM_URL", "https://zkillredisq.stream/listen.php"),
		ZKillQueueID:     getenv("ZKILL_QUEUE_ID", "lostfits"),
		ZKillTimeoutSecs: getenvInt("ZKILL_TIMEOUT_SECS", 30),

		PollInterval:      getenvDuration("SCHED_POLL_INTERVAL", 10*time.Second),
		SeedInterval:      getenvDuration("SCHED_SEED_INTERVAL", 24*time.Hour),
		AggregateInterval: getenvDuration("SCHED_AGGREGATE_INTERVAL", 24*time.Hour),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
