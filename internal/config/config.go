package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"mindpal/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	DatabaseURL   string
	JWTSecret     string
	JWTTTL        time.Duration
	AllowedOrigin string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
	LogJSON  bool

	// JournalLocation decides which calendar day an entry belongs to.
	JournalLocation *time.Location
	MigrationsAuto  bool

	APIRateLimit      int
	APIRateWindow     time.Duration
	AuthRateLimit     int
	AuthRateWindow    time.Duration
	JournalRateLimit  int
	JournalRateWindow time.Duration
}

// Load reads the configuration from the environment (and .env if present).
// Missing required values are fatal.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		logger.Fatal("invalid configuration", logger.Err(err))
	}
	return cfg
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		AppPort:       withDefault(getenv("APP_PORT"), "8080"),
		DatabaseURL:   getenv("DATABASE_URL"),
		JWTSecret:     getenv("JWT_SECRET"),
		AllowedOrigin: getenv("ALLOWED_ORIGIN"),
		RedisAddr:     getenv("REDIS_ADDR"),
		RedisPassword: getenv("REDIS_PASSWORD"),
		LogLevel:      withDefault(getenv("LOG_LEVEL"), "info"),
		LogJSON:       getenv("LOG_JSON") == "true",
		// migrations run on start unless explicitly disabled
		MigrationsAuto: getenv("MIGRATIONS_AUTO") != "false",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg.JWTTTL = time.Duration(positiveInt(getenv("JWT_TTL_HOURS"), 24*7)) * time.Hour
	cfg.RedisDB = nonNegativeInt(getenv("REDIS_DB"), 0)

	tz := withDefault(getenv("JOURNAL_TIMEZONE"), "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("JOURNAL_TIMEZONE %q: %w", tz, err)
	}
	cfg.JournalLocation = loc

	cfg.APIRateLimit = positiveInt(getenv("API_RATE_LIMIT"), 120)
	cfg.APIRateWindow = seconds(getenv("API_RATE_WINDOW_SECONDS"), 60)
	cfg.AuthRateLimit = positiveInt(getenv("AUTH_RATE_LIMIT"), 5)
	cfg.AuthRateWindow = seconds(getenv("AUTH_RATE_WINDOW_SECONDS"), 60)
	cfg.JournalRateLimit = positiveInt(getenv("JOURNAL_RATE_LIMIT"), 10)
	cfg.JournalRateWindow = seconds(getenv("JOURNAL_RATE_WINDOW_SECONDS"), 3600)

	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveInt(v string, def int) int {
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	return def
}

func nonNegativeInt(v string, def int) int {
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return n
	}
	return def
}

func seconds(v string, def int) time.Duration {
	return time.Duration(positiveInt(v, def)) * time.Second
}
