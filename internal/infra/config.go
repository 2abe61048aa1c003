package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv         string
	Port           string
	DatabaseURL    string
	JWTSecret      string
	GeoIPDBPath    string
	DefaultLocale  string
	AllowedOrigins []string

	// Generation service.
	MotionAPIKey  string
	MotionBaseURL string
	MotionModel   string

	// Transcription service.
	TranscribeBaseURL string
	TranscribeAPIKey  string

	// Object storage.
	StorageBackend     string // "supabase" or "filesystem"
	SupabaseURL        string
	SupabaseServiceKey string
	StorageBucket      string
	StoragePath        string
	StorageBaseURL     string

	// Redis (cancellation flags).
	RedisAddr     string
	RedisUsername string
	RedisPassword string

	// Orchestration knobs.
	PollInterval     time.Duration
	MaxPollAttempts  int
	PermanentLinkTTL time.Duration
	EphemeralTTL     time.Duration
	MaxConcurrent    int

	// Attachment buffer.
	AttachBackend  string // "memory" or "redis"
	AttachCapacity int
	AttachTTL      time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		GeoIPDBPath:    os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:  getEnv("DEFAULT_LOCALE", "en"),
		AllowedOrigins: splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),

		MotionAPIKey:  os.Getenv("MOTION_API_KEY"),
		MotionBaseURL: getEnv("MOTION_BASE_URL", "https://api.motionlabs.dev/v1"),
		MotionModel:   getEnv("MOTION_MODEL", "motion-3"),

		TranscribeBaseURL: getEnv("TRANSCRIBE_BASE_URL", "https://api.motionlabs.dev/v1"),
		TranscribeAPIKey:  os.Getenv("TRANSCRIBE_API_KEY"),

		StorageBackend:     getEnv("STORAGE_BACKEND", "filesystem"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		StorageBucket:      getEnv("STORAGE_BUCKET", "clips"),
		StoragePath:        getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		PollInterval:     time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 10)),
		MaxPollAttempts:  getEnvInt("MAX_POLL_ATTEMPTS", 60),
		PermanentLinkTTL: time.Minute * time.Duration(getEnvInt("PERMANENT_LINK_TTL_MINUTES", 10*365*24*60)),
		EphemeralTTL:     time.Minute * time.Duration(getEnvInt("EPHEMERAL_TTL_MINUTES", 30)),
		MaxConcurrent:    getEnvInt("MAX_CONCURRENT_GENERATIONS", 64),

		AttachBackend:  getEnv("ATTACH_BUFFER_BACKEND", "memory"),
		AttachCapacity: getEnvInt("ATTACH_BUFFER_CAPACITY", 256),
		AttachTTL:      time.Minute * time.Duration(getEnvInt("ATTACH_BUFFER_TTL_MINUTES", 30)),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.StorageBackend == "supabase" {
		if cfg.SupabaseURL == "" || cfg.SupabaseServiceKey == "" {
			return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for supabase storage")
		}
	}

	return cfg, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
