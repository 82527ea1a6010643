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
	LogLevel       string
	Port           string
	DatabaseURL    string
	DBMaxConns     int
	JWTSecret      string
	StoragePath    string
	StorageBaseURL string

	RedisAddr     string
	RedisPassword string
	RedisUseTLS   bool

	GenerationBackend       string
	GenerationBaseURL       string
	GenerationAPIKey        string
	GenerationRatePerMinute int
	GenerationTimeout       time.Duration
	SkeletonBaseURL         string
	GeminiAPIKey            string
	GeminiModel             string
	GeminiImageModel        string

	PoseLibraryPath    string
	CreditsPerImage    int
	StateDebounce      time.Duration
	PreviewConcurrency int
	BatchRetention     time.Duration

	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	port := getEnv("PORT", "8080")
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		LogLevel:       os.Getenv("LOG_LEVEL"),
		Port:           port,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBMaxConns:     getEnvInt("DB_MAX_CONNS", 10),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		StoragePath:    getEnv("STORAGE_PATH", "./data/assets"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:"+port+"/static"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisUseTLS:   getEnvBool("REDIS_USE_TLS", false),

		GenerationBackend:       strings.ToLower(getEnv("GENERATION_BACKEND", "http")),
		GenerationBaseURL:       os.Getenv("GENERATION_BASE_URL"),
		GenerationAPIKey:        os.Getenv("GENERATION_API_KEY"),
		GenerationRatePerMinute: getEnvInt("GENERATION_RATE_PER_MINUTE", 20),
		GenerationTimeout:       getEnvDuration("GENERATION_TIMEOUT", 3*time.Minute),
		SkeletonBaseURL:         os.Getenv("SKELETON_BASE_URL"),
		GeminiAPIKey:            os.Getenv("GEMINI_API_KEY"),
		GeminiModel:             getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:        getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),

		PoseLibraryPath:    os.Getenv("POSE_LIBRARY_PATH"),
		CreditsPerImage:    getEnvInt("CREDITS_PER_IMAGE", 1),
		StateDebounce:      time.Millisecond * time.Duration(getEnvInt("STATE_DEBOUNCE_MS", 500)),
		PreviewConcurrency: getEnvInt("PREVIEW_CONCURRENCY", 3),
		BatchRetention:     getEnvDuration("BATCH_RETENTION", 10*time.Minute),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	switch cfg.GenerationBackend {
	case "http", "gemini":
	default:
		return nil, fmt.Errorf("GENERATION_BACKEND must be http or gemini, got %q", cfg.GenerationBackend)
	}

	return cfg, nil
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

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
