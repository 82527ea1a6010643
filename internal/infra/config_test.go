package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaultStorageBaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:8080/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigInheritsPortInStorageBaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "1919")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	expected := "http://localhost:1919/static"
	if cfg.StorageBaseURL != expected {
		t.Fatalf("StorageBaseURL mismatch: got %q want %q", cfg.StorageBaseURL, expected)
	}
}

func TestLoadConfigBatchDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STATE_DEBOUNCE_MS", "")
	t.Setenv("CREDITS_PER_IMAGE", "3")
	t.Setenv("REDIS_USE_TLS", "true")
	t.Setenv("BATCH_RETENTION", "90s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.StateDebounce != 500*time.Millisecond {
		t.Fatalf("StateDebounce = %v, want 500ms", cfg.StateDebounce)
	}
	if cfg.CreditsPerImage != 3 || !cfg.RedisUseTLS {
		t.Fatalf("credits/tls = %d/%v", cfg.CreditsPerImage, cfg.RedisUseTLS)
	}
	if cfg.BatchRetention != 90*time.Second {
		t.Fatalf("BatchRetention = %v", cfg.BatchRetention)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.test" {
		t.Fatalf("CORSAllowedOrigins = %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "x")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadConfigGenerationBackend(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("GENERATION_BACKEND", "")
	t.Setenv("GEMINI_IMAGE_MODEL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.GenerationBackend != "http" || cfg.GeminiImageModel != "gemini-2.5-flash-image" {
		t.Fatalf("backend/model = %q/%q", cfg.GenerationBackend, cfg.GeminiImageModel)
	}

	t.Setenv("GENERATION_BACKEND", "Gemini")
	if cfg, err = LoadConfig(); err != nil || cfg.GenerationBackend != "gemini" {
		t.Fatalf("gemini backend: %v %+v", err, cfg)
	}

	t.Setenv("GENERATION_BACKEND", "carrier-pigeon")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
