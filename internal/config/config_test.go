package config

import (
	"os"
	"testing"
)

func setEnv(t *testing.T, key, val string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, val)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/synoptic")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if cfg.GeminiModel != "gemini-1.5-pro-latest" {
		t.Errorf("unexpected default model: %s", cfg.GeminiModel)
	}
	if !cfg.IsDev() {
		t.Error("expected default env to be development")
	}
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	setEnv(t, "DATABASE_URL", "postgres://localhost/synoptic")
	setEnv(t, "CORS_ORIGINS", "http://a.example,http://b.example")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSOrigins)
	}
}

func TestValidate_MissingDatabaseURL(t *testing.T) {
	cfg := &Config{GeminiAPIKey: "key", GeminiModel: "m"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/x", GeminiModel: "m"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing GEMINI_API_KEY")
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://localhost/x", GeminiAPIKey: "key", GeminiModel: "m"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
