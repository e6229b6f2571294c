package app

import (
	"testing"
	"time"

	"github.com/yungbote/course-portal-backend/internal/http/middleware"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "JWT_SECRET_KEY", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "CORS_ALLOWED_ORIGINS", "METRICS_ADDR"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)
	if cfg.Address() != ":8080" {
		t.Fatalf("address: %q", cfg.Address())
	}
	if cfg.AccessTokenTTL != time.Hour || cfg.RefreshTokenTTL != 24*time.Hour {
		t.Fatalf("ttls: %v %v", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	}
	if cfg.JWTSecretKey != defaultJWTSecret {
		t.Fatalf("secret: %q", cfg.JWTSecretKey)
	}
	if len(cfg.CORSOrigins) != len(middleware.DefaultCORSOrigins) {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("ACCESS_TOKEN_TTL", "60")
	t.Setenv("REFRESH_TOKEN_TTL", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://portal.example.edu, ,https://admin.example.edu")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg := LoadConfig(nil)
	if cfg.Address() != "127.0.0.1:9000" {
		t.Fatalf("address: %q", cfg.Address())
	}
	if cfg.AccessTokenTTL != time.Minute {
		t.Fatalf("access ttl: %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 24*time.Hour {
		t.Fatalf("bad refresh ttl should fall back: %v", cfg.RefreshTokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example.edu" {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}
	if cfg.JWTSecretKey != "s3cret" {
		t.Fatalf("secret: %q", cfg.JWTSecretKey)
	}
}

func TestLoadEnvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
}

func TestLoadConfigTracingSettings(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "portal-api")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-team=course, bad,=empty")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "1")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("METRICS_ENABLED", "")

	cfg := LoadConfig(nil)
	tr := cfg.Tracing
	if !tr.Enabled || tr.ServiceName != "portal-api" || tr.SampleRatio != 0.5 {
		t.Fatalf("tracing: %+v", tr)
	}
	if tr.Endpoint != "collector:4318" || !tr.Insecure {
		t.Fatalf("exporter: %+v", tr)
	}
	if len(tr.Headers) != 1 || tr.Headers["x-team"] != "course" {
		t.Fatalf("headers: %v", tr.Headers)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("metrics should be off without METRICS_ADDR or METRICS_ENABLED")
	}

	t.Setenv("METRICS_ADDR", ":9090")
	if !LoadConfig(nil).MetricsEnabled {
		t.Fatalf("METRICS_ADDR should enable metrics")
	}
}
