package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/course-portal-backend/internal/http/middleware"
	"github.com/yungbote/course-portal-backend/internal/observability"
	"github.com/yungbote/course-portal-backend/internal/platform/envutil"
	"github.com/yungbote/course-portal-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port            string
	LogMode         string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MetricsAddr     string
	CORSOrigins     []string
	Environment     string
	ServiceName     string
	Version         string
	MetricsEnabled  bool
	Tracing         observability.OtelConfig
}

// LoadEnv reads .env into the process environment. A missing file is not an error.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080"),
		LogMode:         envutil.String("LOG_MODE", "development"),
		JWTSecretKey:    envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:  envutil.Seconds("ACCESS_TOKEN_TTL", 3600*time.Second),
		RefreshTokenTTL: envutil.Seconds("REFRESH_TOKEN_TTL", 86400*time.Second),
		MetricsAddr:     envutil.String("METRICS_ADDR", ""),
		CORSOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", middleware.DefaultCORSOrigins),
		Environment:     envutil.String("APP_ENV", "development"),
		ServiceName:     envutil.String("OTEL_SERVICE_NAME", "course-portal-backend"),
		Version:         envutil.String("APP_VERSION", ""),
	}
	cfg.MetricsEnabled = cfg.MetricsAddr != "" || envutil.Bool("METRICS_ENABLED", false)
	cfg.Tracing = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Headers:     envutil.Pairs("OTEL_EXPORTER_OTLP_HEADERS"),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
	if log != nil && cfg.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY not set, using the development default")
	}
	return cfg
}

// Address is the listen address for the API server.
func (c Config) Address() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
