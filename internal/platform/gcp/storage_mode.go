package gcp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/course-portal-backend/internal/platform/envutil"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

const DefaultMaterialBucket = "lecture_materials"

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
	Bucket       string
	CDNDomain    string
	// PublicBaseURL overrides storage.googleapis.com when building object URLs.
	PublicBaseURL string
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

// ConfigError names the env var that could not be used.
type ConfigError struct {
	Var   string
	Value string
	Want  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s=%q; %s", e.Var, e.Value, e.Want)
}

// ResolveObjectStorageConfigFromEnv reads the storage env vars. An unset mode
// with STORAGE_EMULATOR_HOST present selects the emulator.
func ResolveObjectStorageConfigFromEnv() (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		EmulatorHost: strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		Bucket:       envutil.String("MATERIAL_GCS_BUCKET_NAME", DefaultMaterialBucket),
		CDNDomain:    envutil.String("MATERIAL_CDN_DOMAIN", ""),
	}

	rawMode := envutil.String("OBJECT_STORAGE_MODE", "")
	switch mode := ObjectStorageMode(strings.ToLower(rawMode)); mode {
	case "":
		cfg.Mode = ObjectStorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		}
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ConfigError{Var: "OBJECT_STORAGE_MODE", Value: rawMode, Want: "allowed: gcs, gcs_emulator"}
	}

	if raw := envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""); raw != "" {
		if !absoluteURL(raw) {
			return cfg, &ConfigError{Var: "OBJECT_STORAGE_PUBLIC_BASE_URL", Value: raw, Want: "expected absolute URL like http://localhost:4443"}
		}
		cfg.PublicBaseURL = strings.TrimRight(raw, "/")
	} else if cfg.IsEmulatorMode() {
		cfg.PublicBaseURL = cfg.EmulatorHost
	}

	return cfg, ValidateObjectStorageConfig(cfg)
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	switch cfg.Mode {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator:
	default:
		return &ConfigError{Var: "OBJECT_STORAGE_MODE", Value: string(cfg.Mode), Want: "allowed: gcs, gcs_emulator"}
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return &ConfigError{Var: "MATERIAL_GCS_BUCKET_NAME", Want: "a bucket name is required"}
	}
	if cfg.IsEmulatorMode() && !absoluteURL(cfg.EmulatorHost) {
		return &ConfigError{Var: "STORAGE_EMULATOR_HOST", Value: cfg.EmulatorHost, Want: "expected absolute URL like http://fake-gcs:4443"}
	}
	return nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}
