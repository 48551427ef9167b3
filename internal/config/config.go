// Package config provides configuration loading and validation for the
// API server. It uses koanf to merge environment variables with
// optional file overrides; environment variables take precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server and the
// dataset importer.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database. Empty means the in-memory store (development only).
	DatabaseURL string `koanf:"database_url"`

	// Redis, used for rate limit state when set. Empty selects the
	// in-memory rate limit store.
	RedisURL string `koanf:"redis_url"`

	// JWT authentication. Empty disables bearer auth; the userId
	// query parameter remains available either way.
	JWTSecret string `koanf:"jwt_secret"`

	// CORS allowed origins, comma separated in the environment.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Ranking calibration file path. Empty uses built-in defaults.
	RankingCalibrationPath string `koanf:"ranking_calibration_path"`

	// Rate limits (requests per minute)
	GlobalRateLimit int `koanf:"global_rate_limit"`
	SearchRateLimit int `koanf:"search_rate_limit"`

	// Tracing
	TracingEnabled      bool    `koanf:"tracing_enabled"`
	TracingOTLPEndpoint string  `koanf:"tracing_otlp_endpoint"`
	TracingExporterType string  `koanf:"tracing_exporter_type"`
	TracingSamplingRate float64 `koanf:"tracing_sampling_rate"`
	TracingInsecure     bool    `koanf:"tracing_insecure"`

	// Dataset import source (S3-compatible object storage)
	DatasetBucket          string `koanf:"dataset_bucket"`
	DatasetAccessKeyID     string `koanf:"dataset_access_key_id"`
	DatasetSecretAccessKey string `koanf:"dataset_secret_access_key"`
	DatasetEndpoint        string `koanf:"dataset_endpoint"`
	DatasetRegion          string `koanf:"dataset_region"`
}

// Configuration validation errors.
var (
	ErrInvalidPort         = errors.New("PORT must be a valid integer")
	ErrInvalidRateLimit    = errors.New("rate limits must be positive integers")
	ErrInvalidSamplingRate = errors.New("TRACING_SAMPLING_RATE must be between 0 and 1")
)

// Default values for non-secret configuration.
const (
	DefaultPort            = 8080
	DefaultEnv             = "development"
	DefaultGlobalRateLimit = 100
	DefaultSearchRateLimit = 30
	DefaultSamplingRate    = 0.1
	DefaultDatasetRegion   = "auto"
)

// Load reads configuration from environment variables and an optional
// YAML file. Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if
// valid). A config file path that cannot be loaded is an error.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort, ErrInvalidPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	globalLimit, globalErr := getEnvIntOrDefault("GLOBAL_RATE_LIMIT", k.Int("global_rate_limit"), DefaultGlobalRateLimit, ErrInvalidRateLimit)
	if globalErr != nil {
		loadErrs = append(loadErrs, globalErr)
	}
	searchLimit, searchErr := getEnvIntOrDefault("SEARCH_RATE_LIMIT", k.Int("search_rate_limit"), DefaultSearchRateLimit, ErrInvalidRateLimit)
	if searchErr != nil {
		loadErrs = append(loadErrs, searchErr)
	}

	samplingRate, samplingErr := getEnvFloatOrDefault("TRACING_SAMPLING_RATE", k.Float64("tracing_sampling_rate"), DefaultSamplingRate)
	if samplingErr != nil {
		loadErrs = append(loadErrs, samplingErr)
	}

	cfg := &Config{
		Port:                   port,
		Env:                    getEnvOrDefault("TABLESCOUT_ENV", k.String("env"), DefaultEnv),
		DatabaseURL:            getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisURL:               getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		JWTSecret:              getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		CORSAllowedOrigins:     getEnvListOrKoanf("CORS_ALLOWED_ORIGINS", k, "cors_allowed_origins"),
		RankingCalibrationPath: getEnvOrKoanf("RANKING_CALIBRATION_PATH", k, "ranking_calibration_path"),
		GlobalRateLimit:        globalLimit,
		SearchRateLimit:        searchLimit,
		TracingEnabled:         getEnvBoolOrKoanf("TRACING_ENABLED", k, "tracing_enabled"),
		TracingOTLPEndpoint:    getEnvOrKoanf("TRACING_OTLP_ENDPOINT", k, "tracing_otlp_endpoint"),
		TracingExporterType:    getEnvOrKoanf("TRACING_EXPORTER_TYPE", k, "tracing_exporter_type"),
		TracingSamplingRate:    samplingRate,
		TracingInsecure:        getEnvBoolOrKoanf("TRACING_INSECURE", k, "tracing_insecure"),
		DatasetBucket:          getEnvOrKoanf("DATASET_BUCKET", k, "dataset_bucket"),
		DatasetAccessKeyID:     getEnvOrKoanf("DATASET_ACCESS_KEY_ID", k, "dataset_access_key_id"),
		DatasetSecretAccessKey: getEnvOrKoanf("DATASET_SECRET_ACCESS_KEY", k, "dataset_secret_access_key"),
		DatasetEndpoint:        getEnvOrKoanf("DATASET_ENDPOINT", k, "dataset_endpoint"),
		DatasetRegion:          getEnvOrDefault("DATASET_REGION", k.String("dataset_region"), DefaultDatasetRegion),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// Validate checks configuration values. DatabaseURL is deliberately
// not required: an empty value selects the in-memory store for local
// development.
func (c *Config) Validate() []error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if c.GlobalRateLimit <= 0 || c.SearchRateLimit <= 0 {
		errs = append(errs, ErrInvalidRateLimit)
	}
	if c.TracingSamplingRate < 0 || c.TracingSamplingRate > 1 {
		errs = append(errs, ErrInvalidSamplingRate)
	}

	return errs
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnvOrKoanf returns the environment variable value if set,
// otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise the koanf value, or the default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvListOrKoanf parses a comma-separated environment variable into
// a list, falling back to the koanf value.
func getEnvListOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) []string {
	raw := os.Getenv(envKey)
	if raw == "" {
		return k.Strings(koanfKey)
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// getEnvBoolOrKoanf parses a boolean environment variable, falling
// back to the koanf value. Unrecognized values are treated as false.
func getEnvBoolOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) bool {
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return k.Bool(koanfKey)
}

// getEnvIntOrDefault returns the environment variable as int if set,
// otherwise the koanf value, or the default. A set but unparsable
// environment variable returns an error wrapping the caller's
// sentinel.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int, sentinel error) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, sentinel)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if
// set, otherwise the koanf value, or the default.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}
