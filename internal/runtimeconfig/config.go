package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStorageProviderUnknown     = errors.New("sitegen config: storage provider is invalid")
	ErrStorageDriverUnknown       = errors.New("sitegen config: storage driver is invalid")
	ErrStorageDSNRequired         = errors.New("sitegen config: storage dsn is required for the bun provider")
	ErrCacheTTLInvalid            = errors.New("sitegen config: cache ttl must be positive when cache is enabled")
	ErrGeneratorOutputDirRequired = errors.New("sitegen config: generator output directory is required when generator is enabled")
	ErrGeneratorTimeoutInvalid    = errors.New("sitegen config: generator timeout must be zero or positive")
	ErrContentProviderRequired    = errors.New("sitegen config: preferred content provider must not be blank")
	ErrLoggingProviderRequired    = errors.New("sitegen config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("sitegen config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("sitegen config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("sitegen config: logging format is invalid")
)

const (
	StorageMemory = "memory"
	StorageBun    = "bun"

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config aggregates feature flags and adapter bindings for the site generator.
type Config struct {
	Name      string
	Storage   StorageConfig
	Cache     CacheConfig
	Generator GeneratorConfig
	Content   ContentConfig
	Logging   LoggingConfig
	Features  Features
}

// StorageConfig selects where layouts and generation records live.
type StorageConfig struct {
	Provider string
	Driver   string
	DSN      string
}

// CacheConfig controls the repository cache wrapped around bun storage.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// GeneratorConfig captures behaviour for site generation.
type GeneratorConfig struct {
	Enabled bool
	// OutputDir receives <slug>/v<N>.zip archives.
	OutputDir string
	// UploadsDir holds <project-id>/logo* and favicon* uploads. Optional.
	UploadsDir      string
	DefaultTemplate string
	Timeout         time.Duration
}

// ContentConfig controls AI copy generation.
type ContentConfig struct {
	Enabled           bool
	PreferredProvider string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles module functionality.
type Features struct {
	Logger bool
}

// DefaultConfig returns in-memory storage, cache on, and console logging.
func DefaultConfig() Config {
	return Config{
		Name: "sitegen",
		Storage: StorageConfig{
			Provider: StorageMemory,
			Driver:   DriverSQLite,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Generator: GeneratorConfig{
			Enabled:         true,
			OutputDir:       "dist",
			DefaultTemplate: "modern",
			Timeout:         2 * time.Minute,
		},
		Content: ContentConfig{},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch provider := normalize(cfg.Storage.Provider); provider {
	case "", StorageMemory:
	case StorageBun:
		switch driver := normalize(cfg.Storage.Driver); driver {
		case DriverSQLite, DriverPostgres:
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}

	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return fmt.Errorf("%w: %s", ErrCacheTTLInvalid, cfg.Cache.TTL)
	}

	if cfg.Generator.Enabled && strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}
	if cfg.Generator.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrGeneratorTimeoutInvalid, cfg.Generator.Timeout)
	}

	if cfg.Content.PreferredProvider != "" && strings.TrimSpace(cfg.Content.PreferredProvider) == "" {
		return ErrContentProviderRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
