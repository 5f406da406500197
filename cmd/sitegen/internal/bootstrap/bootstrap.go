package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	sitegen "github.com/tourtosky/affiliate-site-generator"
	"github.com/tourtosky/affiliate-site-generator/internal/di"
	"github.com/tourtosky/affiliate-site-generator/internal/logging"
	"github.com/tourtosky/affiliate-site-generator/internal/projects"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// Options captures configuration for sitegen CLI bootstraps.
type Options struct {
	OutputDir         string
	UploadsDir        string
	Storage           sitegen.StorageConfig
	PreferredProvider string
	LogLevel          string
	LogFormat         string
	LoggerProvider    interfaces.LoggerProvider
	ContentProviders  []interfaces.ContentProvider
}

// Module wraps the sitegen module, the project source the CLI feeds and
// the CLI logger.
type Module struct {
	Module *sitegen.Module
	Source *projects.MemorySource
	Logger interfaces.Logger
}

// BuildModule constructs a module configured for command line generation.
// Bun storage is migrated before the module is returned.
func BuildModule(opts Options) (*Module, error) {
	cfg := sitegen.DefaultConfig()
	if dir := strings.TrimSpace(opts.OutputDir); dir != "" {
		cfg.Generator.OutputDir = dir
	}
	cfg.Generator.UploadsDir = strings.TrimSpace(opts.UploadsDir)
	if provider := strings.TrimSpace(opts.Storage.Provider); provider != "" {
		cfg.Storage.Provider = provider
	}
	if driver := strings.TrimSpace(opts.Storage.Driver); driver != "" {
		cfg.Storage.Driver = driver
	}
	cfg.Storage.DSN = strings.TrimSpace(opts.Storage.DSN)
	if provider := strings.TrimSpace(opts.PreferredProvider); provider != "" {
		cfg.Content.PreferredProvider = provider
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Features.Logger = true
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Features.Logger = true
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Format = format
	}

	source := projects.NewMemorySource()
	diOpts := []di.Option{di.WithProjectSource(source)}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}
	if len(opts.ContentProviders) > 0 {
		diOpts = append(diOpts, di.WithContentProviders(opts.ContentProviders...))
	}

	module, err := sitegen.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise sitegen module: %w", err)
	}
	if module.Container().BunDB() != nil {
		if _, err := module.Migrate(context.Background()); err != nil {
			_ = module.Close()
			return nil, err
		}
	}

	return &Module{
		Module: module,
		Source: source,
		Logger: logging.ModuleLogger(module.Container().LoggerProvider(), "sitegen.cli"),
	}, nil
}

// ParseUUID converts the supplied string into a UUID, returning uuid.Nil when the input is empty.
func ParseUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(trimmed)
}
