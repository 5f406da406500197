package sitegen

import (
	"context"
	"errors"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
	layoutscmd "github.com/tourtosky/affiliate-site-generator/internal/commands/layouts"
	sitecmd "github.com/tourtosky/affiliate-site-generator/internal/commands/site"
	"github.com/tourtosky/affiliate-site-generator/internal/di"
	"github.com/tourtosky/affiliate-site-generator/internal/generator"
	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
	"github.com/tourtosky/affiliate-site-generator/internal/templates"
)

// ErrStorageNotConfigured is returned by Migrate when the module runs on
// in-memory storage.
var ErrStorageNotConfigured = errors.New("sitegen: bun storage is not configured")

// LayoutService exports the page layout service contract.
type LayoutService = layouts.Service

// GeneratorService exports the site generation contract.
type GeneratorService = generator.Service

// Generation exports the persisted record of one generation run.
type Generation = generator.Generation

// Module represents the top level site generator runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Layouts returns the configured layout service.
func (m *Module) Layouts() LayoutService {
	return m.container.LayoutService()
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Blocks returns the block catalog used for validation and rendering.
func (m *Module) Blocks() *blocks.Registry {
	return m.container.BlockRegistry()
}

// Templates returns the site template catalog.
func (m *Module) Templates() *templates.Catalog {
	return m.container.TemplateCatalog()
}

func (m *Module) SaveLayoutHandler() *layoutscmd.SaveLayoutHandler {
	return m.container.SaveLayoutHandler()
}

func (m *Module) ResetLayoutHandler() *layoutscmd.ResetLayoutHandler {
	return m.container.ResetLayoutHandler()
}

func (m *Module) GenerateSiteHandler() *sitecmd.GenerateSiteHandler {
	return m.container.GenerateSiteHandler()
}

// Migrate applies the embedded schema to the module's database.
func (m *Module) Migrate(ctx context.Context) ([]string, error) {
	if m == nil || m.container == nil {
		return nil, ErrStorageNotConfigured
	}
	return Migrate(ctx, m.container.BunDB())
}

// Close releases resources the module opened.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
