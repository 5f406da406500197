package di

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
	"github.com/tourtosky/affiliate-site-generator/internal/commands"
	layoutscmd "github.com/tourtosky/affiliate-site-generator/internal/commands/layouts"
	sitecmd "github.com/tourtosky/affiliate-site-generator/internal/commands/site"
	"github.com/tourtosky/affiliate-site-generator/internal/content"
	"github.com/tourtosky/affiliate-site-generator/internal/generator"
	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
	"github.com/tourtosky/affiliate-site-generator/internal/logging"
	"github.com/tourtosky/affiliate-site-generator/internal/logging/console"
	"github.com/tourtosky/affiliate-site-generator/internal/logging/gologger"
	"github.com/tourtosky/affiliate-site-generator/internal/render"
	"github.com/tourtosky/affiliate-site-generator/internal/runtimeconfig"
	"github.com/tourtosky/affiliate-site-generator/internal/templates"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// Option mutates the container before services are wired.
type Option func(*Container)

// Container wires repositories, services and command handlers from a Config.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider   interfaces.LoggerProvider
	projects         interfaces.ProjectSource
	contentProviders []interfaces.ContentProvider
	uploads          fs.FS
	writer           generator.ArtifactWriter
	now              func() time.Time

	registry *blocks.Registry
	catalog  *templates.Catalog
	themes   *render.Themes

	layoutRepo     layouts.Repository
	generationRepo generator.Repository

	layoutSvc    layouts.Service
	generatorSvc generator.Service

	saveLayout  *layoutscmd.SaveLayoutHandler
	resetLayout *layoutscmd.ResetLayoutHandler
	generate    *sitecmd.GenerateSiteHandler
}

// WithBunDB uses db for persistence instead of opening Config.Storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider selected from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithProjectSource sets the collaborator that resolves project snapshots.
func WithProjectSource(source interfaces.ProjectSource) Option {
	return func(c *Container) {
		c.projects = source
	}
}

// WithContentProviders registers AI content providers in fallback order.
func WithContentProviders(providers ...interfaces.ContentProvider) Option {
	return func(c *Container) {
		c.contentProviders = append(c.contentProviders, providers...)
	}
}

// WithUploads overrides the filesystem holding uploaded brand assets.
func WithUploads(fsys fs.FS) Option {
	return func(c *Container) {
		c.uploads = fsys
	}
}

// WithArtifactWriter overrides where archives are written.
func WithArtifactWriter(writer generator.ArtifactWriter) Option {
	return func(c *Container) {
		c.writer = writer
	}
}

// WithClock overrides the time source of every service.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// WithBlockRegistry overrides the built-in block catalog.
func WithBlockRegistry(registry *blocks.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithTemplateCatalog overrides the built-in site template catalog.
func WithTemplateCatalog(catalog *templates.Catalog) Option {
	return func(c *Container) {
		c.catalog = catalog
	}
}

// NewContainer validates cfg and wires the module.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureCatalogs(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureServices()
	c.configureCommands()

	logging.ModuleLogger(c.loggerProvider, "sitegen").Debug("container.configured",
		"storage", c.storageName(),
		"cache", c.cacheService != nil,
		"content_providers", len(c.contentProviders),
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		c.loggerProvider = console.NewProvider(console.Options{})
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level, _ := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureCatalogs() error {
	if c.registry == nil {
		c.registry = blocks.DefaultRegistry()
	}
	if c.catalog == nil {
		c.catalog = templates.DefaultCatalog()
	}
	if err := c.catalog.Validate(c.registry); err != nil {
		return fmt.Errorf("di: template catalog: %w", err)
	}
	themes, err := render.NewThemes(c.catalog)
	if err != nil {
		return fmt.Errorf("di: themes: %w", err)
	}
	c.themes = themes
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || !strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), runtimeconfig.StorageBun) {
		return nil
	}
	db, err := OpenDB(c.Config.Storage)
	if err != nil {
		return err
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		c.layoutRepo = layouts.NewMemoryRepository()
		c.generationRepo = generator.NewMemoryRepository()
		return
	}
	c.layoutRepo = layouts.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	c.generationRepo = generator.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
}

func (c *Container) configureServices() {
	seeder := templates.NewGenerator(c.catalog)
	c.layoutSvc = layouts.NewService(c.layoutRepo, c.projects, seeder,
		layouts.WithValidator(c.registry),
		layouts.WithDefaultTemplate(c.Config.Generator.DefaultTemplate),
		layouts.WithClock(c.now),
		layouts.WithLogger(logging.LayoutsLogger(c.loggerProvider)),
	)

	if !c.Config.Generator.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return
	}

	writer := c.writer
	if writer == nil {
		writer = generator.NewDirWriter(c.Config.Generator.OutputDir)
	}
	uploads := c.uploads
	if uploads == nil && strings.TrimSpace(c.Config.Generator.UploadsDir) != "" {
		uploads = os.DirFS(c.Config.Generator.UploadsDir)
	}

	chain := content.NewChain(c.contentProviders,
		content.WithLogger(logging.ContentLogger(c.loggerProvider)))

	c.generatorSvc = generator.NewService(generator.Config{
		DefaultTemplate:   c.Config.Generator.DefaultTemplate,
		PreferredProvider: c.Config.Content.PreferredProvider,
		ContentEnabled:    c.Config.Content.Enabled,
		Timeout:           c.Config.Generator.Timeout,
	}, generator.Dependencies{
		Projects: c.projects,
		Layouts:  c.layoutSvc,
		Records:  c.generationRepo,
		Content:  chain,
		Writer:   writer,
		Uploads:  uploads,
		Registry: c.registry,
		Themes:   c.themes,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
		Now:      c.now,
	})
}

func (c *Container) configureCommands() {
	layoutLogger := commands.CommandLogger(c.loggerProvider, "layouts")
	c.saveLayout = layoutscmd.NewSaveLayoutHandler(c.layoutSvc, layoutLogger)
	c.resetLayout = layoutscmd.NewResetLayoutHandler(c.layoutSvc, layoutLogger)

	generatorEnabled := c.Config.Generator.Enabled
	timeout := c.Config.Generator.Timeout
	if timeout <= 0 {
		timeout = commands.DefaultTimeout
	}
	c.generate = sitecmd.NewGenerateSiteHandler(c.generatorSvc,
		commands.CommandLogger(c.loggerProvider, "site"),
		sitecmd.FeatureGates{GeneratorEnabled: func() bool { return generatorEnabled }},
		commands.WithTimeout[sitecmd.GenerateSiteCommand](timeout),
	)
}

func (c *Container) storageName() string {
	if c.bunDB == nil {
		return runtimeconfig.StorageMemory
	}
	return fmt.Sprint(c.bunDB.Dialect().Name())
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

func (c *Container) BunDB() *bun.DB { return c.bunDB }

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

func (c *Container) BlockRegistry() *blocks.Registry { return c.registry }

func (c *Container) TemplateCatalog() *templates.Catalog { return c.catalog }

func (c *Container) Themes() *render.Themes { return c.themes }

func (c *Container) LayoutService() layouts.Service { return c.layoutSvc }

func (c *Container) GeneratorService() generator.Service { return c.generatorSvc }

func (c *Container) SaveLayoutHandler() *layoutscmd.SaveLayoutHandler { return c.saveLayout }

func (c *Container) ResetLayoutHandler() *layoutscmd.ResetLayoutHandler { return c.resetLayout }

func (c *Container) GenerateSiteHandler() *sitecmd.GenerateSiteHandler { return c.generate }
