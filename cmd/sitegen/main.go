package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	sitegen "github.com/tourtosky/affiliate-site-generator"
	"github.com/tourtosky/affiliate-site-generator/cmd/sitegen/internal/bootstrap"
	sitecmd "github.com/tourtosky/affiliate-site-generator/internal/commands/site"
	"github.com/tourtosky/affiliate-site-generator/internal/generator"
	"github.com/tourtosky/affiliate-site-generator/internal/projects"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

type generateHandler interface {
	Execute(ctx context.Context, msg sitecmd.GenerateSiteCommand) error
}

type historyReader interface {
	History(ctx context.Context, projectID uuid.UUID, limit int) ([]*generator.Generation, error)
}

type projectStore interface {
	Put(project *interfaces.ProjectSnapshot) error
}

type handlerSet struct {
	generate generateHandler
}

type moduleResources struct {
	handlers handlerSet
	history  historyReader
	projects projectStore
	migrate  func(ctx context.Context) ([]string, error)
	close    func() error
}

var moduleBuilder = buildModule

func buildModule(opts bootstrap.Options) (*moduleResources, error) {
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	return &moduleResources{
		handlers: handlerSet{generate: module.Module.GenerateSiteHandler()},
		history:  module.Module.Generator(),
		projects: module.Source,
		migrate:  module.Module.Migrate,
		close:    module.Module.Close,
	}, nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("sitegen: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("missing subcommand (generate, history, migrate)")
	}
	switch args[0] {
	case "generate":
		return runGenerate(args[1:])
	case "history":
		return runHistory(args[1:])
	case "migrate":
		return runMigrate(args[1:])
	default:
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

type storageFlags struct {
	provider *string
	driver   *string
	dsn      *string
	logLevel *string
	logFmt   *string
}

func bindStorageFlags(fs *flag.FlagSet) storageFlags {
	return storageFlags{
		provider: fs.String("storage", sitegen.StorageMemory, "Storage provider (memory or bun)"),
		driver:   fs.String("driver", sitegen.DriverSQLite, "SQL driver for bun storage (sqlite3 or postgres)"),
		dsn:      fs.String("dsn", "", "Data source name for bun storage"),
		logLevel: fs.String("log-level", "", "Log level (trace, debug, info, warn, error)"),
		logFmt:   fs.String("log-format", "", "Structured log format (json, console, pretty); selects go-logger"),
	}
}

func (f storageFlags) options() bootstrap.Options {
	return bootstrap.Options{
		Storage: sitegen.StorageConfig{
			Provider: *f.provider,
			Driver:   *f.driver,
			DSN:      *f.dsn,
		},
		LogLevel:  *f.logLevel,
		LogFormat: *f.logFmt,
	}
}

func openModule(opts bootstrap.Options) (*moduleResources, error) {
	resources, err := moduleBuilder(opts)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	if resources == nil {
		return nil, errors.New("module not configured")
	}
	return resources, nil
}

func (r *moduleResources) Close() {
	if r.close != nil {
		if err := r.close(); err != nil {
			log.Printf("module=sitegen operation=close error=%v", err)
		}
	}
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	projectFile := fs.String("project", "", "Path to a project snapshot JSON file")
	outputDir := fs.String("out", "dist", "Directory receiving generated archives")
	uploadsDir := fs.String("uploads", "", "Directory holding uploaded logo and favicon files")
	provider := fs.String("provider", "", "Preferred content provider")
	storage := bindStorageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*projectFile) == "" {
		return errors.New("--project is required")
	}

	project, err := readProject(*projectFile)
	if err != nil {
		return err
	}

	opts := storage.options()
	opts.OutputDir = *outputDir
	opts.UploadsDir = *uploadsDir
	opts.PreferredProvider = *provider

	resources, err := openModule(opts)
	if err != nil {
		return err
	}
	defer resources.Close()
	if resources.handlers.generate == nil || resources.projects == nil {
		return errors.New("generate handler not configured")
	}
	if err := resources.projects.Put(project); err != nil {
		return err
	}

	var envelope sitecmd.ResultEnvelope
	err = resources.handlers.generate.Execute(context.Background(), sitecmd.GenerateSiteCommand{
		ProjectID:      project.ID,
		ResultCallback: func(env sitecmd.ResultEnvelope) { envelope = env },
	})
	if err != nil {
		return err
	}
	logEnvelope(envelope)
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	projectID := fs.String("project-id", "", "Project UUID")
	limit := fs.Int("limit", 10, "Maximum number of runs to list")
	storage := bindStorageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := bootstrap.ParseUUID(*projectID)
	if err != nil {
		return fmt.Errorf("parse project-id: %w", err)
	}
	if id == uuid.Nil {
		return errors.New("--project-id is required")
	}

	resources, err := openModule(storage.options())
	if err != nil {
		return err
	}
	defer resources.Close()
	if resources.history == nil {
		return errors.New("history reader not configured")
	}

	records, err := resources.history.History(context.Background(), id, *limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.Printf("module=sitegen operation=history project_id=%s runs=0", id)
		return nil
	}
	for _, record := range records {
		log.Printf("module=sitegen operation=history version=%d status=%s archive=%s files=%d duration_ms=%d",
			record.Version, record.Status, record.ArchivePath, record.TotalFiles, record.DurationMillis)
	}
	return nil
}

func runMigrate(args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	storage := bindStorageFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts := storage.options()
	opts.Storage.Provider = sitegen.StorageBun

	resources, err := openModule(opts)
	if err != nil {
		return err
	}
	defer resources.Close()
	if resources.migrate == nil {
		return errors.New("migrations not configured")
	}

	applied, err := resources.migrate(context.Background())
	if err != nil {
		return err
	}
	log.Printf("module=sitegen operation=migrate applied=%d %s", len(applied), strings.Join(applied, ","))
	return nil
}

func readProject(path string) (*interfaces.ProjectSnapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project: %w", err)
	}
	defer file.Close()
	return projects.Decode(file)
}

func logEnvelope(envelope sitecmd.ResultEnvelope) {
	result := envelope.Result
	if result == nil || result.Generation == nil {
		log.Printf("module=sitegen operation=generate metadata=%v", envelope.Metadata)
		return
	}
	log.Printf("module=sitegen operation=generate version=%d archive=%s download=%s pages=%d size=%d",
		result.Generation.Version,
		result.Generation.ArchivePath,
		result.Download,
		len(result.Pages),
		result.Generation.ArchiveSize,
	)
}
