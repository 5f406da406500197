package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/cmd/sitegen/internal/bootstrap"
	sitecmd "github.com/tourtosky/affiliate-site-generator/internal/commands/site"
	"github.com/tourtosky/affiliate-site-generator/internal/generator"
	"github.com/tourtosky/affiliate-site-generator/internal/projects"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
	"github.com/tourtosky/affiliate-site-generator/pkg/testsupport"
)

type stubGenerateHandler struct {
	last sitecmd.GenerateSiteCommand
	err  error
}

func (s *stubGenerateHandler) Execute(ctx context.Context, msg sitecmd.GenerateSiteCommand) error {
	s.last = msg
	if s.err != nil {
		return s.err
	}
	if msg.ResultCallback != nil {
		msg.ResultCallback(sitecmd.ResultEnvelope{
			Result: &generator.Result{
				Generation: &generator.Generation{Version: 4, ArchivePath: "summit-supply/v4.zip", ArchiveSize: 512},
				Pages:      []string{"about.html", "index.html"},
				Download:   "summit-supply-v4.zip",
			},
			Metadata: map[string]any{"operation": "generate"},
		})
	}
	return nil
}

type stubHistory struct {
	records []*generator.Generation
	limit   int
}

func (s *stubHistory) History(ctx context.Context, projectID uuid.UUID, limit int) ([]*generator.Generation, error) {
	s.limit = limit
	return s.records, nil
}

type stubStore struct {
	put []*interfaces.ProjectSnapshot
}

func (s *stubStore) Put(project *interfaces.ProjectSnapshot) error {
	s.put = append(s.put, project)
	return nil
}

type stubModule struct {
	generate *stubGenerateHandler
	history  *stubHistory
	store    *stubStore
	opts     bootstrap.Options
	closed   int
}

func withStubModule(t *testing.T) *stubModule {
	t.Helper()
	original := moduleBuilder
	stubs := &stubModule{
		generate: &stubGenerateHandler{},
		history:  &stubHistory{},
		store:    &stubStore{},
	}
	moduleBuilder = func(opts bootstrap.Options) (*moduleResources, error) {
		stubs.opts = opts
		return &moduleResources{
			handlers: handlerSet{generate: stubs.generate},
			history:  stubs.history,
			projects: stubs.store,
			migrate: func(context.Context) ([]string, error) {
				return []string{"20250601000001", "20250601000002"}, nil
			},
			close: func() error {
				stubs.closed++
				return nil
			},
		}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })
	return stubs
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOutput := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOutput)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func fixtureProject(t *testing.T) *interfaces.ProjectSnapshot {
	t.Helper()
	data, err := testsupport.LoadFixture(filepath.Join("testdata", "project.json"))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	project, err := projects.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return project
}

func TestRunGenerate_UsesCommandHandler(t *testing.T) {
	stubs := withStubModule(t)
	buf := captureLogs(t)

	err := run([]string{"generate", "--project", filepath.Join("testdata", "project.json"), "--out", "build", "--provider", "openai"})
	if err != nil {
		t.Fatalf("run generate: %v", err)
	}

	want := fixtureProject(t)
	if stubs.generate.last.ProjectID != want.ID {
		t.Fatalf("expected project id %s, got %s", want.ID, stubs.generate.last.ProjectID)
	}
	if len(stubs.store.put) != 1 || stubs.store.put[0].BrandName != "Summit Supply" {
		t.Fatalf("expected fixture project to be stored, got %+v", stubs.store.put)
	}
	if stubs.opts.OutputDir != "build" || stubs.opts.PreferredProvider != "openai" {
		t.Fatalf("unexpected bootstrap options %+v", stubs.opts)
	}
	if stubs.closed != 1 {
		t.Fatalf("expected module to be closed once, got %d", stubs.closed)
	}
	if !strings.Contains(buf.String(), "module=sitegen operation=generate version=4 archive=summit-supply/v4.zip download=summit-supply-v4.zip pages=2") {
		t.Fatalf("expected generate summary, got %q", buf.String())
	}
}

func TestRunGenerate_RequiresProject(t *testing.T) {
	withStubModule(t)
	err := run([]string{"generate"})
	if err == nil || !strings.Contains(err.Error(), "--project is required") {
		t.Fatalf("expected project flag error, got %v", err)
	}
}

func TestRunGenerate_PropagatesErrors(t *testing.T) {
	stubs := withStubModule(t)
	stubs.generate.err = errors.New("boom")
	captureLogs(t)

	err := run([]string{"generate", "--project", filepath.Join("testdata", "project.json")})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestRunHistory_ListsRuns(t *testing.T) {
	stubs := withStubModule(t)
	stubs.history.records = []*generator.Generation{
		{Version: 2, Status: generator.StatusCompleted, ArchivePath: "summit-supply/v2.zip", TotalFiles: 4},
		{Version: 1, Status: generator.StatusFailed},
	}
	buf := captureLogs(t)

	if err := run([]string{"history", "--project-id", uuid.NewString(), "--limit", "5", "--storage", "bun", "--dsn", "file:x"}); err != nil {
		t.Fatalf("run history: %v", err)
	}
	if stubs.history.limit != 5 {
		t.Fatalf("expected limit 5, got %d", stubs.history.limit)
	}
	if stubs.opts.Storage.Provider != "bun" || stubs.opts.Storage.DSN != "file:x" {
		t.Fatalf("unexpected storage options %+v", stubs.opts.Storage)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "version=2 status=completed") || !strings.Contains(lines[1], "status=failed") {
		t.Fatalf("unexpected history output %q", buf.String())
	}
}

func TestRunHistory_RequiresProjectID(t *testing.T) {
	withStubModule(t)
	err := run([]string{"history"})
	if err == nil || !strings.Contains(err.Error(), "--project-id is required") {
		t.Fatalf("expected project-id error, got %v", err)
	}
	if err := run([]string{"history", "--project-id", "nope"}); err == nil || !strings.Contains(err.Error(), "parse project-id") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRunMigrate_ForcesBunStorage(t *testing.T) {
	stubs := withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"migrate", "--dsn", "file:sitegen.db"}); err != nil {
		t.Fatalf("run migrate: %v", err)
	}
	if stubs.opts.Storage.Provider != "bun" {
		t.Fatalf("expected bun storage, got %q", stubs.opts.Storage.Provider)
	}
	if !strings.Contains(buf.String(), "module=sitegen operation=migrate applied=2") {
		t.Fatalf("expected migrate log, got %q", buf.String())
	}
}

func TestRun_ErrorsWhenHandlersMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts bootstrap.Options) (*moduleResources, error) {
		return &moduleResources{}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })

	err := run([]string{"generate", "--project", filepath.Join("testdata", "project.json")})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"unknown"})
	if err == nil || !strings.Contains(err.Error(), "unknown subcommand") {
		t.Fatalf("expected unknown subcommand error, got %v", err)
	}
}

func TestRun_NoArgs(t *testing.T) {
	err := run([]string{})
	if err == nil || !strings.Contains(err.Error(), "missing subcommand") {
		t.Fatalf("expected missing subcommand error, got %v", err)
	}
}

func TestRunGenerate_WritesArchive(t *testing.T) {
	captureLogs(t)
	out := t.TempDir()

	if err := run([]string{"generate", "--project", filepath.Join("testdata", "project.json"), "--out", out}); err != nil {
		t.Fatalf("run generate: %v", err)
	}

	info, err := os.Stat(filepath.Join(out, "summit-supply", "v1.zip"))
	if err != nil {
		t.Fatalf("expected archive on disk: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("expected non-empty archive")
	}
}
