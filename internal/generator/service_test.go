package generator_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/content"
	"github.com/tourtosky/affiliate-site-generator/internal/generator"
	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
	"github.com/tourtosky/affiliate-site-generator/internal/projects"
	"github.com/tourtosky/affiliate-site-generator/internal/templates"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

var projectID = uuid.MustParse("3f0c7a52-6f1d-4d6b-9a7e-51c2b8f0e001")

func sampleProject() *interfaces.ProjectSnapshot {
	return &interfaces.ProjectSnapshot{
		ID:            projectID,
		Name:          "Acme Outdoors",
		Slug:          "acme",
		BrandName:     "Acme Outdoors",
		Template:      "modern",
		SelectedPages: []string{"home", "about"},
		Marketplace:   "amazon.com",
		TrackingID:    "acme-20",
		Products: []interfaces.ProductSnapshot{
			{ASIN: "B0001", Title: "Hiking Boots"},
			{ASIN: "B0002", Title: "Trail Tent", SortOrder: 1},
		},
		Domains:  []interfaces.DomainSnapshot{{Domain: "acme.example", Primary: true}},
		Htaccess: interfaces.HtaccessSettings{ForceHTTPS: true, WWWRedirect: "to-www"},
	}
}

type fixture struct {
	svc     generator.Service
	layouts layouts.Service
	writer  *generator.MemoryWriter
	records generator.Repository
}

type fixtureOption func(*generator.Config, *generator.Dependencies)

func newFixture(t *testing.T, opts ...fixtureOption) fixture {
	t.Helper()
	source := projects.NewMemorySource()
	if err := source.Put(sampleProject()); err != nil {
		t.Fatalf("put project: %v", err)
	}
	layoutSvc := layouts.NewService(layouts.NewMemoryRepository(), source,
		templates.NewGenerator(templates.DefaultCatalog()))
	writer := generator.NewMemoryWriter()
	records := generator.NewMemoryRepository()

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cfg := generator.Config{}
	deps := generator.Dependencies{
		Projects: source,
		Layouts:  layoutSvc,
		Records:  records,
		Writer:   writer,
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
	for _, opt := range opts {
		opt(&cfg, &deps)
	}
	return fixture{
		svc:     generator.NewService(cfg, deps),
		layouts: layoutSvc,
		writer:  writer,
		records: records,
	}
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	files := map[string]string{}
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", file.Name, err)
		}
		body, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", file.Name, err)
		}
		files[file.Name] = string(body)
	}
	return files
}

func TestGenerateWithoutSavedLayoutUsesFallbackDocument(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.svc.Generate(context.Background(), generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if diff := cmp.Diff([]string{".htaccess", "assets/site.css", "index.html"}, result.Archive.Files); diff != "" {
		t.Fatalf("unexpected archive files (-want +got):\n%s", diff)
	}
	got := result.Generation
	if got.Version != 1 || got.Status != generator.StatusCompleted {
		t.Fatalf("unexpected generation %+v", got)
	}
	if got.ArchivePath != "acme/v1.zip" || result.Download != "acme-v1.zip" {
		t.Fatalf("unexpected archive naming %q / %q", got.ArchivePath, result.Download)
	}
	if got.TotalFiles != 3 || got.PagesGenerated != 1 || got.Checksum != result.Archive.Checksum {
		t.Fatalf("unexpected metrics %+v", got)
	}
	if got.CompletedAt == nil || got.DurationMillis <= 0 {
		t.Fatalf("expected completion stamp and duration, got %+v", got)
	}

	stored, ok := fx.writer.Files["acme/v1.zip"]
	if !ok {
		t.Fatalf("archive not written, have %v", fx.writer.Files)
	}
	files := readArchive(t, stored)
	if !strings.Contains(files["index.html"], "Acme Outdoors") {
		t.Fatalf("index.html missing brand name:\n%s", files["index.html"])
	}
	if !strings.Contains(files[".htaccess"], "RewriteCond %{HTTPS} off") {
		t.Fatalf("expected https rules in .htaccess:\n%s", files[".htaccess"])
	}
	if strings.Contains(files["assets/site.css"], "§") {
		t.Fatalf("stylesheet has unresolved colour placeholders:\n%s", files["assets/site.css"])
	}
}

func TestGenerateRendersEverySavedPage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.layouts.Save(ctx, layouts.SaveInput{
		ProjectID: projectID,
		Pages: layouts.PageLayouts{
			"home": {Blocks: []layouts.BlockInstance{
				{InstanceID: "hero", BlockType: "hero-standard", Properties: map[string]any{"title": "Built for the Trail"}},
			}},
			"about": {Blocks: []layouts.BlockInstance{
				{InstanceID: "footer", BlockType: "footer-standard"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("save layouts: %v", err)
	}

	result, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"about.html", "index.html"}, result.Pages); diff != "" {
		t.Fatalf("unexpected pages (-want +got):\n%s", diff)
	}
	files := readArchive(t, result.Archive.Data)
	if !strings.Contains(files["index.html"], "Built for the Trail") {
		t.Fatalf("index.html missing hero override:\n%s", files["index.html"])
	}
	if strings.Contains(files["about.html"], "Built for the Trail") {
		t.Fatalf("about.html rendered the home page")
	}
	if result.Generation.PagesGenerated != 2 {
		t.Fatalf("expected two pages, got %d", result.Generation.PagesGenerated)
	}
}

func TestGenerateEmptySavedLayoutStillWritesIndex(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.layouts.Save(ctx, layouts.SaveInput{ProjectID: projectID, Pages: layouts.PageLayouts{}}); err != nil {
		t.Fatalf("save empty layouts: %v", err)
	}
	result, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	files := readArchive(t, result.Archive.Data)
	index, ok := files["index.html"]
	if !ok {
		t.Fatalf("expected index.html, got %v", result.Archive.Files)
	}
	if strings.Contains(index, "hero") {
		t.Fatalf("empty layout resurrected default blocks:\n%s", index)
	}
}

func TestGenerateLayoutWithoutHomeServesFirstPageAsIndex(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.layouts.Save(ctx, layouts.SaveInput{
		ProjectID: projectID,
		Pages: layouts.PageLayouts{
			"products": {Blocks: []layouts.BlockInstance{
				{InstanceID: "nav", BlockType: "nav-simple"},
			}},
		},
	})
	if err != nil {
		t.Fatalf("save layouts: %v", err)
	}
	result, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"index.html", "products.html"}, result.Pages); diff != "" {
		t.Fatalf("unexpected pages (-want +got):\n%s", diff)
	}
	files := readArchive(t, result.Archive.Data)
	if files["index.html"] == "" || files["index.html"] != files["products.html"] {
		t.Fatalf("expected index.html to mirror products.html")
	}
}

func TestGenerateCollidingPageNamesGetUniqueFiles(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	footer := []layouts.BlockInstance{{InstanceID: "footer", BlockType: "footer-standard"}}
	_, err := fx.layouts.Save(ctx, layouts.SaveInput{
		ProjectID: projectID,
		Pages: layouts.PageLayouts{
			"home":     {Blocks: footer},
			"About Us": {Blocks: footer},
			"about-us": {Blocks: footer},
			"index":    {Blocks: footer},
		},
	})
	if err != nil {
		t.Fatalf("save layouts: %v", err)
	}
	result, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"about-us.html", "about-us-2.html", "index.html", "index-2.html"}
	if diff := cmp.Diff(want, result.Pages); diff != "" {
		t.Fatalf("unexpected pages (-want +got):\n%s", diff)
	}
}

func TestGenerateUsesTemplateTheme(t *testing.T) {
	fx := newFixture(t, func(_ *generator.Config, deps *generator.Dependencies) {
		project := sampleProject()
		project.Template = "premium"
		if err := deps.Projects.(*projects.MemorySource).Put(project); err != nil {
			t.Fatalf("put project: %v", err)
		}
	})

	result, err := fx.svc.Generate(context.Background(), generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	files := readArchive(t, result.Archive.Data)
	css, ok := files["assets/premium.css"]
	if !ok {
		t.Fatalf("expected premium stylesheet, got %v", result.Archive.Files)
	}
	if !strings.Contains(css, "#d4af37") {
		t.Fatalf("expected premium accent in stylesheet:\n%s", css)
	}
	if !strings.Contains(files["index.html"], `href="assets/premium.css"`) {
		t.Fatalf("index.html does not link the premium stylesheet")
	}
}

func TestGenerateVersionsIncrementAndHistoryIsNewestFirst(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	for range 3 {
		if _, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID}); err != nil {
			t.Fatalf("generate: %v", err)
		}
	}

	history, err := fx.svc.History(ctx, projectID, 2)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var versions []int
	for _, record := range history {
		versions = append(versions, record.Version)
	}
	if diff := cmp.Diff([]int{3, 2}, versions); diff != "" {
		t.Fatalf("unexpected history (-want +got):\n%s", diff)
	}

	latest, err := fx.svc.Latest(ctx, projectID)
	if err != nil || latest.Version != 3 {
		t.Fatalf("expected latest v3, got %+v (%v)", latest, err)
	}
	second, err := fx.svc.Version(ctx, projectID, 2)
	if err != nil || second.ArchivePath != "acme/v2.zip" {
		t.Fatalf("expected v2 record, got %+v (%v)", second, err)
	}
	if _, err := fx.svc.Version(ctx, projectID, 9); !generator.IsNotFound(err) {
		t.Fatalf("expected not found for v9, got %v", err)
	}
	if len(fx.writer.Files) != 3 {
		t.Fatalf("expected three archives, got %d", len(fx.writer.Files))
	}
}

type failingWriter struct{}

func (failingWriter) EnsureDir(context.Context, string) error { return nil }

func (failingWriter) WriteFile(context.Context, generator.WriteRequest) error {
	return errors.New("disk full")
}

func TestGenerateRecordsFailure(t *testing.T) {
	fx := newFixture(t, func(_ *generator.Config, deps *generator.Dependencies) {
		deps.Writer = failingWriter{}
	})
	ctx := context.Background()

	if _, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID}); err == nil {
		t.Fatalf("expected generation to fail")
	}

	history, err := fx.svc.History(ctx, projectID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one record, got %d", len(history))
	}
	failed := history[0]
	if failed.Status != generator.StatusFailed || !strings.Contains(failed.ErrorLog, "disk full") {
		t.Fatalf("unexpected failed record %+v", failed)
	}
	if failed.CompletedAt == nil {
		t.Fatalf("expected failed record to be stamped")
	}
	if _, err := fx.svc.Latest(ctx, projectID); !generator.IsNotFound(err) {
		t.Fatalf("expected no completed generation, got %v", err)
	}
}

type blockingWriter struct {
	started chan struct{}
}

func (blockingWriter) EnsureDir(context.Context, string) error { return nil }

func (w blockingWriter) WriteFile(ctx context.Context, _ generator.WriteRequest) error {
	close(w.started)
	<-ctx.Done()
	return ctx.Err()
}

func TestCancelStopsRunningGeneration(t *testing.T) {
	writer := blockingWriter{started: make(chan struct{})}
	fx := newFixture(t, func(_ *generator.Config, deps *generator.Dependencies) {
		deps.Writer = writer
	})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID})
		done <- err
	}()
	<-writer.started

	if err := fx.svc.Cancel(ctx, projectID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	select {
	case err := <-done:
		if !errors.Is(err, generator.ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("generation did not stop after cancel")
	}

	history, err := fx.svc.History(ctx, projectID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Status != generator.StatusFailed || history[0].ErrorLog != "Cancelled by user" {
		t.Fatalf("unexpected history after cancel %+v", history)
	}
	if err := fx.svc.Cancel(ctx, projectID); !errors.Is(err, generator.ErrNoActiveGeneration) {
		t.Fatalf("expected ErrNoActiveGeneration once the run stopped, got %v", err)
	}
}

func TestCancelFailsStaleRecords(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	if _, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	stale := &generator.Generation{
		ID:        uuid.New(),
		ProjectID: projectID,
		Version:   2,
		Status:    generator.StatusProcessing,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC),
	}
	if _, err := fx.records.Create(ctx, stale); err != nil {
		t.Fatalf("create stale record: %v", err)
	}

	if err := fx.svc.Cancel(ctx, projectID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	history, err := fx.svc.History(ctx, projectID, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if history[0].Version != 2 || history[0].Status != generator.StatusFailed || history[0].ErrorLog != "Cancelled by user" {
		t.Fatalf("expected stale run to be failed, got %+v", history[0])
	}
	if history[0].CompletedAt == nil {
		t.Fatalf("expected cancelled record to be stamped")
	}
	if history[1].Status != generator.StatusCompleted {
		t.Fatalf("completed run must be left alone, got %+v", history[1])
	}
	if err := fx.svc.Cancel(ctx, uuid.Nil); !errors.Is(err, generator.ErrProjectIDRequired) {
		t.Fatalf("expected ErrProjectIDRequired, got %v", err)
	}
}

type erroringProvider struct{}

func (erroringProvider) Name() string    { return "openai" }
func (erroringProvider) Available() bool { return true }
func (erroringProvider) Generate(context.Context, interfaces.ContentRequest) (*interfaces.GeneratedContent, error) {
	return nil, errors.New("rate limited")
}

func TestGenerateContentFailureDoesNotAbort(t *testing.T) {
	fx := newFixture(t, func(cfg *generator.Config, deps *generator.Dependencies) {
		cfg.ContentEnabled = true
		deps.Content = content.NewChain([]interfaces.ContentProvider{erroringProvider{}})
	})

	result, err := fx.svc.Generate(context.Background(), generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Generation.Status != generator.StatusCompleted || result.Generation.Provider != "" {
		t.Fatalf("unexpected generation %+v", result.Generation)
	}
}

func TestGenerateUsesGeneratedContentAndUploads(t *testing.T) {
	uploads := fstest.MapFS{
		projectID.String() + "/logo.png":    {Data: []byte("png")},
		projectID.String() + "/favicon.ico": {Data: []byte("ico")},
	}
	static := content.NewStaticProvider("static", interfaces.GeneratedContent{
		Hero: interfaces.GeneratedHero{Title: "Adventure Starts Here"},
	})
	fx := newFixture(t, func(cfg *generator.Config, deps *generator.Dependencies) {
		cfg.ContentEnabled = true
		deps.Content = content.NewChain([]interfaces.ContentProvider{erroringProvider{}, static})
		deps.Uploads = uploads
	})

	result, err := fx.svc.Generate(context.Background(), generator.GenerateInput{ProjectID: projectID, Provider: "static"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Generation.Provider != "static" {
		t.Fatalf("expected static provider recorded, got %q", result.Generation.Provider)
	}
	files := readArchive(t, result.Archive.Data)
	if files["assets/logo.png"] != "png" || files["assets/favicon.ico"] != "ico" {
		t.Fatalf("uploads not packaged: %v", result.Archive.Files)
	}
	if !strings.Contains(files["index.html"], "Adventure Starts Here") {
		t.Fatalf("generated hero copy missing:\n%s", files["index.html"])
	}
	if !strings.Contains(files["index.html"], "assets/favicon.ico") {
		t.Fatalf("favicon link missing:\n%s", files["index.html"])
	}
}

type projectFunc func(ctx context.Context, id uuid.UUID) (*interfaces.ProjectSnapshot, error)

func (f projectFunc) Project(ctx context.Context, id uuid.UUID) (*interfaces.ProjectSnapshot, error) {
	return f(ctx, id)
}

func TestGenerateRejectsInvalidProjectWithoutRecord(t *testing.T) {
	fx := newFixture(t, func(_ *generator.Config, deps *generator.Dependencies) {
		deps.Projects = projectFunc(func(context.Context, uuid.UUID) (*interfaces.ProjectSnapshot, error) {
			project := sampleProject()
			project.BrandName = ""
			return project, nil
		})
	})
	ctx := context.Background()

	_, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID})
	if !errors.Is(err, projects.ErrInvalidProject) {
		t.Fatalf("expected invalid project error, got %v", err)
	}
	records, _ := fx.records.ListByProject(ctx, projectID)
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestGenerateRequiresProjectID(t *testing.T) {
	fx := newFixture(t)
	if _, err := fx.svc.Generate(context.Background(), generator.GenerateInput{}); !errors.Is(err, generator.ErrProjectIDRequired) {
		t.Fatalf("expected project id error, got %v", err)
	}
}

func TestDisabledService(t *testing.T) {
	svc := generator.NewDisabledService()
	if _, err := svc.Generate(context.Background(), generator.GenerateInput{ProjectID: projectID}); !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected disabled error, got %v", err)
	}
	if err := svc.Cancel(context.Background(), projectID); !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected disabled cancel error, got %v", err)
	}
}
