package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
	"github.com/tourtosky/affiliate-site-generator/internal/content"
	"github.com/tourtosky/affiliate-site-generator/internal/identity"
	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
	"github.com/tourtosky/affiliate-site-generator/internal/logging"
	"github.com/tourtosky/affiliate-site-generator/internal/packaging"
	"github.com/tourtosky/affiliate-site-generator/internal/projects"
	"github.com/tourtosky/affiliate-site-generator/internal/render"
	"github.com/tourtosky/affiliate-site-generator/internal/util"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// ErrServiceDisabled indicates the generator feature is disabled.
var ErrServiceDisabled = errors.New("generator: service disabled")

// ErrCancelled is returned by a run stopped through Cancel.
var ErrCancelled = errors.New("generator: cancelled by user")

const (
	homePage     = "home"
	indexFile    = "index.html"
	htaccessFile = ".htaccess"
	assetsDir    = "assets"
	archiveType  = "application/zip"

	cancelledLog = "Cancelled by user"
)

// Service generates versioned site archives and reports on past runs.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*Result, error)
	History(ctx context.Context, projectID uuid.UUID, limit int) ([]*Generation, error)
	Latest(ctx context.Context, projectID uuid.UUID) (*Generation, error)
	Version(ctx context.Context, projectID uuid.UUID, version int) (*Generation, error)
	Cancel(ctx context.Context, projectID uuid.UUID) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	DefaultTemplate   string
	PreferredProvider string
	ContentEnabled    bool
	Timeout           time.Duration
}

// GenerateInput names the project to build. Provider overrides the
// configured preferred content provider.
type GenerateInput struct {
	ProjectID uuid.UUID
	Provider  string
}

// Result reports a completed generation.
type Result struct {
	Generation *Generation
	Archive    *packaging.Archive
	Pages      []string
	Download   string
}

// Dependencies lists the collaborators of the generator.
type Dependencies struct {
	Projects interfaces.ProjectSource
	Layouts  layouts.Service
	Records  Repository
	Content  *content.Chain
	Writer   ArtifactWriter
	Uploads  fs.FS
	Registry *blocks.Registry
	Themes   *render.Themes
	Logger   interfaces.Logger
	Now      func() time.Time
}

// NewService wires a generator implementation with the provided configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if deps.Registry == nil {
		deps.Registry = blocks.DefaultRegistry()
	}
	if deps.Records == nil {
		deps.Records = NewMemoryRepository()
	}
	if deps.Writer == nil {
		deps.Writer = NewMemoryWriter()
	}
	if deps.Logger == nil {
		deps.Logger = logging.NoOp()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Themes == nil {
		if themes, err := render.NewThemes(nil); err == nil {
			deps.Themes = themes
		}
	}
	cfg.DefaultTemplate = util.FirstNonEmpty(cfg.DefaultTemplate, "modern")
	return &service{
		cfg:      cfg,
		deps:     deps,
		renderer: render.NewRenderer(deps.Registry),
		builder: render.NewBuilder(deps.Registry,
			render.WithThemes(deps.Themes),
			render.WithClock(deps.Now),
		),
	}
}

// NewDisabledService returns a Service that fails all operations with ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg      Config
	deps     Dependencies
	renderer *render.Renderer
	builder  *render.Builder
	locks    sync.Map
	active   sync.Map
}

// DownloadName is the file name offered when an archive is downloaded.
func DownloadName(projectSlug string, version int) string {
	return fmt.Sprintf("%s-v%d.zip", projectSlug, version)
}

// ArchivePath is the location of an archive relative to the artifact writer root.
func ArchivePath(projectSlug string, version int) string {
	return path.Join(projectSlug, fmt.Sprintf("v%d.zip", version))
}

func (s *service) lock(projectID uuid.UUID) *sync.Mutex {
	value, _ := s.locks.LoadOrStore(projectID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

func (s *service) Generate(ctx context.Context, input GenerateInput) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if input.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	if s.deps.Projects == nil {
		return nil, ErrProjectsRequired
	}
	if s.deps.Layouts == nil {
		return nil, ErrLayoutsRequired
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	lock := s.lock(input.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancelRun := context.WithCancelCause(ctx)
	s.active.Store(input.ProjectID, cancelRun)
	defer func() {
		s.active.Delete(input.ProjectID)
		cancelRun(nil)
	}()

	project, err := s.deps.Projects.Project(ctx, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("generator: resolve project %s: %w", input.ProjectID, err)
	}
	if err := projects.Validate(project); err != nil {
		return nil, err
	}

	version, err := s.nextVersion(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	template := util.FirstNonEmpty(project.Template, s.cfg.DefaultTemplate)
	logger := logging.WithProjectContext(s.deps.Logger, project.ID.String(), template, version)

	started := s.deps.Now()
	record, err := s.deps.Records.Create(ctx, &Generation{
		ID:        identity.GenerationUUID(project.ID, version),
		ProjectID: project.ID,
		Version:   version,
		Status:    StatusPending,
		Template:  template,
		CreatedAt: started.UTC(),
	})
	if err != nil {
		return nil, err
	}
	record.Status = StatusProcessing
	if record, err = s.deps.Records.Update(ctx, record); err != nil {
		return nil, err
	}
	logger.Info("generation.started")

	result, err := s.build(ctx, project, record, input.Provider, logger)
	if err != nil {
		record.Status = StatusFailed
		record.ErrorLog = err.Error()
		if cause := context.Cause(ctx); errors.Is(cause, ErrCancelled) {
			err = cause
			record.ErrorLog = cancelledLog
		}
		if _, updateErr := s.finish(ctx, record, started); updateErr != nil {
			logger.Warn("generation.record_failed", "error", updateErr)
		}
		logger.Error("generation.failed", "error", err)
		return nil, fmt.Errorf("generator: generation v%d of %s: %w", version, project.ID, err)
	}

	record.Status = StatusCompleted
	record.ArchivePath = ArchivePath(projects.Slug(project), version)
	record.ArchiveSize = result.Archive.Size
	record.Checksum = result.Archive.Checksum
	record.TotalFiles = len(result.Archive.Files)
	record.PagesGenerated = len(result.Pages)
	finished, err := s.finish(ctx, record, started)
	if err != nil {
		return nil, err
	}
	result.Generation = finished
	result.Download = DownloadName(projects.Slug(project), version)
	logger.Info("generation.completed",
		"archive", record.ArchivePath,
		"files", record.TotalFiles,
		"pages", record.PagesGenerated,
		"duration_ms", record.DurationMillis,
	)
	return result, nil
}

// finish stamps the terminal state. It runs on a context detached from
// cancellation so a timed out run is still recorded as failed.
func (s *service) finish(ctx context.Context, record *Generation, started time.Time) (*Generation, error) {
	completed := s.deps.Now()
	record.DurationMillis = completed.Sub(started).Milliseconds()
	completedUTC := completed.UTC()
	record.CompletedAt = &completedUTC
	return s.deps.Records.Update(context.WithoutCancel(ctx), record)
}

func (s *service) nextVersion(ctx context.Context, projectID uuid.UUID) (int, error) {
	records, err := s.deps.Records.ListByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 1, nil
	}
	return records[0].Version + 1, nil
}

func (s *service) build(ctx context.Context, project *interfaces.ProjectSnapshot, record *Generation, provider string, logger interfaces.Logger) (*Result, error) {
	generated := s.generateContent(ctx, project, record.Template, provider, logger)
	if generated != nil {
		record.Provider = generated.Provider
	}

	uploads, err := packaging.LocateAssets(s.deps.Uploads, project.ID.String())
	if err != nil {
		return nil, fmt.Errorf("locate uploads: %w", err)
	}
	renderCtx := s.builder.Build(project, generated, render.Assets{
		LogoURL:    assetURL(uploads.Logo),
		FaviconURL: assetURL(uploads.Favicon),
	})

	stylesheet := "assets/site.css"
	if s.deps.Themes != nil {
		stylesheet = s.deps.Themes.StylesheetPath(record.Template)
	}

	snapshot, err := s.deps.Layouts.Load(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("load layouts: %w", err)
	}
	pages := s.renderPages(snapshot, renderCtx, stylesheet)

	bundle := packaging.NewBundle()
	names := make([]string, 0, len(pages))
	for _, page := range pages {
		if err := bundle.AddString(page.file, page.html); err != nil {
			return nil, err
		}
		names = append(names, page.file)
	}
	if err := bundle.AddString(stylesheet, render.Stylesheet(renderCtx.Palette())); err != nil {
		return nil, err
	}

	htaccess := packaging.HtaccessConfigFrom(project.Htaccess)
	if err := htaccess.Validate(); err != nil {
		return nil, err
	}
	if err := bundle.AddString(htaccessFile, packaging.Htaccess(htaccess, project.PrimaryDomain())); err != nil {
		return nil, err
	}

	for _, upload := range []string{uploads.Logo, uploads.Favicon} {
		if upload == "" {
			continue
		}
		data, err := fs.ReadFile(s.deps.Uploads, upload)
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", upload, err)
		}
		if err := bundle.Add(assetURL(upload), data); err != nil {
			return nil, err
		}
	}

	archive, err := bundle.Build()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target := ArchivePath(projects.Slug(project), record.Version)
	if err := s.deps.Writer.EnsureDir(ctx, path.Dir(target)); err != nil {
		return nil, fmt.Errorf("prepare output: %w", err)
	}
	if err := s.deps.Writer.WriteFile(ctx, WriteRequest{
		Path:        target,
		Content:     bytes.NewReader(archive.Data),
		Size:        archive.Size,
		Category:    categoryArchive,
		ContentType: archiveType,
		Checksum:    archive.Checksum,
	}); err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}

	return &Result{Archive: archive, Pages: names}, nil
}

func (s *service) generateContent(ctx context.Context, project *interfaces.ProjectSnapshot, template, provider string, logger interfaces.Logger) *interfaces.GeneratedContent {
	if !s.cfg.ContentEnabled || s.deps.Content == nil {
		return nil
	}
	generated, err := s.deps.Content.Generate(ctx, util.FirstNonEmpty(provider, s.cfg.PreferredProvider), interfaces.ContentRequest{
		ProjectID:        project.ID,
		BrandName:        project.BrandName,
		BrandDescription: project.BrandDescription,
		Template:         template,
		Marketplace:      project.Marketplace,
		Products:         project.Products,
	})
	if err != nil {
		if errors.Is(err, content.ErrNoProvider) {
			logger.Debug("generation.content_skipped")
		} else {
			logger.Warn("generation.content_failed", "error", err)
		}
		return nil
	}
	return generated
}

type renderedPage struct {
	file string
	html string
}

// renderPages renders saved layouts page by page. Projects that never saved
// a layout get the static fallback document. A saved layout without pages
// still yields an empty index document, and a layout without a home page
// serves its first page as the index too.
func (s *service) renderPages(snapshot *layouts.Snapshot, ctx render.Context, stylesheet string) []renderedPage {
	if snapshot == nil || !snapshot.Initialized {
		return []renderedPage{{file: indexFile, html: render.Fallback(ctx, stylesheet)}}
	}
	if len(snapshot.Pages) == 0 {
		return []renderedPage{{file: indexFile, html: render.Document(ctx, "", stylesheet)}}
	}

	names := snapshot.Pages.Pages()
	files := pageFiles(names)
	out := make([]renderedPage, 0, len(names)+1)
	for _, name := range names {
		body := s.renderer.Render(snapshot.Pages[name].Sorted(), ctx)
		out = append(out, renderedPage{
			file: files[name],
			html: render.Document(ctx, body, stylesheet),
		})
	}
	if _, ok := snapshot.Pages[homePage]; !ok {
		out = append([]renderedPage{{file: indexFile, html: out[0].html}}, out...)
	}
	return out
}

// pageFiles maps page names to archive file names. index.html is reserved
// for the home page and names that slug to the same file get a numeric
// suffix.
func pageFiles(names []string) map[string]string {
	files := make(map[string]string, len(names))
	used := map[string]bool{indexFile: true}
	for _, name := range names {
		if name == homePage {
			files[name] = indexFile
			continue
		}
		base := pageBase(name)
		file := base + ".html"
		for n := 2; used[file]; n++ {
			file = fmt.Sprintf("%s-%d.html", base, n)
		}
		used[file] = true
		files[name] = file
	}
	return files
}

func pageBase(page string) string {
	name := strings.TrimSpace(page)
	if normalized, err := slug.Normalize(name); err == nil && normalized != "" {
		name = normalized
	}
	return name
}

func assetURL(upload string) string {
	if upload == "" {
		return ""
	}
	return path.Join(assetsDir, path.Base(upload))
}

func (s *service) History(ctx context.Context, projectID uuid.UUID, limit int) ([]*Generation, error) {
	if projectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	records, err := s.deps.Records.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (s *service) Latest(ctx context.Context, projectID uuid.UUID) (*Generation, error) {
	records, err := s.History(ctx, projectID, 0)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Status == StatusCompleted {
			return record, nil
		}
	}
	return nil, &NotFoundError{ProjectID: projectID}
}

func (s *service) Version(ctx context.Context, projectID uuid.UUID, version int) (*Generation, error) {
	if version <= 0 {
		return nil, ErrVersionRequired
	}
	records, err := s.History(ctx, projectID, 0)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.Version == version {
			return record, nil
		}
	}
	return nil, &NotFoundError{ProjectID: projectID, Version: version}
}

// Cancel stops the in-flight generation of projectID. The run is recorded as
// failed and returns ErrCancelled. Records left pending or processing by a run that
// is no longer executing are marked failed directly.
func (s *service) Cancel(ctx context.Context, projectID uuid.UUID) error {
	if projectID == uuid.Nil {
		return ErrProjectIDRequired
	}
	if s.cancelActive(projectID) {
		return nil
	}
	lock := s.lock(projectID)
	if !lock.TryLock() {
		if s.cancelActive(projectID) {
			return nil
		}
		return ErrNoActiveGeneration
	}
	defer lock.Unlock()

	records, err := s.deps.Records.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	cancelled := 0
	for _, record := range records {
		if record.Status != StatusPending && record.Status != StatusProcessing {
			continue
		}
		record.Status = StatusFailed
		record.ErrorLog = cancelledLog
		if _, err := s.finish(ctx, record, record.CreatedAt); err != nil {
			return err
		}
		cancelled++
	}
	if cancelled == 0 {
		return ErrNoActiveGeneration
	}
	s.deps.Logger.Info("generation.cancelled", "project_id", projectID.String(), "records", cancelled)
	return nil
}

func (s *service) cancelActive(projectID uuid.UUID) bool {
	value, ok := s.active.Load(projectID)
	if !ok {
		return false
	}
	value.(context.CancelCauseFunc)(ErrCancelled)
	return true
}

type disabledService struct{}

func (disabledService) Generate(context.Context, GenerateInput) (*Result, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) History(context.Context, uuid.UUID, int) ([]*Generation, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Latest(context.Context, uuid.UUID) (*Generation, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Version(context.Context, uuid.UUID, int) (*Generation, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Cancel(context.Context, uuid.UUID) error {
	return ErrServiceDisabled
}
