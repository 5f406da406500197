package layouts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
	"github.com/tourtosky/affiliate-site-generator/internal/logging"
	"github.com/tourtosky/affiliate-site-generator/internal/util"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// Seeder produces default layouts for a template and a set of pages.
type Seeder interface {
	Generate(templateID string, selectedPages []string) PageLayouts
}

// PropertyValidator checks block properties against the block catalog.
type PropertyValidator interface {
	Known(id blocks.BlockType) bool
	ValidateProperties(id blocks.BlockType, properties map[string]any, partial bool) error
}

// Service manages the saved layouts of projects.
type Service interface {
	Load(ctx context.Context, projectID uuid.UUID) (*Snapshot, error)
	Save(ctx context.Context, input SaveInput) (*Snapshot, error)
	Reset(ctx context.Context, projectID uuid.UUID) error
	Open(ctx context.Context, projectID uuid.UUID, page string) (*Editor, error)
}

// SaveInput is the payload of Save. An empty Pages map is stored as an
// intentionally empty layout.
type SaveInput struct {
	ProjectID uuid.UUID
	Pages     PageLayouts
}

// ServiceOption customises the service.
type ServiceOption func(*service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithInstanceIDGenerator overrides the id source of editors opened by the service.
func WithInstanceIDGenerator(fn func() string) ServiceOption {
	return func(s *service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithValidator enables property validation on save.
func WithValidator(validator PropertyValidator) ServiceOption {
	return func(s *service) {
		s.validator = validator
	}
}

// WithDefaultTemplate sets the template used when a project names none.
func WithDefaultTemplate(template string) ServiceOption {
	return func(s *service) {
		if trimmed := strings.TrimSpace(template); trimmed != "" {
			s.defaultTemplate = trimmed
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo            Repository
	projects        interfaces.ProjectSource
	seeder          Seeder
	validator       PropertyValidator
	locks           *projectLocks
	now             func() time.Time
	newID           func() string
	defaultTemplate string
	logger          interfaces.Logger
}

// NewService wires the layout service.
func NewService(repo Repository, projects interfaces.ProjectSource, seeder Seeder, opts ...ServiceOption) Service {
	s := &service{
		repo:            repo,
		projects:        projects,
		seeder:          seeder,
		locks:           newProjectLocks(),
		now:             time.Now,
		newID:           func() string { return uuid.NewString() },
		defaultTemplate: "modern",
		logger:          logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Load(ctx context.Context, projectID uuid.UUID) (*Snapshot, error) {
	if projectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	lock := s.locks.get(projectID)
	lock.Lock()
	defer lock.Unlock()
	return s.loadLocked(ctx, projectID)
}

func (s *service) loadLocked(ctx context.Context, projectID uuid.UUID) (*Snapshot, error) {
	record, err := s.repo.Get(ctx, projectID)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	if record != nil && record.Initialized {
		return record.snapshot(), nil
	}

	snapshot := &Snapshot{ProjectID: projectID, Pages: PageLayouts{}}
	if s.projects == nil || s.seeder == nil {
		return snapshot, nil
	}
	project, err := s.projects.Project(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("layouts: resolve project %s: %w", projectID, err)
	}
	if len(project.SelectedPages) == 0 {
		return snapshot, nil
	}
	template := util.FirstNonEmpty(project.Template, s.defaultTemplate)
	snapshot.Pages = s.seeder.Generate(template, project.SelectedPages)
	logging.WithProjectContext(s.logger, projectID.String(), template, 0).
		Debug("layouts.seeded", "pages", len(snapshot.Pages))
	return snapshot, nil
}

func (s *service) Save(ctx context.Context, input SaveInput) (*Snapshot, error) {
	if input.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	lock := s.locks.get(input.ProjectID)
	lock.Lock()
	defer lock.Unlock()
	return s.saveLocked(ctx, input.ProjectID, input.Pages)
}

func (s *service) saveLocked(ctx context.Context, projectID uuid.UUID, pages PageLayouts) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validate(pages); err != nil {
		return nil, err
	}

	version := 1
	existing, err := s.repo.Get(ctx, projectID)
	switch {
	case err == nil:
		version = existing.Version + 1
	case !IsNotFound(err):
		return nil, err
	}

	normalized := pages.Normalize()
	record, err := s.repo.Upsert(ctx, &Record{
		ProjectID:   projectID,
		Pages:       normalized,
		Initialized: true,
		Version:     version,
		UpdatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	logging.WithProjectContext(s.logger, projectID.String(), "", 0).
		Info("layouts.saved", "pages", len(normalized), "version", record.Version)
	return record.snapshot(), nil
}

func (s *service) validate(pages PageLayouts) error {
	for _, name := range pages.Pages() {
		if strings.TrimSpace(name) == "" {
			return ErrPageNameRequired
		}
		seen := make(map[string]struct{}, len(pages[name].Blocks))
		for _, block := range pages[name].Blocks {
			if strings.TrimSpace(block.InstanceID) == "" {
				return fmt.Errorf("%w: page %s", ErrInstanceIDRequired, name)
			}
			if _, dup := seen[block.InstanceID]; dup {
				return fmt.Errorf("%w: %s on page %s", ErrDuplicateInstance, block.InstanceID, name)
			}
			seen[block.InstanceID] = struct{}{}
			if strings.TrimSpace(block.BlockType) == "" {
				return fmt.Errorf("%w: %s on page %s", ErrBlockTypeRequired, block.InstanceID, name)
			}
			if s.validator == nil {
				continue
			}
			blockType := blocks.BlockType(block.BlockType)
			if !s.validator.Known(blockType) {
				s.logger.Debug("layouts.unknown_block_type", "block_type", block.BlockType, "page", name)
				continue
			}
			if err := s.validator.ValidateProperties(blockType, block.Properties, true); err != nil {
				return fmt.Errorf("%w: %s on page %s: %w", ErrInvalidProperties, block.InstanceID, name, err)
			}
		}
	}
	return nil
}

func (s *service) Reset(ctx context.Context, projectID uuid.UUID) error {
	if projectID == uuid.Nil {
		return ErrProjectIDRequired
	}
	lock := s.locks.get(projectID)
	lock.Lock()
	defer lock.Unlock()
	return s.repo.Delete(ctx, projectID)
}

func (s *service) Open(ctx context.Context, projectID uuid.UUID, page string) (*Editor, error) {
	snapshot, err := s.Load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return NewEditor(projectID, snapshot.Pages,
		WithEditorLock(s.locks.get(projectID)),
		WithInstanceIDs(s.newID),
		WithPage(page),
		WithPersist(func(ctx context.Context, pages PageLayouts) error {
			_, err := s.saveLocked(ctx, projectID, pages)
			return err
		}),
	), nil
}
