package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

var (
	ErrProjectNotFound = errors.New("projects: project not found")
	ErrInvalidProject  = errors.New("projects: invalid project snapshot")
)

var wwwRedirectModes = []any{"to-www", "to-non-www", "none"}

// Validate checks the fields generation depends on.
func Validate(project *interfaces.ProjectSnapshot) error {
	if project == nil {
		return fmt.Errorf("%w: snapshot required", ErrInvalidProject)
	}
	err := validation.ValidateStruct(project,
		validation.Field(&project.ID, validation.By(requireUUID)),
		validation.Field(&project.BrandName, validation.Required),
		validation.Field(&project.Products, validation.By(validateProducts)),
		validation.Field(&project.Htaccess, validation.By(validateHtaccess)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	return nil
}

func requireUUID(value any) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return validation.NewError("validation_uuid_required", "must be a non-nil uuid")
	}
	return nil
}

func validateProducts(value any) error {
	products, _ := value.([]interfaces.ProductSnapshot)
	for i, product := range products {
		if strings.TrimSpace(product.ASIN) == "" {
			return validation.NewError("validation_asin_required", fmt.Sprintf("product %d has no asin", i))
		}
	}
	return nil
}

func validateHtaccess(value any) error {
	settings, _ := value.(interfaces.HtaccessSettings)
	return validation.Validate(strings.TrimSpace(settings.WWWRedirect), validation.In(wwwRedirectModes...))
}

// Slug returns the project's slug, deriving one from its name when unset.
func Slug(project *interfaces.ProjectSnapshot) string {
	if project == nil {
		return "site"
	}
	if trimmed := strings.TrimSpace(project.Slug); trimmed != "" {
		return trimmed
	}
	for _, candidate := range []string{project.Name, project.BrandName} {
		if normalized, err := slug.Normalize(candidate); err == nil && normalized != "" {
			return normalized
		}
	}
	return "site"
}

// Decode reads a JSON project snapshot.
func Decode(r io.Reader) (*interfaces.ProjectSnapshot, error) {
	var project interfaces.ProjectSnapshot
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&project); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}
	return &project, nil
}

// MemorySource serves project snapshots held in memory. The host application
// owns project CRUD; this source backs the CLI and tests.
type MemorySource struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*interfaces.ProjectSnapshot
}

var _ interfaces.ProjectSource = (*MemorySource)(nil)

func NewMemorySource() *MemorySource {
	return &MemorySource{projects: map[uuid.UUID]*interfaces.ProjectSnapshot{}}
}

// Put stores a copy of project after validating it.
func (s *MemorySource) Put(project *interfaces.ProjectSnapshot) error {
	if err := Validate(project); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = clone(project)
	return nil
}

func (s *MemorySource) Project(_ context.Context, id uuid.UUID) (*interfaces.ProjectSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	project, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, id)
	}
	return clone(project), nil
}

func clone(project *interfaces.ProjectSnapshot) *interfaces.ProjectSnapshot {
	out := *project
	out.SelectedPages = append([]string(nil), project.SelectedPages...)
	out.Products = append([]interfaces.ProductSnapshot(nil), project.Products...)
	out.CTAs = append([]interfaces.CTASnapshot(nil), project.CTAs...)
	out.Domains = append([]interfaces.DomainSnapshot(nil), project.Domains...)
	return &out
}
