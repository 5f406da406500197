package generator

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Repository persists generation records.
type Repository interface {
	Create(ctx context.Context, record *Generation) (*Generation, error)
	Update(ctx context.Context, record *Generation) (*Generation, error)
	// ListByProject returns the project's records, newest version first.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Generation, error)
}

type memoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Generation
}

// NewMemoryRepository returns an in-memory Repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{records: map[uuid.UUID]*Generation{}}
}

func (r *memoryRepository) Create(_ context.Context, record *Generation) (*Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := record.clone()
	r.records[stored.ID] = stored
	return stored.clone(), nil
}

func (r *memoryRepository) Update(_ context.Context, record *Generation) (*Generation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[record.ID]; !ok {
		return nil, &NotFoundError{ProjectID: record.ProjectID, Version: record.Version}
	}
	stored := record.clone()
	r.records[stored.ID] = stored
	return stored.clone(), nil
}

func (r *memoryRepository) ListByProject(_ context.Context, projectID uuid.UUID) ([]*Generation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Generation
	for _, record := range r.records {
		if record.ProjectID == projectID {
			out = append(out, record.clone())
		}
	}
	slices.SortFunc(out, func(a, b *Generation) int {
		return cmp.Compare(b.Version, a.Version)
	})
	return out, nil
}
