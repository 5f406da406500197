package layouts

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
}

// NewMemoryRepository returns an in-memory Repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{records: make(map[uuid.UUID]*Record)}
}

func (r *memoryRepository) Get(_ context.Context, projectID uuid.UUID) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[projectID]
	if !ok {
		return nil, &NotFoundError{Resource: "project_layout", Key: projectID.String()}
	}
	return record.clone(), nil
}

func (r *memoryRepository) Upsert(_ context.Context, record *Record) (*Record, error) {
	if record == nil || record.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := record.clone()
	if stored.Pages == nil {
		stored.Pages = PageLayouts{}
	}
	if existing, ok := r.records[record.ProjectID]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	}
	r.records[record.ProjectID] = stored
	return stored.clone(), nil
}

func (r *memoryRepository) Delete(_ context.Context, projectID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, projectID)
	return nil
}
