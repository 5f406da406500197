package layouts

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/tourtosky/affiliate-site-generator/internal/identity"
)

// NewRecordRepository creates the generic repository for layout records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord:          func() *Record { return &Record{} },
		GetID:              func(r *Record) uuid.UUID { return r.ID },
		SetID:              func(r *Record, id uuid.UUID) { r.ID = id },
		GetIdentifier:      func() string { return "project_id" },
		GetIdentifierValue: func(r *Record) string { return r.ProjectID.String() },
	})
}

// BunRepository implements Repository on bun with optional caching.
type BunRepository struct {
	repo repository.Repository[*Record]
}

// NewBunRepository creates a layout repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a layout repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Get(ctx context.Context, projectID uuid.UUID) (*Record, error) {
	record, err := r.repo.GetByID(ctx, identity.LayoutUUID(projectID).String())
	if err != nil {
		return nil, mapRepositoryError(err, "project_layout", projectID.String())
	}
	if record.Pages == nil {
		record.Pages = PageLayouts{}
	}
	return record, nil
}

func (r *BunRepository) Upsert(ctx context.Context, record *Record) (*Record, error) {
	if record == nil || record.ProjectID == uuid.Nil {
		return nil, ErrProjectIDRequired
	}
	stored := record.clone()
	stored.ID = identity.LayoutUUID(record.ProjectID)
	if stored.Pages == nil {
		stored.Pages = PageLayouts{}
	}

	if _, err := r.Get(ctx, record.ProjectID); err != nil {
		if !IsNotFound(err) {
			return nil, err
		}
		created, err := r.repo.Create(ctx, stored)
		if err != nil {
			return nil, fmt.Errorf("project_layout repository error: %w", err)
		}
		return created, nil
	}

	updated, err := r.repo.Update(ctx, stored,
		repository.UpdateByID(stored.ID.String()),
		repository.UpdateColumns("pages", "initialized", "version", "updated_at"),
	)
	if err != nil {
		return nil, mapRepositoryError(err, "project_layout", record.ProjectID.String())
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, projectID uuid.UUID) error {
	err := r.repo.Delete(ctx, &Record{ID: identity.LayoutUUID(projectID)})
	if err = mapRepositoryError(err, "project_layout", projectID.String()); IsNotFound(err) {
		return nil
	}
	return err
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
