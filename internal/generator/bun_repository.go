package generator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewGenerationRecordRepository creates the generic repository for generation records.
func NewGenerationRecordRepository(db *bun.DB) repository.Repository[*Generation] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Generation]{
		NewRecord:          func() *Generation { return &Generation{} },
		GetID:              func(g *Generation) uuid.UUID { return g.ID },
		SetID:              func(g *Generation, id uuid.UUID) { g.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(g *Generation) string { return g.ID.String() },
	})
}

// BunRepository implements Repository on bun with optional caching.
type BunRepository struct {
	repo repository.Repository[*Generation]
}

// NewBunRepository creates a generation repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache creates a generation repository with caching services.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewGenerationRecordRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunRepository{repo: base}
}

func (r *BunRepository) Create(ctx context.Context, record *Generation) (*Generation, error) {
	created, err := r.repo.Create(ctx, record.clone())
	if err != nil {
		return nil, fmt.Errorf("site_generation repository error: %w", err)
	}
	return created, nil
}

func (r *BunRepository) Update(ctx context.Context, record *Generation) (*Generation, error) {
	updated, err := r.repo.Update(ctx, record.clone(),
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"status",
			"content_provider",
			"archive_path",
			"archive_size",
			"checksum",
			"total_files",
			"pages_generated",
			"duration_ms",
			"error_log",
			"completed_at",
		),
	)
	if err != nil {
		if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{ProjectID: record.ProjectID, Version: record.Version}
		}
		return nil, fmt.Errorf("site_generation repository error: %w", err)
	}
	return updated, nil
}

func (r *BunRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Generation, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.project_id = ?", projectID).
				OrderExpr("?TableAlias.version DESC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("site_generation repository error: %w", err)
	}
	return records, nil
}
