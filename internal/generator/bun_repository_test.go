package generator_test

import (
	"context"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/tourtosky/affiliate-site-generator/internal/generator"
	"github.com/tourtosky/affiliate-site-generator/internal/identity"
	"github.com/tourtosky/affiliate-site-generator/pkg/testsupport"
)

func newGenerationsDB(t *testing.T) *bun.DB {
	t.Helper()
	db := bun.NewDB(testsupport.NewSQLiteMemoryDB(t), sqlitedialect.New())
	db.SetMaxOpenConns(1)
	if _, err := db.NewCreateTable().Model((*generator.Generation)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		t.Fatalf("create site_generations: %v", err)
	}
	return db
}

func TestBunRepositoryListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := generator.NewBunRepository(newGenerationsDB(t))
	other := uuid.New()

	for _, record := range []*generator.Generation{
		{ID: identity.GenerationUUID(projectID, 1), ProjectID: projectID, Version: 1, Status: generator.StatusCompleted},
		{ID: identity.GenerationUUID(projectID, 2), ProjectID: projectID, Version: 2, Status: generator.StatusPending},
		{ID: identity.GenerationUUID(other, 1), ProjectID: other, Version: 1, Status: generator.StatusPending},
	} {
		if _, err := repo.Create(ctx, record); err != nil {
			t.Fatalf("create v%d: %v", record.Version, err)
		}
	}

	records, err := repo.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 || records[0].Version != 2 || records[1].Version != 1 {
		t.Fatalf("unexpected records %+v", records)
	}
}

func TestBunRepositoryUpdateWithCache(t *testing.T) {
	ctx := context.Background()

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheSvc, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("cache service: %v", err)
	}
	repo := generator.NewBunRepositoryWithCache(newGenerationsDB(t), cacheSvc, repocache.NewDefaultKeySerializer())

	record := &generator.Generation{
		ID:        identity.GenerationUUID(projectID, 1),
		ProjectID: projectID,
		Version:   1,
		Status:    generator.StatusPending,
		Template:  "modern",
	}
	if _, err := repo.Create(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.ListByProject(ctx, projectID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	completed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record.Status = generator.StatusCompleted
	record.ArchivePath = "acme/v1.zip"
	record.ArchiveSize = 2048
	record.TotalFiles = 3
	record.CompletedAt = &completed
	if _, err := repo.Update(ctx, record); err != nil {
		t.Fatalf("update: %v", err)
	}

	records, err := repo.ListByProject(ctx, projectID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	got := records[0]
	if got.Status != generator.StatusCompleted || got.ArchivePath != "acme/v1.zip" || got.ArchiveSize != 2048 || got.TotalFiles != 3 {
		t.Fatalf("update not visible after cache invalidation: %+v", got)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completed) {
		t.Fatalf("expected completed_at %v, got %v", completed, got.CompletedAt)
	}
}

func TestBunRepositoryServiceRoundTrip(t *testing.T) {
	repo := generator.NewBunRepository(newGenerationsDB(t))
	fx := newFixture(t, func(_ *generator.Config, deps *generator.Dependencies) {
		deps.Records = repo
	})
	ctx := context.Background()

	if _, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID}); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	result, err := fx.svc.Generate(ctx, generator.GenerateInput{ProjectID: projectID})
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if result.Generation.Version != 2 {
		t.Fatalf("expected version 2, got %d", result.Generation.Version)
	}
	latest, err := fx.svc.Latest(ctx, projectID)
	if err != nil || latest.Version != 2 || latest.Status != generator.StatusCompleted {
		t.Fatalf("unexpected latest %+v (%v)", latest, err)
	}
}
