package layouts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is the persisted layout state of one project.
type Record struct {
	bun.BaseModel `bun:"table:project_layouts,alias:pl"`

	ID          uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	ProjectID   uuid.UUID   `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Pages       PageLayouts `bun:"pages,type:jsonb,notnull" json:"pages"`
	Initialized bool        `bun:"initialized,notnull" json:"initialized"`
	Version     int         `bun:"version,notnull,default:0" json:"version"`
	CreatedAt   time.Time   `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time   `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	out.Pages = r.Pages.Clone()
	return &out
}

func (r *Record) snapshot() *Snapshot {
	updated := r.UpdatedAt
	return &Snapshot{
		ProjectID:   r.ProjectID,
		Pages:       r.Pages.Clone(),
		Initialized: r.Initialized,
		Version:     r.Version,
		UpdatedAt:   &updated,
	}
}

// Repository persists layout records keyed by project.
type Repository interface {
	Get(ctx context.Context, projectID uuid.UUID) (*Record, error)
	Upsert(ctx context.Context, record *Record) (*Record, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
}
