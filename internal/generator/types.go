package generator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status tracks a generation run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var (
	ErrProjectIDRequired = errors.New("generator: project id required")
	ErrVersionRequired   = errors.New("generator: version must be positive")
	ErrProjectsRequired  = errors.New("generator: project source required")
	ErrLayoutsRequired   = errors.New("generator: layout service required")

	ErrNoActiveGeneration = errors.New("generator: no active generation")
)

// NotFoundError reports a missing generation record.
type NotFoundError struct {
	ProjectID uuid.UUID
	Version   int
}

func (e *NotFoundError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("generation v%d of project %s not found", e.Version, e.ProjectID)
	}
	return fmt.Sprintf("no completed generation for project %s", e.ProjectID)
}

// NotFound marks the error as a missing resource.
func (e *NotFoundError) NotFound() bool { return true }

// IsNotFound reports whether err wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// Generation is the persisted record of one generation run. Versions are
// numbered per project starting at 1.
type Generation struct {
	bun.BaseModel `bun:"table:site_generations,alias:sg"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ProjectID      uuid.UUID  `bun:"project_id,notnull,type:uuid" json:"project_id"`
	Version        int        `bun:"version,notnull" json:"version"`
	Status         Status     `bun:"status,notnull" json:"status"`
	Template       string     `bun:"template" json:"template,omitempty"`
	Provider       string     `bun:"content_provider" json:"content_provider,omitempty"`
	ArchivePath    string     `bun:"archive_path" json:"archive_path,omitempty"`
	ArchiveSize    int64      `bun:"archive_size,notnull,default:0" json:"archive_size"`
	Checksum       string     `bun:"checksum" json:"checksum,omitempty"`
	TotalFiles     int        `bun:"total_files,notnull,default:0" json:"total_files"`
	PagesGenerated int        `bun:"pages_generated,notnull,default:0" json:"pages_generated"`
	DurationMillis int64      `bun:"duration_ms,notnull,default:0" json:"duration_ms"`
	ErrorLog       string     `bun:"error_log" json:"error_log,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	CompletedAt    *time.Time `bun:"completed_at,nullzero" json:"completed_at,omitempty"`
}

func (g *Generation) clone() *Generation {
	if g == nil {
		return nil
	}
	out := *g
	if g.CompletedAt != nil {
		completed := *g.CompletedAt
		out.CompletedAt = &completed
	}
	return &out
}

// Finished reports whether the run reached a terminal status.
func (g *Generation) Finished() bool {
	return g != nil && (g.Status == StatusCompleted || g.Status == StatusFailed)
}
