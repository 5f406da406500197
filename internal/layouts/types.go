package layouts

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// BlockInstance is one placed block on a page. BlockType is kept as a plain
// string: persisted layouts may carry types the current catalog no longer knows.
type BlockInstance struct {
	InstanceID string         `json:"instanceId"`
	BlockType  string         `json:"blockType"`
	Order      int            `json:"order"`
	Properties map[string]any `json:"properties"`
}

// PageLayout holds the ordered blocks of a single page.
type PageLayout struct {
	Blocks []BlockInstance `json:"blocks"`
}

// PageLayouts maps page names (home, products, ...) to their layouts.
type PageLayouts map[string]PageLayout

// Snapshot is the layout state of a project as returned by the service.
// Initialized is false when the layouts were seeded from template defaults
// and have never been saved.
type Snapshot struct {
	ProjectID   uuid.UUID   `json:"projectId"`
	Pages       PageLayouts `json:"pages"`
	Initialized bool        `json:"initialized"`
	Version     int         `json:"version"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// Clone returns a copy whose instances and property maps are not shared with b.
func (b BlockInstance) Clone() BlockInstance {
	out := b
	if b.Properties != nil {
		out.Properties = maps.Clone(b.Properties)
	} else {
		out.Properties = map[string]any{}
	}
	return out
}

// Clone copies the layout and every instance in it.
func (p PageLayout) Clone() PageLayout {
	blocks := make([]BlockInstance, len(p.Blocks))
	for i, block := range p.Blocks {
		blocks[i] = block.Clone()
	}
	return PageLayout{Blocks: blocks}
}

// Sorted returns the blocks ordered by Order. Ties keep slice order.
func (p PageLayout) Sorted() []BlockInstance {
	blocks := p.Clone().Blocks
	slices.SortStableFunc(blocks, func(a, b BlockInstance) int {
		return a.Order - b.Order
	})
	return blocks
}

// Normalize sorts by Order and renumbers densely from zero.
func (p PageLayout) Normalize() PageLayout {
	blocks := p.Sorted()
	renumber(blocks)
	return PageLayout{Blocks: blocks}
}

// Clone copies every page.
func (l PageLayouts) Clone() PageLayouts {
	out := make(PageLayouts, len(l))
	for name, page := range l {
		out[name] = page.Clone()
	}
	return out
}

// Normalize applies PageLayout.Normalize to every page.
func (l PageLayouts) Normalize() PageLayouts {
	out := make(PageLayouts, len(l))
	for name, page := range l {
		out[name] = page.Normalize()
	}
	return out
}

// Pages returns the page names in lexical order.
func (l PageLayouts) Pages() []string {
	return slices.Sorted(maps.Keys(l))
}

func renumber(blocks []BlockInstance) {
	for i := range blocks {
		blocks[i].Order = i
	}
}
