package layouts

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
)

const defaultPage = "home"

// PersistFunc stores the editor's layouts. It runs while the editor holds its
// lock, so it must not call back into the editor.
type PersistFunc func(ctx context.Context, pages PageLayouts) error

// EditorOption customises an Editor.
type EditorOption func(*Editor)

// WithEditorLock shares lock between editors (and saves) of the same project.
func WithEditorLock(lock sync.Locker) EditorOption {
	return func(e *Editor) {
		if lock != nil {
			e.lock = lock
		}
	}
}

// WithPersist sets the hook used by Persist.
func WithPersist(fn PersistFunc) EditorOption {
	return func(e *Editor) {
		e.persist = fn
	}
}

// WithInstanceIDs overrides the instance id source used by Add.
func WithInstanceIDs(fn func() string) EditorOption {
	return func(e *Editor) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// WithPage selects the page the editor starts on.
func WithPage(page string) EditorOption {
	return func(e *Editor) {
		if page != "" {
			e.page = page
		}
	}
}

// Editor is the editing session of one project's layouts. It tracks the page
// being edited, the selected instance and whether there are unsaved changes.
// Every mutation keeps block order dense (0..n-1).
type Editor struct {
	lock      sync.Locker
	projectID uuid.UUID
	pages     PageLayouts
	page      string
	selected  string
	dirty     bool
	newID     func() string
	persist   PersistFunc
}

// NewEditor starts a session over a copy of pages.
func NewEditor(projectID uuid.UUID, pages PageLayouts, opts ...EditorOption) *Editor {
	if pages == nil {
		pages = PageLayouts{}
	}
	e := &Editor{
		lock:      &sync.Mutex{},
		projectID: projectID,
		pages:     pages.Normalize(),
		page:      defaultPage,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProjectID returns the project being edited.
func (e *Editor) ProjectID() uuid.UUID { return e.projectID }

// Page returns the page currently edited.
func (e *Editor) Page() string {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.page
}

// Selected returns the selected instance id, or "" when nothing is selected.
func (e *Editor) Selected() string {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.selected
}

// Dirty reports whether there are changes not yet persisted.
func (e *Editor) Dirty() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.dirty
}

// Blocks returns a copy of the current page's blocks in order.
func (e *Editor) Blocks() []BlockInstance {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.pages[e.page].Clone().Blocks
}

// Layouts returns a copy of every page.
func (e *Editor) Layouts() PageLayouts {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.pages.Clone()
}

// SwitchPage changes the edited page and clears the selection. Other pages
// are left untouched.
func (e *Editor) SwitchPage(page string) {
	if page == "" {
		return
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	e.page = page
	e.selected = ""
}

// Select marks an instance of the current page as selected; "" clears it.
func (e *Editor) Select(instanceID string) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	if instanceID != "" && e.indexOf(instanceID) < 0 {
		return ErrInstanceNotFound
	}
	e.selected = instanceID
	return nil
}

// Add appends a block to the current page and selects it. Properties are
// copied as given; resolving registry defaults is up to the caller.
func (e *Editor) Add(blockType string, properties map[string]any) BlockInstance {
	e.lock.Lock()
	defer e.lock.Unlock()

	blocks := e.pages[e.page].Blocks
	instance := BlockInstance{
		InstanceID: e.newID(),
		BlockType:  blockType,
		Order:      len(blocks),
		Properties: maps.Clone(properties),
	}
	if instance.Properties == nil {
		instance.Properties = map[string]any{}
	}
	e.pages[e.page] = PageLayout{Blocks: append(blocks, instance)}
	e.selected = instance.InstanceID
	e.dirty = true
	return instance.Clone()
}

// Remove deletes an instance from the current page and renumbers the rest.
func (e *Editor) Remove(instanceID string) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	index := e.indexOf(instanceID)
	if index < 0 {
		return ErrInstanceNotFound
	}
	blocks := slices.Delete(slices.Clone(e.pages[e.page].Blocks), index, index+1)
	renumber(blocks)
	e.pages[e.page] = PageLayout{Blocks: blocks}
	if e.selected == instanceID {
		e.selected = ""
	}
	e.dirty = true
	return nil
}

// Reorder moves the block at position from to position to.
func (e *Editor) Reorder(from, to int) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	blocks := slices.Clone(e.pages[e.page].Blocks)
	if from < 0 || from >= len(blocks) || to < 0 || to >= len(blocks) {
		return ErrIndexOutOfRange
	}
	moved := blocks[from]
	blocks = slices.Delete(blocks, from, from+1)
	blocks = slices.Insert(blocks, to, moved)
	renumber(blocks)
	e.pages[e.page] = PageLayout{Blocks: blocks}
	e.dirty = true
	return nil
}

// UpdateProperties shallow-merges partial into an instance's properties.
func (e *Editor) UpdateProperties(instanceID string, partial map[string]any) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	index := e.indexOf(instanceID)
	if index < 0 {
		return ErrInstanceNotFound
	}
	blocks := slices.Clone(e.pages[e.page].Blocks)
	updated := blocks[index].Clone()
	maps.Copy(updated.Properties, partial)
	blocks[index] = updated
	e.pages[e.page] = PageLayout{Blocks: blocks}
	e.dirty = true
	return nil
}

// Persist hands the layouts to the persist hook. The dirty flag is cleared
// only when the hook succeeds.
func (e *Editor) Persist(ctx context.Context) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if e.persist == nil {
		return ErrPersistUnavailable
	}
	if err := e.persist(ctx, e.pages.Clone()); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

func (e *Editor) indexOf(instanceID string) int {
	return slices.IndexFunc(e.pages[e.page].Blocks, func(b BlockInstance) bool {
		return b.InstanceID == instanceID
	})
}
