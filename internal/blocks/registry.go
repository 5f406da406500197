package blocks

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/tourtosky/affiliate-site-generator/internal/validation"
)

var (
	ErrDuplicateBlockType = errors.New("blocks: duplicate block type")
	ErrBlockTypeRequired  = errors.New("blocks: block type id required")
	ErrUnknownCategory    = errors.New("blocks: unknown block category")
)

// NotFoundError is returned when a block type is not part of the catalog.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// AuditIssue reports a default property that the definition does not declare.
type AuditIssue struct {
	BlockType BlockType
	Property  string
}

// Registry is the read-only block type catalog. It is safe for concurrent use;
// every accessor returns copies.
type Registry struct {
	order   []BlockType
	byID    map[BlockType]Definition
	schemas map[BlockType]*validation.Schema
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry built from the built-in catalog.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		registry, err := NewRegistry(catalog())
		if err != nil {
			panic(fmt.Sprintf("blocks: built-in catalog invalid: %v", err))
		}
		defaultRegistry = registry
	})
	return defaultRegistry
}

// NewRegistry indexes definitions in the given order and compiles their
// property schemas.
func NewRegistry(definitions []Definition) (*Registry, error) {
	registry := &Registry{
		order:   make([]BlockType, 0, len(definitions)),
		byID:    make(map[BlockType]Definition, len(definitions)),
		schemas: make(map[BlockType]*validation.Schema, len(definitions)),
	}
	for _, definition := range definitions {
		id := BlockType(strings.TrimSpace(string(definition.ID)))
		if id == "" {
			return nil, ErrBlockTypeRequired
		}
		if _, exists := registry.byID[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBlockType, id)
		}
		if !slices.Contains(Categories(), definition.Category) {
			return nil, fmt.Errorf("%w: %s (%q)", ErrUnknownCategory, id, definition.Category)
		}
		definition.ID = id
		schema, err := validation.Compile(PropertySchema(definition))
		if err != nil {
			return nil, fmt.Errorf("blocks: %s: %w", id, err)
		}
		registry.order = append(registry.order, id)
		registry.byID[id] = definition.clone()
		registry.schemas[id] = schema
	}
	return registry, nil
}

// Get returns the definition registered under id. Lookups are exact matches.
func (r *Registry) Get(id BlockType) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	definition, ok := r.byID[id]
	if !ok {
		return Definition{}, false
	}
	return definition.clone(), true
}

// Lookup is Get with a *NotFoundError for unknown ids.
func (r *Registry) Lookup(id BlockType) (Definition, error) {
	definition, ok := r.Get(id)
	if !ok {
		return Definition{}, &NotFoundError{Resource: "block type", Key: string(id)}
	}
	return definition, nil
}

// Known reports whether id is part of the catalog.
func (r *Registry) Known(id BlockType) bool {
	if r == nil {
		return false
	}
	_, ok := r.byID[id]
	return ok
}

// List returns every definition in catalog order.
func (r *Registry) List() []Definition {
	if r == nil {
		return nil
	}
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id].clone())
	}
	return out
}

// ByCategory returns the definitions of one category in catalog order.
func (r *Registry) ByCategory(category Category) []Definition {
	if r == nil {
		return nil
	}
	out := []Definition{}
	for _, id := range r.order {
		if definition := r.byID[id]; definition.Category == category {
			out = append(out, definition.clone())
		}
	}
	return out
}

// Defaults returns a fresh copy of the default properties of id, or nil when
// the type is unknown.
func (r *Registry) Defaults(id BlockType) map[string]any {
	if r == nil {
		return nil
	}
	definition, ok := r.byID[id]
	if !ok {
		return nil
	}
	return cloneProperties(definition.DefaultProperties)
}

// Audit lists default properties that have no matching field declaration.
// Such keys are tolerated at runtime.
func (r *Registry) Audit() []AuditIssue {
	if r == nil {
		return nil
	}
	issues := []AuditIssue{}
	for _, id := range r.order {
		definition := r.byID[id]
		keys := make([]string, 0, len(definition.DefaultProperties))
		for key := range definition.DefaultProperties {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			if _, declared := definition.Property(key); !declared {
				issues = append(issues, AuditIssue{BlockType: id, Property: key})
			}
		}
	}
	return issues
}

// ValidateProperties checks instance properties against the declared fields.
// With partial set, required fields may be absent (sparse overrides).
func (r *Registry) ValidateProperties(id BlockType, properties map[string]any, partial bool) error {
	if !r.Known(id) {
		return &NotFoundError{Resource: "block type", Key: string(id)}
	}
	schema := r.schemas[id]
	if partial {
		return schema.ValidatePartial(properties)
	}
	return schema.Validate(properties)
}
