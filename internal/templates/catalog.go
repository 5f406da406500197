package templates

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tourtosky/affiliate-site-generator/internal/blocks"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

const defaultPage = "home"

var (
	ErrFallbackHomeMissing = errors.New("templates: fallback home layout missing")
	ErrTemplateIDRequired  = errors.New("templates: template id required")
	ErrDuplicateTemplate   = errors.New("templates: duplicate template id")
	ErrBlockTypeMissing    = errors.New("templates: block type missing")
	ErrUnknownBlockType    = errors.New("templates: unknown block type")
)

// BlockConfig is one (block type, properties) pair of a page configuration.
type BlockConfig struct {
	BlockType  string         `yaml:"block"`
	Properties map[string]any `yaml:"properties"`
}

// Theme is the default look of a template. Empty fields fall back to the
// site-wide defaults.
type Theme struct {
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Accent     string `yaml:"accent"`
	Stylesheet string `yaml:"stylesheet"`
}

// Template describes one site template.
type Template struct {
	ID          string                   `yaml:"id"`
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description"`
	Features    []string                 `yaml:"features"`
	Pages       []string                 `yaml:"pages"`
	Theme       Theme                    `yaml:"theme"`
	Layouts     map[string][]BlockConfig `yaml:"layouts"`
}

// HasPage reports whether the template offers page.
func (t Template) HasPage(page string) bool {
	for _, candidate := range t.Pages {
		if candidate == page {
			return true
		}
	}
	return false
}

type catalogDocument struct {
	Fallback  map[string][]BlockConfig `yaml:"fallback"`
	Templates []Template               `yaml:"templates"`
}

// Catalog is the read-only set of site templates.
type Catalog struct {
	order    []string
	byID     map[string]Template
	fallback map[string][]BlockConfig
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the embedded template catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		catalog, err := LoadCatalog(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("templates: embedded catalog invalid: %v", err))
		}
		defaultCatalog = catalog
	})
	return defaultCatalog
}

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("templates: decode catalog: %w", err)
	}
	if len(doc.Fallback[defaultPage]) == 0 {
		return nil, ErrFallbackHomeMissing
	}
	if err := checkConfigs("fallback", doc.Fallback); err != nil {
		return nil, err
	}

	catalog := &Catalog{
		order:    make([]string, 0, len(doc.Templates)),
		byID:     make(map[string]Template, len(doc.Templates)),
		fallback: doc.Fallback,
	}
	for _, template := range doc.Templates {
		template.ID = strings.TrimSpace(template.ID)
		if template.ID == "" {
			return nil, ErrTemplateIDRequired
		}
		if _, exists := catalog.byID[template.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTemplate, template.ID)
		}
		if err := checkConfigs(template.ID, template.Layouts); err != nil {
			return nil, err
		}
		catalog.order = append(catalog.order, template.ID)
		catalog.byID[template.ID] = template
	}
	return catalog, nil
}

func checkConfigs(owner string, pages map[string][]BlockConfig) error {
	for page, configs := range pages {
		for i, config := range configs {
			if strings.TrimSpace(config.BlockType) == "" {
				return fmt.Errorf("%w: %s/%s[%d]", ErrBlockTypeMissing, owner, page, i)
			}
		}
	}
	return nil
}

// Validate reports the first page configuration that references a block type
// missing from registry.
func (c *Catalog) Validate(registry *blocks.Registry) error {
	check := func(owner string, pages map[string][]BlockConfig) error {
		for page, configs := range pages {
			for _, config := range configs {
				if !registry.Known(blocks.BlockType(config.BlockType)) {
					return fmt.Errorf("%w: %s in %s/%s", ErrUnknownBlockType, config.BlockType, owner, page)
				}
			}
		}
		return nil
	}
	if err := check("fallback", c.fallback); err != nil {
		return err
	}
	for _, id := range c.order {
		if err := check(id, c.byID[id].Layouts); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the template registered under id.
func (c *Catalog) Get(id string) (Template, bool) {
	template, ok := c.byID[strings.TrimSpace(id)]
	return template, ok
}

// List returns the templates in catalog order.
func (c *Catalog) List() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// pageConfig resolves the configuration of one page: the template's own entry,
// else the template's home, else the fallback home.
func (c *Catalog) pageConfig(templateID, page string) []BlockConfig {
	if template, ok := c.byID[strings.TrimSpace(templateID)]; ok {
		if configs, ok := template.Layouts[page]; ok {
			return configs
		}
		if configs, ok := template.Layouts[defaultPage]; ok {
			return configs
		}
	}
	if configs, ok := c.fallback[page]; ok {
		return configs
	}
	return c.fallback[defaultPage]
}
