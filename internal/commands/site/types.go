package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/generator"
)

const generateSiteMessageType = "sitegen.site.generate"

// ResultCallback receives the outcome of a generation run. It is invoked
// synchronously, on failure too, with a nil Result.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures a generation outcome.
type ResultEnvelope struct {
	Result   *generator.Result
	Err      error
	Metadata map[string]any
}

// GenerateSiteCommand builds the next archive version of a project.
type GenerateSiteCommand struct {
	ProjectID uuid.UUID `json:"project_id"`
	// Provider names the preferred content provider; empty uses the configured one.
	Provider       string         `json:"provider,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (GenerateSiteCommand) Type() string { return generateSiteMessageType }

func (m GenerateSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.ProjectID, validation.By(func(value any) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.NewError("sitegen.site.generate.project_id_required", "project_id is required")
			}
			return nil
		})),
		validation.Field(&m.Provider, validation.By(func(value any) error {
			provider, _ := value.(string)
			if provider != "" && strings.TrimSpace(provider) == "" {
				return validation.NewError("sitegen.site.generate.provider_invalid", "provider must not be blank")
			}
			return nil
		})),
	)
}

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return true
	}
	return g.GeneratorEnabled()
}
