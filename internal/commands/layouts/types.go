package layoutscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
)

const (
	saveLayoutMessageType  = "sitegen.layouts.save"
	resetLayoutMessageType = "sitegen.layouts.reset"
)

// SaveLayoutCommand replaces the saved layouts of a project.
type SaveLayoutCommand struct {
	ProjectID uuid.UUID           `json:"project_id"`
	Pages     layouts.PageLayouts `json:"pages"`
	// ResultCallback receives the stored snapshot.
	ResultCallback func(*layouts.Snapshot) `json:"-"`
}

// Type implements command.Message.
func (SaveLayoutCommand) Type() string { return saveLayoutMessageType }

// Validate checks identifiers; property validation happens in the layout service.
func (m SaveLayoutCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProjectID == uuid.Nil {
		errs["project_id"] = validation.NewError("sitegen.layouts.save.project_id_required", "project_id is required")
	}
	for name, page := range m.Pages {
		if strings.TrimSpace(name) == "" {
			errs["pages"] = validation.NewError("sitegen.layouts.save.page_name_invalid", "page names must not be empty")
			break
		}
		if err := validatePage(page); err != nil {
			errs["pages"] = err
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePage(page layouts.PageLayout) error {
	for _, block := range page.Blocks {
		err := validation.ValidateStruct(&block,
			validation.Field(&block.InstanceID, validation.Required),
			validation.Field(&block.BlockType, validation.Required),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ResetLayoutCommand discards a project's saved layouts so the next load
// seeds them again from template defaults.
type ResetLayoutCommand struct {
	ProjectID uuid.UUID `json:"project_id"`
}

// Type implements command.Message.
func (ResetLayoutCommand) Type() string { return resetLayoutMessageType }

func (m ResetLayoutCommand) Validate() error {
	if m.ProjectID == uuid.Nil {
		return validation.Errors{
			"project_id": validation.NewError("sitegen.layouts.reset.project_id_required", "project_id is required"),
		}
	}
	return nil
}
