package layoutscmd

import (
	"context"

	"github.com/tourtosky/affiliate-site-generator/internal/commands"
	"github.com/tourtosky/affiliate-site-generator/internal/layouts"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// SaveLayoutHandler persists layouts through the layout service.
type SaveLayoutHandler struct {
	inner *commands.Handler[SaveLayoutCommand]
}

// NewSaveLayoutHandler constructs a handler wired to service.
func NewSaveLayoutHandler(service layouts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[SaveLayoutCommand]) *SaveLayoutHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SaveLayoutCommand) error {
		snapshot, err := service.Save(ctx, layouts.SaveInput{ProjectID: msg.ProjectID, Pages: msg.Pages})
		if err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(snapshot)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SaveLayoutCommand]{
		commands.WithLogger[SaveLayoutCommand](baseLogger),
		commands.WithOperation[SaveLayoutCommand]("layouts.save"),
		commands.WithMessageFields(func(msg SaveLayoutCommand) map[string]any {
			return map[string]any{
				"project_id": msg.ProjectID,
				"pages":      len(msg.Pages),
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SaveLayoutCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &SaveLayoutHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SaveLayoutCommand].
func (h *SaveLayoutHandler) Execute(ctx context.Context, msg SaveLayoutCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ResetLayoutHandler deletes saved layouts.
type ResetLayoutHandler struct {
	inner *commands.Handler[ResetLayoutCommand]
}

func NewResetLayoutHandler(service layouts.Service, logger interfaces.Logger, opts ...commands.HandlerOption[ResetLayoutCommand]) *ResetLayoutHandler {
	exec := func(ctx context.Context, msg ResetLayoutCommand) error {
		return service.Reset(ctx, msg.ProjectID)
	}

	handlerOpts := []commands.HandlerOption[ResetLayoutCommand]{
		commands.WithLogger[ResetLayoutCommand](commands.EnsureLogger(logger)),
		commands.WithOperation[ResetLayoutCommand]("layouts.reset"),
		commands.WithMessageFields(func(msg ResetLayoutCommand) map[string]any {
			return map[string]any{"project_id": msg.ProjectID}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &ResetLayoutHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ResetLayoutCommand].
func (h *ResetLayoutHandler) Execute(ctx context.Context, msg ResetLayoutCommand) error {
	return h.inner.Execute(ctx, msg)
}
