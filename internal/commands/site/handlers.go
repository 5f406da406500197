package sitecmd

import (
	"context"
	"strings"

	"github.com/tourtosky/affiliate-site-generator/internal/commands"
	"github.com/tourtosky/affiliate-site-generator/internal/generator"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

// GenerateSiteHandler runs generations through the shared command handler foundation.
type GenerateSiteHandler struct {
	inner *commands.Handler[GenerateSiteCommand]
}

// NewGenerateSiteHandler constructs a handler wired to the provided generator service.
func NewGenerateSiteHandler(service generator.Service, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[GenerateSiteCommand]) *GenerateSiteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg GenerateSiteCommand) error {
		if service == nil || !gates.generatorEnabled() {
			return generator.ErrServiceDisabled
		}
		result, err := service.Generate(ctx, generator.GenerateInput{
			ProjectID: msg.ProjectID,
			Provider:  strings.TrimSpace(msg.Provider),
		})
		if msg.ResultCallback != nil {
			metadata := map[string]any{"operation": "generate"}
			if result != nil && result.Generation != nil {
				metadata["version"] = result.Generation.Version
				metadata["download"] = result.Download
			}
			msg.ResultCallback(ResultEnvelope{Result: result, Err: err, Metadata: metadata})
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[GenerateSiteCommand]{
		commands.WithLogger[GenerateSiteCommand](baseLogger),
		commands.WithOperation[GenerateSiteCommand]("site.generate"),
		commands.WithMessageFields(func(msg GenerateSiteCommand) map[string]any {
			fields := map[string]any{"project_id": msg.ProjectID}
			if provider := strings.TrimSpace(msg.Provider); provider != "" {
				fields["provider"] = provider
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[GenerateSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)
	return &GenerateSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GenerateSiteCommand].
func (h *GenerateSiteHandler) Execute(ctx context.Context, msg GenerateSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}
