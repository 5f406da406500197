package sitegen

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	layoutscmd "github.com/tourtosky/affiliate-site-generator/internal/commands/layouts"
	sitecmd "github.com/tourtosky/affiliate-site-generator/internal/commands/site"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or queues.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// RegistrationOptions configures where handlers are registered.
type RegistrationOptions struct {
	Registry   CommandRegistry
	Dispatcher CommandDispatcher
}

// RegistrationResult captures the registered handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// Unsubscribe tears down every dispatcher subscription.
func (r *RegistrationResult) Unsubscribe() {
	if r == nil {
		return
	}
	for _, sub := range r.Subscriptions {
		sub.Unsubscribe()
	}
	r.Subscriptions = nil
}

// RegisterCommands hands the module's command handlers to the configured
// registry and dispatcher. The generate handler is skipped when the
// generator is disabled.
func RegisterCommands(module *Module, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{}
	if module == nil || module.container == nil {
		return result, nil
	}

	var errs error
	register := func(handler any) {
		result.Handlers = append(result.Handlers, handler)
		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			sub, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if sub != nil {
				result.Subscriptions = append(result.Subscriptions, sub)
			}
		}
	}

	if handler := module.SaveLayoutHandler(); handler != nil {
		register(handler)
	}
	if handler := module.ResetLayoutHandler(); handler != nil {
		register(handler)
	}
	if handler := module.GenerateSiteHandler(); handler != nil && module.container.Config.Generator.Enabled {
		register(handler)
	}
	return result, errs
}

// GlobalDispatcher subscribes handlers to the process-wide go-command
// dispatcher. maxRetries applies to every subscription.
type GlobalDispatcher struct {
	MaxRetries int
}

var _ CommandDispatcher = GlobalDispatcher{}

func (d GlobalDispatcher) RegisterCommand(handler any) (CommandSubscription, error) {
	retries := runner.WithMaxRetries(max(d.MaxRetries, 0))
	switch h := handler.(type) {
	case *layoutscmd.SaveLayoutHandler:
		return dispatcher.SubscribeCommand(h, retries), nil
	case *layoutscmd.ResetLayoutHandler:
		return dispatcher.SubscribeCommand(h, retries), nil
	case *sitecmd.GenerateSiteHandler:
		return dispatcher.SubscribeCommand(h, retries), nil
	default:
		return nil, fmt.Errorf("sitegen: unsupported command handler %T", handler)
	}
}
