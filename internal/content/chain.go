package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tourtosky/affiliate-site-generator/internal/logging"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

var (
	ErrNoProvider      = errors.New("content: no content provider configured")
	ErrProviderExhaust = errors.New("content: every content provider failed")
)

// Chain tries content providers in order: the requested one first, then every
// other available provider in registration order.
type Chain struct {
	providers []interfaces.ContentProvider
	logger    interfaces.Logger
}

// ChainOption customises a Chain.
type ChainOption func(*Chain)

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) ChainOption {
	return func(c *Chain) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChain builds a chain over providers; nil entries are skipped.
func NewChain(providers []interfaces.ContentProvider, opts ...ChainOption) *Chain {
	chain := &Chain{logger: logging.NoOp()}
	for _, provider := range providers {
		if provider != nil {
			chain.providers = append(chain.providers, provider)
		}
	}
	for _, opt := range opts {
		opt(chain)
	}
	return chain
}

// Available lists the names of configured providers in try order for preferred.
func (c *Chain) Available(preferred string) []string {
	ordered := c.order(preferred)
	names := make([]string, len(ordered))
	for i, provider := range ordered {
		names[i] = provider.Name()
	}
	return names
}

// Generate returns the first successful bundle. The provider that produced it
// is recorded on the result.
func (c *Chain) Generate(ctx context.Context, preferred string, req interfaces.ContentRequest) (*interfaces.GeneratedContent, error) {
	ordered := c.order(preferred)
	if len(ordered) == 0 {
		return nil, ErrNoProvider
	}

	var errs []error
	for _, provider := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		generated, err := provider.Generate(ctx, req)
		if err != nil {
			c.logger.Warn("content.provider_failed", "provider", provider.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
			continue
		}
		if generated == nil {
			generated = &interfaces.GeneratedContent{}
		}
		generated.Provider = provider.Name()
		return generated, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrProviderExhaust, errors.Join(errs...))
}

func (c *Chain) order(preferred string) []interfaces.ContentProvider {
	if c == nil {
		return nil
	}
	preferred = strings.ToLower(strings.TrimSpace(preferred))
	ordered := make([]interfaces.ContentProvider, 0, len(c.providers))
	for _, provider := range c.providers {
		if provider.Available() && strings.EqualFold(provider.Name(), preferred) {
			ordered = append(ordered, provider)
		}
	}
	for _, provider := range c.providers {
		if provider.Available() && !strings.EqualFold(provider.Name(), preferred) {
			ordered = append(ordered, provider)
		}
	}
	return ordered
}
