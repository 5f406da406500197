package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tourtosky/affiliate-site-generator/internal/content"
	"github.com/tourtosky/affiliate-site-generator/pkg/interfaces"
)

type fakeProvider struct {
	name      string
	available bool
	err       error
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Generate(context.Context, interfaces.ContentRequest) (*interfaces.GeneratedContent, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &interfaces.GeneratedContent{Hero: interfaces.GeneratedHero{Title: "from " + f.name}}, nil
}

func TestChainPrefersRequestedProvider(t *testing.T) {
	openai := &fakeProvider{name: "openai", available: true}
	gemini := &fakeProvider{name: "gemini", available: true}
	chain := content.NewChain([]interfaces.ContentProvider{openai, gemini})

	generated, err := chain.Generate(context.Background(), "Gemini", interfaces.ContentRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if generated.Provider != "gemini" || generated.Hero.Title != "from gemini" {
		t.Fatalf("expected gemini content, got %+v", generated)
	}
	if openai.calls != 0 {
		t.Fatalf("expected openai to be skipped, got %d calls", openai.calls)
	}
}

func TestChainFallsBackOnFailureAndUnavailable(t *testing.T) {
	openai := &fakeProvider{name: "openai", available: true, err: errors.New("rate limited")}
	claude := &fakeProvider{name: "claude", available: false}
	gemini := &fakeProvider{name: "gemini", available: true}
	chain := content.NewChain([]interfaces.ContentProvider{openai, claude, gemini})

	if diff := cmp.Diff([]string{"openai", "gemini"}, chain.Available("claude")); diff != "" {
		t.Fatalf("unexpected provider order (-want +got):\n%s", diff)
	}

	generated, err := chain.Generate(context.Background(), "claude", interfaces.ContentRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if generated.Provider != "gemini" || claude.calls != 0 || openai.calls != 1 {
		t.Fatalf("unexpected fallback: provider=%s openai=%d claude=%d", generated.Provider, openai.calls, claude.calls)
	}
}

func TestChainWithoutProviders(t *testing.T) {
	chain := content.NewChain([]interfaces.ContentProvider{&fakeProvider{name: "openai"}})
	if _, err := chain.Generate(context.Background(), "", interfaces.ContentRequest{}); !errors.Is(err, content.ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}

func TestChainAllProvidersFail(t *testing.T) {
	boom := errors.New("boom")
	chain := content.NewChain([]interfaces.ContentProvider{&fakeProvider{name: "openai", available: true, err: boom}})
	_, err := chain.Generate(context.Background(), "", interfaces.ContentRequest{})
	if !errors.Is(err, content.ErrProviderExhaust) || !errors.Is(err, boom) {
		t.Fatalf("expected exhausted chain wrapping the provider error, got %v", err)
	}
}

func TestStaticProviderCopiesContent(t *testing.T) {
	provider := content.NewStaticProvider("static", interfaces.GeneratedContent{
		Features: []interfaces.GeneratedFeature{{Title: "Fast"}},
	})
	first, err := provider.Generate(context.Background(), interfaces.ContentRequest{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	first.Features[0].Title = "Mutated"
	second, _ := provider.Generate(context.Background(), interfaces.ContentRequest{})
	if second.Features[0].Title != "Fast" {
		t.Fatalf("expected static content to be copied, got %q", second.Features[0].Title)
	}
}
