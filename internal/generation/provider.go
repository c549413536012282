package generation

import (
	"context"
	"errors"
	"time"
)

// Provider failure classes. The orchestrator maps every one of them to the
// fallback path; nothing here is surfaced to the end user.
var (
	// ErrProviderUnavailable covers connectivity failures and timeouts.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrProviderError covers non-success responses from the provider API.
	ErrProviderError = errors.New("provider returned an error")
	// ErrProviderFormat covers responses missing the expected content field.
	ErrProviderFormat = errors.New("provider response has unexpected format")
)

const (
	// ProbeTimeout bounds the fast liveness check performed before the
	// full generation call.
	ProbeTimeout = 5 * time.Second
	// GenerateTimeout bounds the full generation call; model calls are
	// long-running.
	GenerateTimeout = 180 * time.Second
)

// Provider is the capability contract for a generation backend. Adding a
// provider means adding one implementation, not touching callers.
type Provider interface {
	Name() string
	// Probe is a fast liveness check so a dead provider fails the
	// pipeline over to fallback quickly.
	Probe(ctx context.Context) error
	// Generate sends the prompt and returns the raw model output text.
	// No retries at this layer; retry/fallback policy belongs to the
	// orchestrator.
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	ProviderQwen   = "qwen"
	ProviderGemini = "gemini"
	ProviderLocal  = "local"
)

// SelectProvider resolves a provider id to an implementation. Unknown ids
// resolve to the primary hosted model.
func SelectProvider(ctx context.Context, id string) Provider {
	switch id {
	case ProviderGemini:
		if p, err := NewGeminiProvider(ctx); err == nil {
			return p
		}
		// A Gemini client that cannot even be constructed is treated
		// like any other dead provider: probe will fail and the
		// pipeline falls back.
		return unavailableProvider{name: ProviderGemini}
	case ProviderLocal:
		return NewLocalProvider()
	default:
		return NewOpenRouterProvider()
	}
}

type unavailableProvider struct{ name string }

func (u unavailableProvider) Name() string { return u.name }

func (u unavailableProvider) Probe(ctx context.Context) error { return ErrProviderUnavailable }

func (u unavailableProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrProviderUnavailable
}
