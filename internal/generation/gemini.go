package generation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.0-flash"

// geminiProvider is the secondary hosted model.
type geminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider builds a client from the GEMINI_API_KEY environment
// variable (read by the SDK itself).
func NewGeminiProvider(ctx context.Context) (Provider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiProvider{client: client}, nil
}

func (p *geminiProvider) Name() string { return ProviderGemini }

func (p *geminiProvider) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	_, err := p.client.Models.GenerateContent(ctx, geminiModel, genai.Text("ping"), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return nil
}

func (p *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GenerateTimeout)
	defer cancel()

	result, err := p.client.Models.GenerateContent(ctx, geminiModel, genai.Text(systemPrompt+"\n\n"+prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderError, err)
	}

	raw := result.Text()
	if raw == "" {
		return "", fmt.Errorf("%w: empty model response", ErrProviderFormat)
	}
	return raw, nil
}
