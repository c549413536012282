package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/quiznest/quiznest-lambda/internal/config"
)

const openRouterModel = "qwen/qwen2.5-7b-instruct"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// openRouterProvider is the primary hosted model: Qwen behind the OpenRouter
// chat-completion API.
type openRouterProvider struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewOpenRouterProvider() Provider {
	return newOpenRouterProvider(config.OpenRouterURL(), config.OpenRouterAPIKey(), openRouterModel)
}

func newOpenRouterProvider(url, apiKey, model string) *openRouterProvider {
	return &openRouterProvider{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
	}
}

func (p *openRouterProvider) Name() string { return ProviderQwen }

// Probe issues a minimal single-token completion so a dead or misconfigured
// endpoint is detected before committing to the long generation call.
func (p *openRouterProvider) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	_, err := p.send(ctx, chatCompletionRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: "ping"}},
		Temperature: 0,
	})
	return err
}

func (p *openRouterProvider) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, GenerateTimeout)
	defer cancel()

	return p.send(ctx, chatCompletionRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
	})
}

func (p *openRouterProvider) send(ctx context.Context, payload chatCompletionRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderError, err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", config.Env("APP_URL", "https://quiznest.app"))
	req.Header.Set("X-Title", "QuizNest")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request timed out", ErrProviderUnavailable)
		}
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", ErrProviderError, resp.StatusCode, string(raw))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderFormat, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: missing message content", ErrProviderFormat)
	}

	return parsed.Choices[0].Message.Content, nil
}
