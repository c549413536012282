package generation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func completionResponse(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(b)
}

func TestOpenRouterProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("GenerateSuccess", func(t *testing.T) {
		var got chatCompletionRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected Authorization header %q", auth)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(completionResponse(`[{"id":"q1"}]`)))
		}))
		defer srv.Close()

		p := newOpenRouterProvider(srv.URL, "test-key", "qwen/qwen2.5-7b-instruct")
		out, err := p.Generate(ctx, "Generate 3 multiple-choice quiz questions.")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if out != `[{"id":"q1"}]` {
			t.Errorf("unexpected content: %q", out)
		}

		if got.Model != "qwen/qwen2.5-7b-instruct" {
			t.Errorf("unexpected model %q", got.Model)
		}
		if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
			t.Errorf("expected system+user messages, got %+v", got.Messages)
		}
		if got.Temperature != 0.3 {
			t.Errorf("unexpected temperature %v", got.Temperature)
		}
	})

	t.Run("ProbeSuccess", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completionResponse("pong")))
		}))
		defer srv.Close()

		p := newOpenRouterProvider(srv.URL, "test-key", openRouterModel)
		if err := p.Probe(ctx); err != nil {
			t.Fatalf("Probe failed: %v", err)
		}
	})

	t.Run("HTTPErrorStatus", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
		}))
		defer srv.Close()

		p := newOpenRouterProvider(srv.URL, "bad-key", openRouterModel)
		_, err := p.Generate(ctx, "prompt")
		if !errors.Is(err, ErrProviderError) {
			t.Fatalf("expected ErrProviderError, got %v", err)
		}
		if !strings.Contains(err.Error(), "401") {
			t.Errorf("error should carry the status code: %v", err)
		}
	})

	t.Run("MalformedResponseBody", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway</html>"))
		}))
		defer srv.Close()

		p := newOpenRouterProvider(srv.URL, "test-key", openRouterModel)
		_, err := p.Generate(ctx, "prompt")
		if !errors.Is(err, ErrProviderFormat) {
			t.Fatalf("expected ErrProviderFormat, got %v", err)
		}
	})

	t.Run("EmptyChoices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices": []}`))
		}))
		defer srv.Close()

		p := newOpenRouterProvider(srv.URL, "test-key", openRouterModel)
		_, err := p.Generate(ctx, "prompt")
		if !errors.Is(err, ErrProviderFormat) {
			t.Fatalf("expected ErrProviderFormat, got %v", err)
		}
	})

	t.Run("UnreachableEndpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		p := newOpenRouterProvider(srv.URL, "test-key", openRouterModel)
		if err := p.Probe(ctx); !errors.Is(err, ErrProviderUnavailable) {
			t.Fatalf("expected ErrProviderUnavailable, got %v", err)
		}
	})
}
