package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/newsnow/internal/metrics"
)

func TestOpenAIBackend_Generate(t *testing.T) {
	var gotAuth, gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-3.5-turbo",
"choices":[{"index":0,"message":{"role":"assistant","content":" Szia világ "},"finish_reason":"stop"}],
"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	backend := newOpenAIBackend("sk-test", "", srv.URL+"/v1")
	out, err := backend.Generate(context.Background(), "Translate: Hello world")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if out != "Szia világ" {
		t.Errorf("Expected trimmed answer, got %q", out)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Expected bearer credential, got %q", gotAuth)
	}
	if gotModel != DefaultOpenAIModel {
		t.Errorf("Expected default model, got %q", gotModel)
	}
}

func TestService_OpenAIServerErrorBecomesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	factory, err := NewBackendFactory(ProviderOpenAI, "", srv.URL+"/v1")
	if err != nil {
		t.Fatalf("Expected factory, got: %v", err)
	}
	s := NewService(factory, Options{Timeout: 5 * time.Second}, nil, nil)
	s.metrics = metrics.New()

	res := s.TransformText(context.Background(), "Headline", ModeTranslate, "sk-wrong")

	if res.IsDemo {
		t.Error("Expected non-demo result")
	}
	if !strings.HasPrefix(res.Text, "Error: ") || !strings.Contains(res.Text, "Incorrect API key") {
		t.Errorf("Expected API error text, got %q", res.Text)
	}
}

func TestNewBackendFactory_UnknownProvider(t *testing.T) {
	if _, err := NewBackendFactory("llama", "", ""); err == nil {
		t.Error("Expected error for unknown provider")
	}
}
