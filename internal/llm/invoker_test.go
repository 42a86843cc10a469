package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/researchagent/backend/internal/llm"
	"github.com/researchagent/backend/internal/models"
)

type capturedRequest struct {
	Authorization string
	Model         string   `json:"model"`
	Temperature   *float64 `json:"temperature"`
	TopP          *float64 `json:"top_p"`
	MaxTokens     int      `json:"max_tokens"`
	Messages      []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// fakeCompletionServer captures chat completion requests and replies with a
// fixed assistant message
func fakeCompletionServer(t *testing.T, capture *[]capturedRequest, mu *sync.Mutex) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req capturedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode upstream request: %v", err)
		}
		req.Authorization = r.Header.Get("Authorization")

		mu.Lock()
		*capture = append(*capture, req)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-test",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
}

// TestCompleteSendsMergedParams tests that unset generation parameters take
// the system defaults on the wire
func TestCompleteSendsMergedParams(t *testing.T) {
	var captured []capturedRequest
	var mu sync.Mutex
	server := fakeCompletionServer(t, &captured, &mu)
	defer server.Close()

	invoker := &llm.ClientInvoker{BaseURLOverride: server.URL}
	cred := llm.Resolved{Provider: models.ProviderOpenAI, APIKey: "test-key"}

	completion, err := invoker.Complete(context.Background(), "gpt-4",
		[]llm.TurnMessage{{Role: "user", Content: "Hi"}},
		llm.GenerationParams{}, cred)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if completion.Content != "Hello there" {
		t.Errorf("Expected completion content, got %q", completion.Content)
	}
	if completion.TotalTokens != 15 {
		t.Errorf("Expected 15 total tokens, got %d", completion.TotalTokens)
	}

	if len(captured) != 1 {
		t.Fatalf("Expected 1 upstream request, got %d", len(captured))
	}
	req := captured[0]
	if req.Model != "gpt-4" {
		t.Errorf("Expected model gpt-4, got %q", req.Model)
	}
	if req.Authorization != "Bearer test-key" {
		t.Errorf("Expected bearer auth with test-key, got %q", req.Authorization)
	}
	if req.Temperature == nil || *req.Temperature != llm.DefaultTemperature {
		t.Errorf("Expected default temperature %v, got %v", llm.DefaultTemperature, req.Temperature)
	}
	if req.TopP == nil || *req.TopP != llm.DefaultTopP {
		t.Errorf("Expected default top_p %v, got %v", llm.DefaultTopP, req.TopP)
	}
	if req.MaxTokens != llm.DefaultMaxTokens {
		t.Errorf("Expected default max_tokens %d, got %d", llm.DefaultMaxTokens, req.MaxTokens)
	}
}

// TestCompleteSendsExplicitParams tests that set parameters pass through
// instead of the defaults
func TestCompleteSendsExplicitParams(t *testing.T) {
	var captured []capturedRequest
	var mu sync.Mutex
	server := fakeCompletionServer(t, &captured, &mu)
	defer server.Close()

	invoker := &llm.ClientInvoker{BaseURLOverride: server.URL}
	cred := llm.Resolved{Provider: models.ProviderOpenAI, APIKey: "test-key"}

	temperature := 0.2
	maxTokens := 512
	_, err := invoker.Complete(context.Background(), "gpt-4",
		[]llm.TurnMessage{{Role: "user", Content: "Hi"}},
		llm.GenerationParams{Temperature: &temperature, MaxTokens: &maxTokens}, cred)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	req := captured[0]
	if req.Temperature == nil || *req.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", req.Temperature)
	}
	if req.MaxTokens != 512 {
		t.Errorf("Expected max_tokens 512, got %d", req.MaxTokens)
	}
}

// TestCompleteSendsZeroTemperature tests that an explicit temperature of 0
// stays on the wire instead of being dropped for the provider default
func TestCompleteSendsZeroTemperature(t *testing.T) {
	var captured []capturedRequest
	var mu sync.Mutex
	server := fakeCompletionServer(t, &captured, &mu)
	defer server.Close()

	invoker := &llm.ClientInvoker{BaseURLOverride: server.URL}
	cred := llm.Resolved{Provider: models.ProviderOpenAI, APIKey: "test-key"}

	zero := 0.0
	_, err := invoker.Complete(context.Background(), "gpt-4",
		[]llm.TurnMessage{{Role: "user", Content: "Hi"}},
		llm.GenerationParams{Temperature: &zero, TopP: &zero}, cred)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	req := captured[0]
	if req.Temperature == nil {
		t.Fatal("Expected temperature 0 to be present on the wire")
	}
	if *req.Temperature >= 0.001 {
		t.Errorf("Expected near-zero temperature, got %v", *req.Temperature)
	}
	if req.TopP == nil {
		t.Fatal("Expected top_p 0 to be present on the wire")
	}
	if *req.TopP >= 0.001 {
		t.Errorf("Expected near-zero top_p, got %v", *req.TopP)
	}
}

// TestCompletePerCallCredentials tests that concurrent calls each carry
// their own key
func TestCompletePerCallCredentials(t *testing.T) {
	var captured []capturedRequest
	var mu sync.Mutex
	server := fakeCompletionServer(t, &captured, &mu)
	defer server.Close()

	invoker := &llm.ClientInvoker{BaseURLOverride: server.URL}
	messages := []llm.TurnMessage{{Role: "user", Content: "Hi"}}

	var wg sync.WaitGroup
	keys := []string{"key-alice", "key-bob", "key-carol"}
	for _, key := range keys {
		wg.Add(1)
		go func(apiKey string) {
			defer wg.Done()
			cred := llm.Resolved{Provider: models.ProviderOpenAI, APIKey: apiKey}
			if _, err := invoker.Complete(context.Background(), "gpt-4", messages, llm.GenerationParams{}, cred); err != nil {
				t.Errorf("Complete with %s failed: %v", apiKey, err)
			}
		}(key)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, req := range captured {
		seen[req.Authorization] = true
	}
	for _, key := range keys {
		if !seen["Bearer "+key] {
			t.Errorf("Expected an upstream request authorized with %s", key)
		}
	}
}

// TestCompleteNoChoices tests that an empty choice list is an error
func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "chatcmpl-test", "object": "chat.completion", "choices": []}`))
	}))
	defer server.Close()

	invoker := &llm.ClientInvoker{BaseURLOverride: server.URL}
	cred := llm.Resolved{Provider: models.ProviderOpenAI, APIKey: "test-key"}

	_, err := invoker.Complete(context.Background(), "gpt-4",
		[]llm.TurnMessage{{Role: "user", Content: "Hi"}},
		llm.GenerationParams{}, cred)
	if err == nil {
		t.Error("Expected error for empty choices, got nil")
	}
}
