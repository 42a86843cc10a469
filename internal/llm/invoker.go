package llm

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/researchagent/backend/internal/models"
)

// System defaults applied for generation parameters the dialog does not set
const (
	DefaultTemperature      = 0.7
	DefaultTopP             = 0.9
	DefaultPresencePenalty  = 0.0
	DefaultFrequencyPenalty = 0.0
	DefaultMaxTokens        = 2000
)

// geminiOpenAIBase is Google's OpenAI-compatible endpoint for Gemini models
const geminiOpenAIBase = "https://generativelanguage.googleapis.com/v1beta/openai/"

// GenerationParams are a dialog's sampling controls. Nil fields take the
// system default at merge time; set fields pass through unvalidated.
type GenerationParams struct {
	Temperature      *float64
	TopP             *float64
	PresencePenalty  *float64
	FrequencyPenalty *float64
	MaxTokens        *int
}

// merged holds the effective values for one completion call
type merged struct {
	temperature      float64
	topP             float64
	presencePenalty  float64
	frequencyPenalty float64
	maxTokens        int
}

func (p GenerationParams) merge() merged {
	m := merged{
		temperature:      DefaultTemperature,
		topP:             DefaultTopP,
		presencePenalty:  DefaultPresencePenalty,
		frequencyPenalty: DefaultFrequencyPenalty,
		maxTokens:        DefaultMaxTokens,
	}
	if p.Temperature != nil {
		m.temperature = *p.Temperature
	}
	if p.TopP != nil {
		m.topP = *p.TopP
	}
	if p.PresencePenalty != nil {
		m.presencePenalty = *p.PresencePenalty
	}
	if p.FrequencyPenalty != nil {
		m.frequencyPenalty = *p.FrequencyPenalty
	}
	if p.MaxTokens != nil {
		m.maxTokens = *p.MaxTokens
	}
	return m
}

// sampled converts a sampling value for the request. The request struct
// marshals zero-valued sampling fields as absent, letting the provider
// substitute its own default; an exact 0 is therefore sent as the smallest
// representable value so it stays on the wire.
func sampled(v float64) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(v)
}

// TurnMessage is one role-tagged entry of the transcript sent upstream
type TurnMessage struct {
	Role    string
	Content string
}

// Completion is the raw provider response handed back for persistence
type Completion struct {
	Role             string
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Invoker issues single non-streaming completion calls
type Invoker interface {
	Complete(ctx context.Context, modelID string, messages []TurnMessage, params GenerationParams, cred Resolved) (*Completion, error)
}

// ClientInvoker calls the upstream completion services through per-call
// OpenAI-compatible clients. BaseURLOverride, when set, routes every call to
// that endpoint regardless of provider (used by tests).
type ClientInvoker struct {
	BaseURLOverride string
}

// Complete issues exactly one synchronous completion request. The resolved
// credential is baked into a client created for this call only; no process
// state is mutated, so concurrent calls for different users cannot observe
// each other's keys. Upstream failures are logged and returned verbatim,
// with no retries and no translation.
func (inv *ClientInvoker) Complete(ctx context.Context, modelID string, messages []TurnMessage, params GenerationParams, cred Resolved) (*Completion, error) {
	clientCfg := openai.DefaultConfig(cred.APIKey)
	switch {
	case inv.BaseURLOverride != "":
		clientCfg.BaseURL = inv.BaseURLOverride
	case cred.Provider == models.ProviderGemini:
		clientCfg.BaseURL = geminiOpenAIBase
	case cred.Provider == models.ProviderOllama:
		clientCfg.BaseURL = strings.TrimSuffix(cred.BaseURL, "/") + "/v1"
	}
	client := openai.NewClientWithConfig(clientCfg)

	m := params.merge()
	req := openai.ChatCompletionRequest{
		Model:            modelID,
		Messages:         make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature:      sampled(m.temperature),
		TopP:             sampled(m.topP),
		PresencePenalty:  float32(m.presencePenalty),
		FrequencyPenalty: float32(m.frequencyPenalty),
		MaxTokens:        m.maxTokens,
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("LLM call error: model=%s provider=%s: %v", modelID, cred.Provider, err)
		return nil, err
	}
	if len(resp.Choices) == 0 {
		err := fmt.Errorf("completion returned no choices for model %s", modelID)
		log.Printf("LLM call error: %v", err)
		return nil, err
	}

	choice := resp.Choices[0]
	return &Completion{
		Role:             choice.Message.Role,
		Content:          choice.Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}, nil
}
