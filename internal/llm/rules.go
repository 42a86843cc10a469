package llm

import (
	"strings"

	"github.com/researchagent/backend/internal/models"
)

// prefixRule maps a set of model-identifier prefixes to a provider
type prefixRule struct {
	prefixes []string
	provider models.Provider
}

// providerRules is evaluated in order, first match wins. The ordering is a
// contract: "gemini-phi" is gemini, not ollama. Identifiers matching no rule
// (including the empty string) fall through to openai.
var providerRules = []prefixRule{
	{prefixes: []string{"gemini", "google"}, provider: models.ProviderGemini},
	{prefixes: []string{"ollama", "llama", "mistral", "codellama", "phi"}, provider: models.ProviderOllama},
}

// ProviderForModel maps a free-form model identifier to the provider family
// that handles it
func ProviderForModel(modelID string) models.Provider {
	for _, rule := range providerRules {
		for _, prefix := range rule.prefixes {
			if strings.HasPrefix(modelID, prefix) {
				return rule.provider
			}
		}
	}
	return models.ProviderOpenAI
}
