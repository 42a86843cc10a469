package llm

import (
	"github.com/researchagent/backend/internal/models"
)

// CredentialReader is the single credential-store read the resolver performs.
// A nil credential with a nil error means "no row", which is a normal outcome.
type CredentialReader interface {
	GetCredential(userID uint, provider models.Provider) (*models.LLMCredential, error)
}

// Defaults are the process-wide fallback credentials, loaded once from
// configuration at startup
type Defaults struct {
	OpenAIAPIKey  string
	GeminiAPIKey  string
	OllamaBaseURL string
}

// Resolved is the provider/credential tuple a completion call runs with.
// It is built fresh per request and never stored in shared state, so one
// user's key cannot bleed into another user's call.
type Resolved struct {
	Provider models.Provider
	APIKey   string
	BaseURL  string
}

// Resolve decides which provider family handles modelID and which credential
// it uses: the user's stored credential when present, else the process-wide
// default for that provider. Deterministic for a given (modelID, userID,
// store contents, defaults) tuple; the only side effect is one store read.
func Resolve(modelID string, userID uint, store CredentialReader, defaults Defaults) (Resolved, error) {
	provider := ProviderForModel(modelID)
	resolved := Resolved{Provider: provider}

	cred, err := store.GetCredential(userID, provider)
	if err != nil {
		return Resolved{}, err
	}

	switch provider {
	case models.ProviderGemini:
		if cred != nil {
			resolved.APIKey = cred.APIKey
		} else {
			resolved.APIKey = defaults.GeminiAPIKey
		}
	case models.ProviderOllama:
		if cred != nil && cred.BaseURL != "" {
			resolved.BaseURL = cred.BaseURL
		} else {
			resolved.BaseURL = defaults.OllamaBaseURL
		}
	default:
		if cred != nil {
			resolved.APIKey = cred.APIKey
		} else {
			resolved.APIKey = defaults.OpenAIAPIKey
		}
	}

	return resolved, nil
}
