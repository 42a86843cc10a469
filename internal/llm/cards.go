package llm

// ModelCard describes one selectable model for the settings UI
type ModelCard struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ModelCards is the static per-provider model catalog
var ModelCards = map[string][]ModelCard{
	"openai": {
		{ID: "gpt-4", Name: "GPT-4", Description: "Most capable model, best for complex tasks"},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Faster and cheaper than GPT-4"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast and cost-effective"},
		{ID: "gpt-4o", Name: "GPT-4o", Description: "Optimized GPT-4 variant"},
	},
	"gemini": {
		{ID: "gemini-pro", Name: "Gemini Pro", Description: "Google's advanced model"},
		{ID: "gemini-pro-vision", Name: "Gemini Pro Vision", Description: "Multimodal with vision"},
		{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Description: "Latest Gemini model"},
		{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Description: "Faster Gemini variant"},
	},
	"ollama": {
		{ID: "llama2", Name: "Llama 2", Description: "Meta's open-source model"},
		{ID: "llama3", Name: "Llama 3", Description: "Latest Llama model"},
		{ID: "mistral", Name: "Mistral", Description: "High-performance open model"},
		{ID: "codellama", Name: "Code Llama", Description: "Specialized for code"},
		{ID: "phi", Name: "Phi", Description: "Microsoft's efficient model"},
	},
}
