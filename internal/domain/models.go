package domain

// Capability names what a catalog model can be used for.
type Capability string

const (
	CapabilityTranscription  Capability = "transcription"
	CapabilityTransformation Capability = "transformation"
)

// ModelOption describes one selectable provider model.
type ModelOption struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Provider    Provider   `json:"provider"`
	Capability  Capability `json:"capability"`
	Description string     `json:"description,omitempty"`
	Default     bool       `json:"default,omitempty"`
}

var modelCatalog = []ModelOption{
	{ID: "whisper-large-v3-turbo", Name: "Whisper Large v3 Turbo", Provider: ProviderGroq, Capability: CapabilityTranscription, Description: "Fast multilingual transcription.", Default: true},
	{ID: "whisper-large-v3", Name: "Whisper Large v3", Provider: ProviderGroq, Capability: CapabilityTranscription, Description: "Highest accuracy Whisper on Groq."},
	{ID: "distil-whisper-large-v3-en", Name: "Distil Whisper (English)", Provider: ProviderGroq, Capability: CapabilityTranscription, Description: "English-only, lowest latency."},
	{ID: "scribe_v1", Name: "Scribe v1", Provider: ProviderElevenLabs, Capability: CapabilityTranscription, Description: "ElevenLabs speech-to-text.", Default: true},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: ProviderGoogle, Capability: CapabilityTranscription, Description: "Audio understanding via Gemini.", Default: true},
	{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: ProviderGoogle, Capability: CapabilityTransformation, Description: "Fast general-purpose rewriting.", Default: true},
	{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: ProviderGoogle, Capability: CapabilityTransformation, Description: "Slower, higher quality rewriting."},
	{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", Provider: ProviderGroq, Capability: CapabilityTransformation, Description: "Low latency rewriting on Groq.", Default: true},
	{ID: "openai/gpt-oss-120b", Name: "GPT-OSS 120B", Provider: ProviderGroq, Capability: CapabilityTransformation, Description: "Open-weight reasoning model on Groq."},
}

// ModelCatalog returns a copy of all known provider models.
func ModelCatalog() []ModelOption {
	return append([]ModelOption(nil), modelCatalog...)
}

// DefaultModel returns the default model id for a provider capability, or "".
func DefaultModel(provider Provider, capability Capability) string {
	for _, option := range modelCatalog {
		if option.Provider == provider && option.Capability == capability && option.Default {
			return option.ID
		}
	}
	return ""
}
