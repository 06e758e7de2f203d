package ports

import (
	"context"

	"voice-transcriber/internal/domain"
)

// TranscriptionRequest is one recorded clip plus the model to run it through.
type TranscriptionRequest struct {
	Audio    []byte
	MimeType string
	Model    string
	BaseURL  string
}

// TranscriptionGateway turns audio into text.
type TranscriptionGateway interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}

// TransformationRequest carries ordered prompt blocks for a text model.
type TransformationRequest struct {
	Model  string
	Blocks []string
}

// TransformationGateway rewrites text with an LLM.
type TransformationGateway interface {
	Transform(ctx context.Context, req TransformationRequest) (string, error)
}

// ConnectionProber checks that an API key is accepted by a provider.
type ConnectionProber interface {
	Probe(ctx context.Context, provider domain.Provider, apiKey string) error
}

// GatewayResolver returns provider gateways bound to the stored API key.
type GatewayResolver interface {
	Transcriber(provider domain.Provider) (TranscriptionGateway, error)
	Transformer(provider domain.Provider) (TransformationGateway, error)
}

// Clipboard reads and writes system clipboard text and sends a paste keystroke.
type Clipboard interface {
	ReadText(ctx context.Context) (string, error)
	WriteText(ctx context.Context, text string) error
	Paste(ctx context.Context) error
}

// SettingsReader exposes the current settings snapshot.
type SettingsReader interface {
	Get() domain.Settings
}

// HistoryWriter appends terminal job outcomes.
type HistoryWriter interface {
	AppendRecord(record domain.HistoryRecord) error
}

// KeyResolver returns the stored API key for a provider, or "".
type KeyResolver interface {
	APIKey(provider domain.Provider) string
}
