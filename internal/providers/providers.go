// Package providers implements the speech and language gateways for each
// supported vendor and resolves them by provider id.
package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/ports"
)

// Default API roots. Settings may override the transcription root.
const (
	DefaultGroqBaseURL       = "https://api.groq.com/openai/v1"
	DefaultElevenLabsBaseURL = "https://api.elevenlabs.io"
)

// ErrMissingAPIKey is returned when no key is stored for the requested provider.
var ErrMissingAPIKey = errors.New("no API key configured")

const requestTimeout = 2 * time.Minute

// Registry hands out gateways bound to the currently stored API keys.
type Registry struct {
	keys       ports.KeyResolver
	logger     zerolog.Logger
	httpClient *http.Client

	// baseURLs overrides the vendor API roots; empty entries use the defaults.
	baseURLs map[domain.Provider]string
}

// NewRegistry creates a registry reading keys from keys on every lookup.
func NewRegistry(keys ports.KeyResolver, logger zerolog.Logger) *Registry {
	return &Registry{
		keys:       keys,
		logger:     logger,
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURLs:   map[domain.Provider]string{},
	}
}

// Transcriber returns the speech-to-text gateway for provider.
func (r *Registry) Transcriber(provider domain.Provider) (ports.TranscriptionGateway, error) {
	key, err := r.key(provider)
	if err != nil {
		return nil, err
	}

	switch provider {
	case domain.ProviderGroq:
		return newGroq(key, r.baseURL(provider), r.httpClient), nil
	case domain.ProviderElevenLabs:
		return newElevenLabs(key, r.baseURL(provider), r.httpClient), nil
	case domain.ProviderGoogle:
		return newGoogle(key, r.baseURL(provider), r.httpClient), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}

// Transformer returns the text generation gateway for provider.
func (r *Registry) Transformer(provider domain.Provider) (ports.TransformationGateway, error) {
	if !provider.SupportsTransformation() {
		return nil, fmt.Errorf("provider %q cannot run transformations", provider)
	}
	key, err := r.key(provider)
	if err != nil {
		return nil, err
	}

	if provider == domain.ProviderGroq {
		return newGroq(key, r.baseURL(provider), r.httpClient), nil
	}
	return newGoogle(key, r.baseURL(provider), r.httpClient), nil
}

// Probe performs the cheapest authenticated call each vendor offers.
func (r *Registry) Probe(ctx context.Context, provider domain.Provider, apiKey string) error {
	var err error
	switch provider {
	case domain.ProviderGroq:
		err = newGroq(apiKey, r.baseURL(provider), r.httpClient).probe(ctx)
	case domain.ProviderElevenLabs:
		err = newElevenLabs(apiKey, r.baseURL(provider), r.httpClient).probe(ctx)
	case domain.ProviderGoogle:
		err = newGoogle(apiKey, r.baseURL(provider), r.httpClient).probe(ctx)
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	if err != nil {
		r.logger.Debug().Err(err).Str("provider", string(provider)).Msg("probe failed")
		return &domain.GatewayError{Category: domain.GatewayCategoryProbe, Provider: provider, Err: err}
	}
	return nil
}

func (r *Registry) key(provider domain.Provider) (string, error) {
	if !provider.Valid() {
		return "", fmt.Errorf("unknown provider %q", provider)
	}
	key := r.keys.APIKey(provider)
	if key == "" {
		return "", fmt.Errorf("%s: %w", provider, ErrMissingAPIKey)
	}
	return key, nil
}

func (r *Registry) baseURL(provider domain.Provider) string {
	return r.baseURLs[provider]
}

func pick(override, fallback string) string {
	if trimmed := strings.TrimRight(strings.TrimSpace(override), "/"); trimmed != "" {
		return trimmed
	}
	return fallback
}

// audioFilename derives an upload name from a MIME type such as audio/webm;codecs=opus.
func audioFilename(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	_, sub, ok := strings.Cut(strings.TrimSpace(base), "/")
	if !ok || sub == "" {
		return "audio.webm"
	}
	sub = strings.TrimPrefix(sub, "x-")
	if sub == "mpeg" {
		sub = "mp3"
	}
	return "audio." + sub
}

// statusError turns a non-2xx response into an error carrying the vendor message.
func statusError(vendor string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return fmt.Errorf("%s API error %d", vendor, resp.StatusCode)
	}
	return fmt.Errorf("%s API error %d: %s", vendor, resp.StatusCode, detail)
}

var (
	_ ports.GatewayResolver  = (*Registry)(nil)
	_ ports.ConnectionProber = (*Registry)(nil)
)
