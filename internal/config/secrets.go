package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"voice-transcriber/internal/atomicfile"
	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/ports"
)

// envKeys maps providers to the environment variable consulted when no key is stored.
var envKeys = map[domain.Provider]string{
	domain.ProviderGroq:       "GROQ_API_KEY",
	domain.ProviderElevenLabs: "ELEVENLABS_API_KEY",
	domain.ProviderGoogle:     "GOOGLE_API_KEY",
}

// EnvKey returns the fallback environment variable for provider.
func EnvKey(provider domain.Provider) string {
	return envKeys[provider]
}

// SecretStore keeps provider API keys in a 0600 JSON file. Keys never appear
// in settings.json or logs.
type SecretStore struct {
	path   string
	logger zerolog.Logger
	getenv func(string) string

	mu   sync.RWMutex
	keys map[domain.Provider]string
}

// NewSecretStore loads stored keys from path. A missing or malformed file
// yields an empty store; a malformed file stays on disk until the next
// SetAPIKey replaces it.
func NewSecretStore(path string, logger zerolog.Logger) (*SecretStore, error) {
	s := &SecretStore{
		path:   path,
		logger: logger,
		getenv: os.Getenv,
		keys:   map[domain.Provider]string{},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read secrets: %w", err)
	}
	var keys map[domain.Provider]string
	if err := json.Unmarshal(data, &keys); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("ignoring unreadable secrets file, api keys must be re-entered")
		return s, nil
	}
	for provider, key := range keys {
		s.keys[provider] = key
	}
	return s, nil
}

// APIKey returns the stored key for provider, falling back to its env var.
func (s *SecretStore) APIKey(provider domain.Provider) string {
	s.mu.RLock()
	key := s.keys[provider]
	s.mu.RUnlock()
	if key != "" {
		return key
	}
	if name := envKeys[provider]; name != "" {
		return strings.TrimSpace(s.getenv(name))
	}
	return ""
}

// SetAPIKey stores key for provider. An empty key removes the entry.
func (s *SecretStore) SetAPIKey(provider domain.Provider, key string) error {
	if !provider.Valid() {
		return domain.NewValidationError("provider", "unknown provider %q", provider)
	}
	key = strings.TrimSpace(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[domain.Provider]string, len(s.keys)+1)
	for p, k := range s.keys {
		next[p] = k
	}
	if key == "" {
		delete(next, provider)
	} else {
		next[provider] = key
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("save secrets: %w", err)
	}

	s.keys = next
	s.logger.Info().Str("provider", string(provider)).Bool("cleared", key == "").Msg("api key updated")
	return nil
}

// Status reports which providers have a usable key.
func (s *SecretStore) Status() domain.ApiKeyStatus {
	return domain.ApiKeyStatus{
		Groq:       s.APIKey(domain.ProviderGroq) != "",
		ElevenLabs: s.APIKey(domain.ProviderElevenLabs) != "",
		Google:     s.APIKey(domain.ProviderGoogle) != "",
	}
}

// TestConnection probes provider with candidate, or with the stored key when
// candidate is empty. The candidate is never persisted.
func (s *SecretStore) TestConnection(ctx context.Context, prober ports.ConnectionProber, provider domain.Provider, candidate string) domain.ApiKeyConnectionResult {
	result := domain.ApiKeyConnectionResult{Provider: provider, Status: domain.ConnectionStatusFailed}
	if !provider.Valid() {
		result.Message = fmt.Sprintf("Unknown provider %q.", provider)
		return result
	}

	key := strings.TrimSpace(candidate)
	if key == "" {
		key = s.APIKey(provider)
	}
	if key == "" {
		result.Message = "No API key provided."
		return result
	}

	if err := prober.Probe(ctx, provider, key); err != nil {
		s.logger.Warn().Err(err).Str("provider", string(provider)).Msg("api key probe failed")
		result.Message = err.Error()
		return result
	}

	result.Status = domain.ConnectionStatusSuccess
	result.Message = "Connection succeeded."
	return result
}
