package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"voice-transcriber/internal/atomicfile"
	"voice-transcriber/internal/domain"
)

// Store loads and saves the settings document.
type Store interface {
	Load() (domain.Settings, error)
	Save(domain.Settings) error
}

// JSONStore keeps settings in settings.json. Sections missing from the file
// keep their factory values, so files written before a section existed still load.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store for the settings file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the settings file location.
func (s *JSONStore) Path() string {
	return s.path
}

// Load decodes the settings file over the factory defaults. A missing file
// yields the defaults; an empty or malformed one is an error.
func (s *JSONStore) Load() (domain.Settings, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Settings{}, fmt.Errorf("read %s: file is empty", s.path)
	}

	cfg := DefaultSettings()
	// Presets decode into a fresh slice; reusing the factory slice would leak
	// default prompts into presets that omit them.
	factoryPresets := cfg.Transformation.Presets
	cfg.Transformation.Presets = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return domain.Settings{}, fmt.Errorf("parse %s: trailing data after settings object", s.path)
	}
	if cfg.Transformation.Presets == nil {
		cfg.Transformation.Presets = factoryPresets
	}
	return cfg, nil
}

// Save replaces the settings file atomically.
func (s *JSONStore) Save(cfg domain.Settings) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return atomicfile.WriteFile(s.path, append(data, '\n'), 0o644)
}
