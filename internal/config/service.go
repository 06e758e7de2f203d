package config

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voice-transcriber/internal/domain"
)

// ErrPresetNotFound is returned when a preset id does not exist.
var ErrPresetNotFound = errors.New("preset not found")

// Service owns the current settings snapshot and serializes every write.
type Service struct {
	store  Store
	logger zerolog.Logger
	newID  func() string

	mu      sync.RWMutex
	current domain.Settings
}

// NewService loads persisted settings, falling back to defaults when the file
// is unreadable or violates an invariant. The file is left untouched until
// the next successful write.
func NewService(store Store, logger zerolog.Logger) *Service {
	s := &Service{store: store, logger: logger, newID: uuid.NewString}

	loaded, err := store.Load()
	if err != nil {
		logger.Warn().Err(err).Msg("settings unreadable, using defaults")
		loaded = DefaultSettings()
	}
	loaded = Normalize(loaded)
	if err := Validate(loaded); err != nil {
		logger.Warn().Err(err).Msg("settings invalid, using defaults")
		loaded = DefaultSettings()
	}
	s.current = loaded
	return s
}

// Get returns a deep copy of the current settings.
func (s *Service) Get() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Set validates and persists next. On error the prior settings stay active.
func (s *Service) Set(next domain.Settings) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(next)
}

// RestoreDefaults replaces the whole configuration with factory defaults.
func (s *Service) RestoreDefaults() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(DefaultSettings())
}

// AddPreset appends preset, generating an id when empty.
func (s *Service) AddPreset(preset domain.TransformationPreset) (domain.Settings, error) {
	return s.mutate(func(next *domain.Settings) error {
		if preset.ID == "" {
			preset.ID = s.newID()
		}
		next.Transformation.Presets = append(next.Transformation.Presets, preset)
		return nil
	})
}

// UpdatePreset replaces the preset with the same id.
func (s *Service) UpdatePreset(preset domain.TransformationPreset) (domain.Settings, error) {
	return s.mutate(func(next *domain.Settings) error {
		idx := presetIndex(next.Transformation.Presets, preset.ID)
		if idx < 0 {
			return fmt.Errorf("update preset %q: %w", preset.ID, ErrPresetNotFound)
		}
		next.Transformation.Presets[idx] = preset
		return nil
	})
}

// DeletePreset removes a preset. Deleting the active preset activates its
// neighbour; deleting the last preset is rejected.
func (s *Service) DeletePreset(id string) (domain.Settings, error) {
	return s.mutate(func(next *domain.Settings) error {
		presets := next.Transformation.Presets
		idx := presetIndex(presets, id)
		if idx < 0 {
			return fmt.Errorf("delete preset %q: %w", id, ErrPresetNotFound)
		}
		if len(presets) == 1 {
			return domain.NewValidationError("transformation.presets", "cannot delete the last remaining preset")
		}

		remaining := slices.Delete(presets, idx, idx+1)
		next.Transformation.Presets = remaining
		if next.Transformation.ActivePresetID == id {
			next.Transformation.ActivePresetID = remaining[min(idx, len(remaining)-1)].ID
		}
		return nil
	})
}

// SetActivePreset marks id as the active preset.
func (s *Service) SetActivePreset(id string) (domain.Settings, error) {
	return s.mutate(func(next *domain.Settings) error {
		if presetIndex(next.Transformation.Presets, id) < 0 {
			return fmt.Errorf("activate preset %q: %w", id, ErrPresetNotFound)
		}
		next.Transformation.ActivePresetID = id
		return nil
	})
}

// mutate applies fn to a private copy and commits it only if it validates.
func (s *Service) mutate(fn func(next *domain.Settings) error) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	if err := fn(&next); err != nil {
		return domain.Settings{}, err
	}
	return s.commitLocked(next)
}

func (s *Service) commitLocked(next domain.Settings) (domain.Settings, error) {
	normalized := Normalize(next)
	if err := Validate(normalized); err != nil {
		return domain.Settings{}, err
	}
	if err := s.store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.current = normalized
	s.logger.Debug().
		Str("provider", string(normalized.Transcription.Provider)).
		Int("presets", len(normalized.Transformation.Presets)).
		Msg("settings saved")
	return normalized.Clone(), nil
}

func presetIndex(presets []domain.TransformationPreset, id string) int {
	return slices.IndexFunc(presets, func(p domain.TransformationPreset) bool { return p.ID == id })
}
