// Package audio enumerates capture devices offered to the recorder.
package audio

import (
	"strings"

	"github.com/rs/zerolog"

	"voice-transcriber/internal/domain"
)

// DefaultSourceID selects whatever device the OS treats as default.
const DefaultSourceID = "system_default"

// DefaultSource is always listed first.
var DefaultSource = domain.AudioInputSource{ID: DefaultSourceID, Label: "System default"}

// Sources lists capture devices through the platform audio backend.
type Sources struct {
	logger    zerolog.Logger
	enumerate func() ([]domain.AudioInputSource, error)
}

// NewSources creates a device lister for the current platform.
func NewSources(logger zerolog.Logger) *Sources {
	return &Sources{logger: logger, enumerate: enumerateDevices}
}

// InputSources returns the default entry followed by every named capture
// device. Backend errors degrade to the default entry alone.
func (s *Sources) InputSources() []domain.AudioInputSource {
	out := []domain.AudioInputSource{DefaultSource}

	devices, err := s.enumerate()
	if err != nil {
		s.logger.Warn().Err(err).Msg("audio device enumeration failed")
		return out
	}

	seen := map[string]struct{}{DefaultSourceID: {}}
	for _, device := range devices {
		id := strings.TrimSpace(device.ID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		label := strings.TrimSpace(device.Label)
		if label == "" {
			label = id
		}
		out = append(out, domain.AudioInputSource{ID: id, Label: label})
	}
	return out
}
