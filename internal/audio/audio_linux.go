//go:build linux

package audio

import (
	"fmt"

	"github.com/jfreymuth/pulse"

	"voice-transcriber/internal/domain"
)

func enumerateDevices() ([]domain.AudioInputSource, error) {
	client, err := pulse.NewClient()
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	defer client.Close()

	sources, err := client.ListSources()
	if err != nil {
		return nil, fmt.Errorf("pulse list sources: %w", err)
	}
	devices := make([]domain.AudioInputSource, 0, len(sources))
	for _, s := range sources {
		devices = append(devices, domain.AudioInputSource{ID: s.ID(), Label: s.Name()})
	}
	return devices, nil
}
