//go:build !linux && !cgo

package audio

import (
	"errors"

	"voice-transcriber/internal/domain"
)

func enumerateDevices() ([]domain.AudioInputSource, error) {
	return nil, errors.New("device enumeration requires cgo on this platform")
}
