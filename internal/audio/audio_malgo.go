//go:build !linux && cgo

package audio

import (
	"encoding/hex"
	"fmt"

	"github.com/gen2brain/malgo"

	"voice-transcriber/internal/domain"
)

func enumerateDevices() ([]domain.AudioInputSource, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("malgo init: %w", err)
	}
	defer func() {
		ctx.Uninit()
		ctx.Free()
	}()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	devices := make([]domain.AudioInputSource, 0, len(infos))
	for _, d := range infos {
		devices = append(devices, domain.AudioInputSource{
			ID:    hex.EncodeToString(d.ID[:]),
			Label: d.Name(),
		})
	}
	return devices, nil
}
