//go:build !darwin && !linux && !windows

package native

import (
	"voice-transcriber/internal/hotkeys"
	"voice-transcriber/internal/shortcuts"
)

// Register always fails on platforms without a global hotkey facility.
func Register(combo shortcuts.Combo) (hotkeys.Registration, error) {
	return hotkeys.Unavailable(combo)
}
