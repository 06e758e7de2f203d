//go:build linux

package native

import (
	"fmt"

	"golang.design/x/hotkey"

	"voice-transcriber/internal/shortcuts"
)

// X11 maps Alt to Mod1 and Super to Mod4.
func nativeModifier(mod shortcuts.Modifier) (hotkey.Modifier, error) {
	switch mod {
	case shortcuts.ModCommandOrControl, shortcuts.ModControl:
		return hotkey.ModCtrl, nil
	case shortcuts.ModCommand, shortcuts.ModSuper:
		return hotkey.Mod4, nil
	case shortcuts.ModAlt:
		return hotkey.Mod1, nil
	case shortcuts.ModShift:
		return hotkey.ModShift, nil
	default:
		return 0, fmt.Errorf("unsupported modifier %q", mod)
	}
}
