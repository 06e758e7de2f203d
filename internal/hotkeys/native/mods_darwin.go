//go:build darwin

package native

import (
	"fmt"

	"golang.design/x/hotkey"

	"voice-transcriber/internal/shortcuts"
)

func nativeModifier(mod shortcuts.Modifier) (hotkey.Modifier, error) {
	switch mod {
	case shortcuts.ModCommandOrControl, shortcuts.ModCommand, shortcuts.ModSuper:
		return hotkey.ModCmd, nil
	case shortcuts.ModControl:
		return hotkey.ModCtrl, nil
	case shortcuts.ModAlt:
		return hotkey.ModOption, nil
	case shortcuts.ModShift:
		return hotkey.ModShift, nil
	default:
		return 0, fmt.Errorf("unsupported modifier %q", mod)
	}
}
