//go:build darwin || linux || windows

// Package native binds shortcut combos to OS global hotkeys. On Linux the
// underlying library opens the X11 display at init, so only the desktop
// binary imports this package.
package native

import (
	"fmt"

	"golang.design/x/hotkey"

	"voice-transcriber/internal/hotkeys"
	"voice-transcriber/internal/shortcuts"
)

var keyCodes = map[string]hotkey.Key{
	"A": hotkey.KeyA, "B": hotkey.KeyB, "C": hotkey.KeyC, "D": hotkey.KeyD, "E": hotkey.KeyE,
	"F": hotkey.KeyF, "G": hotkey.KeyG, "H": hotkey.KeyH, "I": hotkey.KeyI, "J": hotkey.KeyJ,
	"K": hotkey.KeyK, "L": hotkey.KeyL, "M": hotkey.KeyM, "N": hotkey.KeyN, "O": hotkey.KeyO,
	"P": hotkey.KeyP, "Q": hotkey.KeyQ, "R": hotkey.KeyR, "S": hotkey.KeyS, "T": hotkey.KeyT,
	"U": hotkey.KeyU, "V": hotkey.KeyV, "W": hotkey.KeyW, "X": hotkey.KeyX, "Y": hotkey.KeyY,
	"Z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3, "4": hotkey.Key4,
	"5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7, "8": hotkey.Key8, "9": hotkey.Key9,
	"F1": hotkey.KeyF1, "F2": hotkey.KeyF2, "F3": hotkey.KeyF3, "F4": hotkey.KeyF4,
	"F5": hotkey.KeyF5, "F6": hotkey.KeyF6, "F7": hotkey.KeyF7, "F8": hotkey.KeyF8,
	"F9": hotkey.KeyF9, "F10": hotkey.KeyF10, "F11": hotkey.KeyF11, "F12": hotkey.KeyF12,
	"Space":  hotkey.KeySpace,
	"Return": hotkey.KeyReturn,
	"Escape": hotkey.KeyEscape,
	"Tab":    hotkey.KeyTab,
	"Delete": hotkey.KeyDelete,
	"Up":     hotkey.KeyUp,
	"Down":   hotkey.KeyDown,
	"Left":   hotkey.KeyLeft,
	"Right":  hotkey.KeyRight,
}

type osHotkey struct {
	hk      *hotkey.Hotkey
	keydown chan struct{}
	stop    chan struct{}
}

// Register grabs combo system-wide. It satisfies hotkeys.RegisterFunc.
func Register(combo shortcuts.Combo) (hotkeys.Registration, error) {
	key, ok := keyCodes[combo.Key]
	if !ok {
		return nil, fmt.Errorf("unsupported key %q", combo.Key)
	}
	mods := make([]hotkey.Modifier, 0, len(combo.Modifiers))
	for _, mod := range combo.Modifiers {
		native, err := nativeModifier(mod)
		if err != nil {
			return nil, err
		}
		mods = append(mods, native)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register %s: %w", combo, err)
	}

	h := &osHotkey{hk: hk, keydown: make(chan struct{}, 1), stop: make(chan struct{})}
	go func() {
		for {
			select {
			case <-h.stop:
				return
			case <-hk.Keydown():
				select {
				case h.keydown <- struct{}{}:
				default:
				}
			}
		}
	}()
	return h, nil
}

func (h *osHotkey) Keydown() <-chan struct{} {
	return h.keydown
}

func (h *osHotkey) Unregister() error {
	close(h.stop)
	return h.hk.Unregister()
}
