// Package clipboard adapts the OS clipboard and a synthetic paste keystroke.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	cb "github.com/atotto/clipboard"
	"github.com/micmonay/keybd_event"
	"github.com/rs/zerolog"
)

// ErrUnsupported is returned when no clipboard backend is available.
var ErrUnsupported = errors.New("clipboard is not available on this system")

// pasteDelay lets the target app observe the new clipboard contents first.
const pasteDelay = 60 * time.Millisecond

// System reads and writes the OS clipboard and sends the paste shortcut.
type System struct {
	logger zerolog.Logger

	kbOnce sync.Once
	kb     keybd_event.KeyBonding
	kbErr  error

	// mu orders clipboard writes against the paste that follows them.
	mu sync.Mutex
}

// New returns the OS clipboard adapter.
func New(logger zerolog.Logger) *System {
	return &System{logger: logger}
}

// Available reports whether a clipboard backend was found.
func Available() bool {
	return !cb.Unsupported
}

func (s *System) ReadText(_ context.Context) (string, error) {
	if !Available() {
		return "", ErrUnsupported
	}
	return cb.ReadAll()
}

func (s *System) WriteText(_ context.Context, text string) error {
	if !Available() {
		return ErrUnsupported
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return cb.WriteAll(text)
}

// Paste presses the platform paste shortcut in the focused application.
func (s *System) Paste(ctx context.Context) error {
	s.kbOnce.Do(func() {
		s.kb, s.kbErr = keybd_event.NewKeyBonding()
	})
	if s.kbErr != nil {
		return fmt.Errorf("keyboard events unavailable: %w", s.kbErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(pasteDelay):
	}

	s.kb.Clear()
	s.kb.SetKeys(keybd_event.VK_V)
	setPasteModifier(&s.kb)
	if err := s.kb.Launching(); err != nil {
		return fmt.Errorf("send paste keystroke: %w", err)
	}
	s.logger.Debug().Msg("paste keystroke sent")
	return nil
}
