// Package hotkeys keeps global shortcuts registered and dispatches keydowns.
// The OS binding is injected so this package never links a native hotkey
// library; see hotkeys/native.
package hotkeys

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"voice-transcriber/internal/shortcuts"
)

// ErrUnavailable is returned by Unavailable.
var ErrUnavailable = errors.New("global shortcuts are not available in this build")

// Registration is one live OS hotkey.
type Registration interface {
	Keydown() <-chan struct{}
	Unregister() error
}

// RegisterFunc installs a parsed combo with the OS.
type RegisterFunc func(shortcuts.Combo) (Registration, error)

// Unavailable is a RegisterFunc for builds without a native hotkey backend.
func Unavailable(shortcuts.Combo) (Registration, error) {
	return nil, ErrUnavailable
}

// Registrar keeps the set of global hotkeys in sync with settings.
type Registrar struct {
	logger   zerolog.Logger
	register RegisterFunc

	mu     sync.Mutex
	active []activeBinding
}

type activeBinding struct {
	reg  Registration
	stop chan struct{}
	done chan struct{}
}

// NewRegistrar creates a registrar backed by register. A nil register
// behaves like Unavailable.
func NewRegistrar(logger zerolog.Logger, register RegisterFunc) *Registrar {
	if register == nil {
		register = Unavailable
	}
	return &Registrar{logger: logger, register: register}
}

// Apply replaces every registered hotkey with bindings. Each keydown invokes
// handler with the bound action. Combos that fail to parse or register are
// returned; the rest stay active.
func (r *Registrar) Apply(bindings []shortcuts.Binding, handler func(shortcuts.Action)) []shortcuts.Failure {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseLocked()

	var failures []shortcuts.Failure
	seen := make(map[string]shortcuts.Action, len(bindings))
	for _, binding := range bindings {
		combo, err := shortcuts.Parse(binding.Combo)
		if err != nil {
			failures = append(failures, shortcuts.Failure{Combo: binding.Combo, Message: err.Error()})
			continue
		}
		key := combo.String()
		if other, dup := seen[key]; dup {
			failures = append(failures, shortcuts.Failure{
				Combo:   binding.Combo,
				Message: fmt.Sprintf("shortcut is already bound to %s", other),
			})
			continue
		}

		reg, err := r.register(combo)
		if err != nil {
			r.logger.Warn().Err(err).Str("combo", binding.Combo).Msg("hotkey registration failed")
			failures = append(failures, shortcuts.Failure{Combo: binding.Combo, Message: err.Error()})
			continue
		}
		seen[key] = binding.Action

		active := activeBinding{reg: reg, stop: make(chan struct{}), done: make(chan struct{})}
		go listen(active, binding.Action, handler)
		r.active = append(r.active, active)
		r.logger.Debug().Str("combo", binding.Combo).Str("action", string(binding.Action)).Msg("hotkey registered")
	}
	return failures
}

// Close unregisters every hotkey.
func (r *Registrar) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releaseLocked()
}

func (r *Registrar) releaseLocked() {
	for _, active := range r.active {
		close(active.stop)
		<-active.done
		if err := active.reg.Unregister(); err != nil {
			r.logger.Warn().Err(err).Msg("hotkey unregister failed")
		}
	}
	r.active = nil
}

func listen(active activeBinding, action shortcuts.Action, handler func(shortcuts.Action)) {
	defer close(active.done)
	keydown := active.reg.Keydown()
	for {
		select {
		case <-active.stop:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			handler(action)
		}
	}
}
