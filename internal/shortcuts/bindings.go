package shortcuts

import (
	"strings"

	"voice-transcriber/internal/domain"
)

// Action is the logical operation a shortcut triggers.
type Action string

const (
	ActionStartRecording  Action = "startRecording"
	ActionStopRecording   Action = "stopRecording"
	ActionToggleRecording Action = "toggleRecording"
	ActionCancelRecording Action = "cancelRecording"
	ActionRunTransform    Action = "runTransform"
)

// Binding pairs an action with its configured combo string.
type Binding struct {
	Action Action
	Combo  string
}

// Failure reports a combo that could not be registered.
type Failure struct {
	Combo   string `json:"combo"`
	Message string `json:"message"`
}

// BindingsFrom lists the non-empty bindings of s in a stable order.
func BindingsFrom(s domain.Shortcuts) []Binding {
	all := []Binding{
		{Action: ActionStartRecording, Combo: s.StartRecording},
		{Action: ActionStopRecording, Combo: s.StopRecording},
		{Action: ActionToggleRecording, Combo: s.ToggleRecording},
		{Action: ActionCancelRecording, Combo: s.CancelRecording},
		{Action: ActionRunTransform, Combo: s.RunTransform},
	}
	out := make([]Binding, 0, len(all))
	for _, binding := range all {
		if strings.TrimSpace(binding.Combo) != "" {
			out = append(out, binding)
		}
	}
	return out
}
