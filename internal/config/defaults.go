package config

import (
	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/prompt"
)

// DefaultPresetID is the stable id of the factory preset.
const DefaultPresetID = "default"

// DefaultShortcuts returns the factory key bindings.
func DefaultShortcuts() domain.Shortcuts {
	return domain.Shortcuts{
		StartRecording:  "CommandOrControl+Alt+R",
		StopRecording:   "CommandOrControl+Alt+S",
		ToggleRecording: "CommandOrControl+Alt+T",
		CancelRecording: "CommandOrControl+Alt+C",
		RunTransform:    "CommandOrControl+Alt+L",
	}
}

// DefaultPreset returns the single factory transformation preset.
func DefaultPreset() domain.TransformationPreset {
	return domain.TransformationPreset{
		ID:           DefaultPresetID,
		Name:         "Default",
		Provider:     domain.ProviderGoogle,
		Model:        domain.DefaultModel(domain.ProviderGoogle, domain.CapabilityTransformation),
		SystemPrompt: "You are a careful editor. Fix punctuation, grammar and obvious transcription errors without changing the meaning.",
		UserPrompt:   "Rewrite the following text:\n\n" + prompt.InputPlaceholder,
	}
}

// DefaultSettings returns the factory configuration. It is deterministic so
// restoring defaults twice persists identical bytes.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		Transcription: domain.TranscriptionSettings{
			Provider: domain.ProviderGroq,
			Model:    domain.DefaultModel(domain.ProviderGroq, domain.CapabilityTranscription),
		},
		Transformation: domain.TransformationSettings{
			Enabled:        false,
			Presets:        []domain.TransformationPreset{DefaultPreset()},
			ActivePresetID: DefaultPresetID,
		},
		OutputActions: domain.OutputActions{
			CopyTranscript: true,
		},
		Shortcuts: DefaultShortcuts(),
	}
}
