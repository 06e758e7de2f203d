package config

import (
	"net/url"
	"strings"

	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/shortcuts"
)

// Normalize trims user input and fills empty models with provider defaults.
func Normalize(settings domain.Settings) domain.Settings {
	out := settings.Clone()

	t := &out.Transcription
	t.Provider = domain.Provider(strings.TrimSpace(string(t.Provider)))
	t.Model = strings.TrimSpace(t.Model)
	t.BaseURLOverride = strings.TrimSpace(t.BaseURLOverride)
	t.InputDeviceID = strings.TrimSpace(t.InputDeviceID)
	if t.Model == "" {
		t.Model = domain.DefaultModel(t.Provider, domain.CapabilityTranscription)
	}

	for i := range out.Transformation.Presets {
		out.Transformation.Presets[i] = normalizePreset(out.Transformation.Presets[i])
	}
	out.Transformation.ActivePresetID = strings.TrimSpace(out.Transformation.ActivePresetID)

	s := &out.Shortcuts
	s.StartRecording = strings.TrimSpace(s.StartRecording)
	s.StopRecording = strings.TrimSpace(s.StopRecording)
	s.ToggleRecording = strings.TrimSpace(s.ToggleRecording)
	s.CancelRecording = strings.TrimSpace(s.CancelRecording)
	s.RunTransform = strings.TrimSpace(s.RunTransform)

	return out
}

func normalizePreset(p domain.TransformationPreset) domain.TransformationPreset {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Provider = domain.Provider(strings.TrimSpace(string(p.Provider)))
	p.Model = strings.TrimSpace(p.Model)
	if p.Model == "" {
		p.Model = domain.DefaultModel(p.Provider, domain.CapabilityTransformation)
	}
	return p
}

// Validate checks every settings invariant and returns the first violation.
func Validate(settings domain.Settings) error {
	t := settings.Transcription
	if !t.Provider.Valid() {
		return domain.NewValidationError("transcription.provider", "unknown provider %q", t.Provider)
	}
	if t.Model == "" {
		return domain.NewValidationError("transcription.model", "model is required")
	}
	if t.BaseURLOverride != "" {
		parsed, err := url.Parse(t.BaseURLOverride)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return domain.NewValidationError("transcription.baseUrlOverride", "%q is not an absolute URL", t.BaseURLOverride)
		}
	}

	presets := settings.Transformation.Presets
	if len(presets) == 0 {
		return domain.NewValidationError("transformation.presets", "at least one preset is required")
	}
	seen := make(map[string]struct{}, len(presets))
	for _, preset := range presets {
		if err := validatePreset(preset); err != nil {
			return err
		}
		if _, dup := seen[preset.ID]; dup {
			return domain.NewValidationError("transformation.presets", "duplicate preset id %q", preset.ID)
		}
		seen[preset.ID] = struct{}{}
	}
	if _, ok := seen[settings.Transformation.ActivePresetID]; !ok {
		return domain.NewValidationError("transformation.activePresetId", "preset %q does not exist", settings.Transformation.ActivePresetID)
	}

	for _, binding := range shortcuts.BindingsFrom(settings.Shortcuts) {
		if err := shortcuts.Validate(binding.Combo); err != nil {
			return domain.NewValidationError("shortcuts."+string(binding.Action), "%v", err)
		}
	}
	return nil
}

func validatePreset(p domain.TransformationPreset) error {
	if p.ID == "" {
		return domain.NewValidationError("preset.id", "id is required")
	}
	if p.Name == "" {
		return domain.NewValidationError("preset.name", "name is required for preset %q", p.ID)
	}
	if !p.Provider.SupportsTransformation() {
		return domain.NewValidationError("preset.provider", "provider %q cannot run transformations", p.Provider)
	}
	if p.Model == "" {
		return domain.NewValidationError("preset.model", "model is required for preset %q", p.ID)
	}
	return nil
}
