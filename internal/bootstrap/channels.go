package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"

	"voice-transcriber/internal/domain"
)

// Call channels accepted by Invoke.
const (
	ChannelSettingsGet             = "settings:get"
	ChannelSettingsSet             = "settings:set"
	ChannelSettingsAddPreset       = "settings:add-preset"
	ChannelSettingsUpdatePreset    = "settings:update-preset"
	ChannelSettingsDeletePreset    = "settings:delete-preset"
	ChannelSettingsSetActivePreset = "settings:set-active-preset"
	ChannelSettingsRestoreDefaults = "settings:restore-defaults"
	ChannelSecretsGetStatus        = "secrets:get-status"
	ChannelSecretsSetAPIKey        = "secrets:set-api-key"
	ChannelSecretsTestConnection   = "secrets:test-api-key-connection"
	ChannelHistoryGet              = "history:get"
	ChannelAudioInputSources       = "recording:get-audio-input-sources"
	ChannelRunCommand              = "recording:run-command"
	ChannelSubmitRecordedAudio     = "recording:submit-recorded-audio"
	ChannelCompositeFromClipboard  = "transform:composite-from-clipboard"
)

// ErrUnknownChannel is returned by Invoke for an unregistered channel name.
var ErrUnknownChannel = errors.New("unknown channel")

type apiKeyArgs struct {
	Provider domain.Provider `json:"provider"`
	Key      string          `json:"key"`
}

type commandArgs struct {
	Command domain.RecordingCommand `json:"command"`
}

type idArgs struct {
	ID string `json:"id"`
}

// Invoke routes a named call channel with a JSON payload to the bound method.
// Void calls return a nil result.
func (a *App) Invoke(channel string, payload json.RawMessage) (any, error) {
	switch channel {
	case ChannelSettingsGet:
		return a.GetSettings(), nil
	case ChannelSettingsSet:
		var settings domain.Settings
		if err := decodeArgs(channel, payload, &settings); err != nil {
			return nil, err
		}
		return a.SetSettings(settings)
	case ChannelSettingsAddPreset, ChannelSettingsUpdatePreset:
		var preset domain.TransformationPreset
		if err := decodeArgs(channel, payload, &preset); err != nil {
			return nil, err
		}
		if channel == ChannelSettingsAddPreset {
			return a.AddPreset(preset)
		}
		return a.UpdatePreset(preset)
	case ChannelSettingsDeletePreset, ChannelSettingsSetActivePreset:
		var args idArgs
		if err := decodeArgs(channel, payload, &args); err != nil {
			return nil, err
		}
		if channel == ChannelSettingsDeletePreset {
			return a.DeletePreset(args.ID)
		}
		return a.SetActivePreset(args.ID)
	case ChannelSettingsRestoreDefaults:
		return a.RestoreDefaultSettings()
	case ChannelSecretsGetStatus:
		return a.GetApiKeyStatus(), nil
	case ChannelSecretsSetAPIKey:
		var args apiKeyArgs
		if err := decodeArgs(channel, payload, &args); err != nil {
			return nil, err
		}
		return nil, a.SetApiKey(args.Provider, args.Key)
	case ChannelSecretsTestConnection:
		var args apiKeyArgs
		if err := decodeArgs(channel, payload, &args); err != nil {
			return nil, err
		}
		return a.TestApiKeyConnection(args.Provider, args.Key), nil
	case ChannelHistoryGet:
		return a.GetHistory(), nil
	case ChannelAudioInputSources:
		return a.GetAudioInputSources(), nil
	case ChannelRunCommand:
		var args commandArgs
		if err := decodeArgs(channel, payload, &args); err != nil {
			return nil, err
		}
		return nil, a.RunRecordingCommand(args.Command)
	case ChannelSubmitRecordedAudio:
		var audio domain.RecordedAudio
		if err := decodeArgs(channel, payload, &audio); err != nil {
			return nil, err
		}
		return nil, a.SubmitRecordedAudio(audio)
	case ChannelCompositeFromClipboard:
		return a.RunCompositeTransformFromClipboard(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
}

func decodeArgs(channel string, payload json.RawMessage, target any) error {
	if len(payload) == 0 {
		return domain.NewValidationError(channel, "payload is required")
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return domain.NewValidationError(channel, "invalid payload: %v", err)
	}
	return nil
}
