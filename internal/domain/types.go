package domain

import "time"

// Provider identifies an external speech or language service.
type Provider string

const (
	ProviderGroq       Provider = "groq"
	ProviderElevenLabs Provider = "elevenlabs"
	ProviderGoogle     Provider = "google"
)

// Providers lists every provider that can hold an API key, in display order.
var Providers = []Provider{ProviderGroq, ProviderElevenLabs, ProviderGoogle}

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGroq, ProviderElevenLabs, ProviderGoogle:
		return true
	default:
		return false
	}
}

// SupportsTransformation reports whether p offers a text generation capability.
func (p Provider) SupportsTransformation() bool {
	return p == ProviderGroq || p == ProviderGoogle
}

// Settings is the single persisted configuration object.
type Settings struct {
	Transcription  TranscriptionSettings  `json:"transcription"`
	Transformation TransformationSettings `json:"transformation"`
	OutputActions  OutputActions          `json:"outputActions"`
	Shortcuts      Shortcuts              `json:"shortcuts"`
}

// TranscriptionSettings selects the speech-to-text provider and input device.
type TranscriptionSettings struct {
	Provider        Provider `json:"provider"`
	Model           string   `json:"model"`
	BaseURLOverride string   `json:"baseUrlOverride,omitempty"`
	InputDeviceID   string   `json:"inputDeviceId,omitempty"`
}

// TransformationSettings holds the ordered preset list and the active selection.
type TransformationSettings struct {
	Enabled        bool                   `json:"enabled"`
	Presets        []TransformationPreset `json:"presets"`
	ActivePresetID string                 `json:"activePresetId"`
}

// TransformationPreset is one named, independently editable LLM configuration.
type TransformationPreset struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Provider     Provider `json:"provider"`
	Model        string   `json:"model"`
	SystemPrompt string   `json:"systemPrompt"`
	UserPrompt   string   `json:"userPrompt"`
}

// OutputActions toggles where transcript and transformed text are delivered.
type OutputActions struct {
	CopyTranscript   bool `json:"copyTranscript"`
	PasteTranscript  bool `json:"pasteTranscript"`
	CopyTransformed  bool `json:"copyTransformed"`
	PasteTransformed bool `json:"pasteTransformed"`
}

// Shortcuts binds logical actions to key-combo strings. Empty means unbound.
type Shortcuts struct {
	StartRecording  string `json:"startRecording"`
	StopRecording   string `json:"stopRecording"`
	ToggleRecording string `json:"toggleRecording"`
	CancelRecording string `json:"cancelRecording"`
	RunTransform    string `json:"runTransform"`
}

// Clone returns a deep copy so callers never share the preset slice.
func (s Settings) Clone() Settings {
	out := s
	if s.Transformation.Presets != nil {
		out.Transformation.Presets = append([]TransformationPreset(nil), s.Transformation.Presets...)
	}
	return out
}

// ActivePreset resolves the active preset, if present.
func (s Settings) ActivePreset() (TransformationPreset, bool) {
	for _, preset := range s.Transformation.Presets {
		if preset.ID == s.Transformation.ActivePresetID {
			return preset, true
		}
	}
	return TransformationPreset{}, false
}

// ApiKeyStatus reports which providers have a non-empty key stored.
type ApiKeyStatus struct {
	Groq       bool `json:"groq"`
	ElevenLabs bool `json:"elevenlabs"`
	Google     bool `json:"google"`
}

// ConnectionStatus is the outcome of an API key probe.
type ConnectionStatus string

const (
	ConnectionStatusSuccess ConnectionStatus = "success"
	ConnectionStatusFailed  ConnectionStatus = "failed"
)

// ApiKeyConnectionResult is returned by secrets:test-api-key-connection.
type ApiKeyConnectionResult struct {
	Provider Provider         `json:"provider"`
	Status   ConnectionStatus `json:"status"`
	Message  string           `json:"message"`
}

// JobState tracks each stage of a single recording job.
type JobState string

const (
	JobStateIdle       JobState = "idle"
	JobStateRecording  JobState = "recording"
	JobStateProcessing JobState = "processing"
	JobStateSucceeded  JobState = "succeeded"
	JobStateFailed     JobState = "failed"
	JobStateCancelled  JobState = "cancelled"
)

// Job stores the current job identity and lifecycle state.
type Job struct {
	ID         string    `json:"id"`
	State      JobState  `json:"state"`
	CapturedAt time.Time `json:"capturedAt,omitempty"`
}

// RecordingCommand is a signal from a hotkey or the UI.
type RecordingCommand string

const (
	CommandStart  RecordingCommand = "start"
	CommandStop   RecordingCommand = "stop"
	CommandToggle RecordingCommand = "toggle"
	CommandCancel RecordingCommand = "cancel"
)

// Valid reports whether c is one of the four recording commands.
func (c RecordingCommand) Valid() bool {
	switch c {
	case CommandStart, CommandStop, CommandToggle, CommandCancel:
		return true
	default:
		return false
	}
}

// RecordedAudio is the payload of recording:submit-recorded-audio.
type RecordedAudio struct {
	Data       []byte    `json:"data"`
	MimeType   string    `json:"mimeType"`
	CapturedAt time.Time `json:"capturedAt"`
}

// AudioInputSource is one selectable capture device.
type AudioInputSource struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// TerminalStatus is the final outcome tag of a job in history.
type TerminalStatus string

const (
	TerminalStatusSucceeded TerminalStatus = "succeeded"
	TerminalStatusFailed    TerminalStatus = "failed"
)

// FailureCategory names the pipeline stage that failed.
type FailureCategory string

const (
	FailureCategoryTranscription  FailureCategory = "transcription"
	FailureCategoryTransformation FailureCategory = "transformation"
	FailureCategoryOutput         FailureCategory = "output"
)

// HistoryRecord is the immutable outcome of one terminated job.
type HistoryRecord struct {
	JobID           string           `json:"jobId"`
	CapturedAt      time.Time        `json:"capturedAt"`
	TranscriptText  *string          `json:"transcriptText"`
	TransformedText *string          `json:"transformedText"`
	TerminalStatus  TerminalStatus   `json:"terminalStatus"`
	FailureDetail   *string          `json:"failureDetail"`
	FailureCategory *FailureCategory `json:"failureCategory"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// CompositeStatus is the outcome tag of a clipboard transform.
type CompositeStatus string

const (
	CompositeStatusOK    CompositeStatus = "ok"
	CompositeStatusError CompositeStatus = "error"
)

// CompositeResult is returned by transform:composite-from-clipboard.
type CompositeResult struct {
	Status  CompositeStatus `json:"status"`
	Message string          `json:"message"`
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
