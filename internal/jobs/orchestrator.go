package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/ports"
	"voice-transcriber/internal/prompt"
)

var (
	// ErrNoActiveRecording is returned when audio arrives while idle.
	ErrNoActiveRecording = errors.New("no recording in progress")

	// ErrAudioAlreadySubmitted is returned when a job already has its audio.
	ErrAudioAlreadySubmitted = errors.New("audio already submitted for this job")

	errPresetNotFound = errors.New("active preset not found")
)

// Status messages pushed with terminal job states.
const (
	msgSucceeded = "Transcription complete."
	msgCancelled = "Recording cancelled."
)

// Deps are the collaborators an Orchestrator drives.
type Deps struct {
	Settings  ports.SettingsReader
	Gateways  ports.GatewayResolver
	Clipboard ports.Clipboard
	History   ports.HistoryWriter
	Events    *EventBus
	Logger    zerolog.Logger
}

// Orchestrator runs one recording job at a time through transcription,
// optional transformation, output actions and history.
type Orchestrator struct {
	settings  ports.SettingsReader
	gateways  ports.GatewayResolver
	clipboard ports.Clipboard
	history   ports.HistoryWriter
	events    *EventBus
	logger    zerolog.Logger
	newID     func() string
	now       func() time.Time

	manager *Manager

	// mu is the single queue every state transition goes through.
	mu        sync.Mutex
	cancelRun context.CancelCauseFunc
	wg        sync.WaitGroup

	compositeMu sync.Mutex
}

// NewOrchestrator wires an idle orchestrator.
func NewOrchestrator(deps Deps) *Orchestrator {
	events := deps.Events
	if events == nil {
		events = NewEventBus(0)
	}
	return &Orchestrator{
		settings:  deps.Settings,
		gateways:  deps.Gateways,
		clipboard: deps.Clipboard,
		history:   deps.History,
		events:    events,
		logger:    deps.Logger,
		newID:     uuid.NewString,
		now:       time.Now,
		manager:   NewManager(),
	}
}

// Events exposes the bus status pushes are published on.
func (o *Orchestrator) Events() *EventBus {
	return o.events
}

// Current returns a snapshot of the active job.
func (o *Orchestrator) Current() domain.Job {
	return o.manager.Current()
}

// Dispatch applies a recording command. Commands that do not apply to the
// current state are ignored.
func (o *Orchestrator) Dispatch(cmd domain.RecordingCommand) error {
	if !cmd.Valid() {
		return fmt.Errorf("unknown recording command %q", cmd)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	switch cmd {
	case domain.CommandStart:
		o.startLocked()
	case domain.CommandStop:
		o.stopLocked()
	case domain.CommandToggle:
		switch o.manager.Current().State {
		case domain.JobStateIdle:
			o.startLocked()
		case domain.JobStateRecording:
			o.stopLocked()
		default:
			o.logger.Debug().Msg("toggle ignored while processing")
		}
	case domain.CommandCancel:
		o.cancelLocked()
	}
	return nil
}

func (o *Orchestrator) startLocked() {
	jobID := o.newID()
	if err := o.manager.Start(jobID); err != nil {
		o.logger.Debug().Str("state", string(o.manager.Current().State)).Msg("start ignored, job in flight")
		return
	}

	o.logger.Info().Str("jobId", jobID).Msg("recording started")
	o.publishStatus(jobID, domain.JobStateRecording, "", nil)
	o.events.Publish(Event{
		Channel: ChannelRecordingCommand,
		JobID:   jobID,
		Payload: CommandPayload{
			Command:           domain.CommandStart,
			PreferredDeviceID: o.settings.Get().Transcription.InputDeviceID,
		},
	})
}

func (o *Orchestrator) stopLocked() {
	job := o.manager.Current()
	if job.State != domain.JobStateRecording {
		o.logger.Debug().Str("state", string(job.State)).Msg("stop ignored, not recording")
		return
	}
	if err := o.manager.Transition(domain.JobStateProcessing); err != nil {
		o.logger.Error().Err(err).Str("jobId", job.ID).Msg("stop transition failed")
		return
	}

	o.publishStatus(job.ID, domain.JobStateProcessing, "", nil)
	o.events.Publish(Event{
		Channel: ChannelRecordingCommand,
		JobID:   job.ID,
		Payload: CommandPayload{Command: domain.CommandStop},
	})
}

// cancelLocked aborts the current job. Cancelled jobs leave no history record.
func (o *Orchestrator) cancelLocked() {
	job, err := o.manager.Cancel()
	if err != nil {
		o.logger.Debug().Msg("cancel ignored, no job in flight")
		return
	}

	if o.cancelRun != nil {
		o.cancelRun(domain.ErrCancelled)
		o.cancelRun = nil
	}

	o.logger.Info().Str("jobId", job.ID).Msg("job cancelled")
	o.events.Publish(Event{
		Channel: ChannelRecordingCommand,
		JobID:   job.ID,
		Payload: CommandPayload{Command: domain.CommandCancel},
	})
	o.manager.Reset()
	o.publishStatus(job.ID, domain.JobStateCancelled, msgCancelled, nil)
}

// SubmitRecordedAudio hands captured audio to the current job and starts
// processing it in the background.
func (o *Orchestrator) SubmitRecordedAudio(audio domain.RecordedAudio) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	job := o.manager.Current()
	switch job.State {
	case domain.JobStateIdle:
		return ErrNoActiveRecording
	case domain.JobStateRecording:
		if err := o.manager.Transition(domain.JobStateProcessing); err != nil {
			return err
		}
		o.publishStatus(job.ID, domain.JobStateProcessing, "", nil)
	case domain.JobStateProcessing:
		if o.cancelRun != nil {
			return ErrAudioAlreadySubmitted
		}
	default:
		return fmt.Errorf("cannot accept audio in state %s", job.State)
	}

	capturedAt := audio.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = o.now()
	}
	o.manager.MarkCaptured(capturedAt)

	ctx, cancel := context.WithCancelCause(context.Background())
	o.cancelRun = cancel
	settings := o.settings.Get()

	o.wg.Add(1)
	go o.runJob(ctx, job.ID, capturedAt, audio, settings)
	return nil
}

// outcome accumulates partial progress so a late failure never drops the transcript.
type outcome struct {
	transcript  *string
	transformed *string
	category    *domain.FailureCategory
	err         error
}

func (r *outcome) fail(category domain.FailureCategory, err error) {
	r.category = &category
	r.err = err
}

func (o *Orchestrator) runJob(ctx context.Context, jobID string, capturedAt time.Time, audio domain.RecordedAudio, settings domain.Settings) {
	defer o.wg.Done()

	result := &outcome{}
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				o.logger.Error().Interface("panic", rec).Str("jobId", jobID).Msg("job pipeline panicked")
				category := domain.FailureCategoryTranscription
				if result.transcript != nil {
					category = domain.FailureCategoryTransformation
				}
				result.fail(category, &domain.GatewayError{
					Category: domain.GatewayCategory(category),
					Provider: settings.Transcription.Provider,
					Err:      fmt.Errorf("unexpected failure: %v", rec),
				})
			}
		}()
		o.process(ctx, jobID, audio, settings, result)
	}()

	o.finish(jobID, capturedAt, result)
}

func (o *Orchestrator) process(ctx context.Context, jobID string, audio domain.RecordedAudio, settings domain.Settings, result *outcome) {
	log := o.logger.With().Str("jobId", jobID).Logger()

	transcript, err := o.transcribe(ctx, audio, settings.Transcription)
	if errors.Is(context.Cause(ctx), domain.ErrCancelled) {
		log.Debug().Msg("transcription abandoned after cancel")
		return
	}
	if err != nil {
		result.fail(domain.FailureCategoryTranscription, err)
		return
	}
	result.transcript = &transcript
	log.Info().Int("chars", len(transcript)).Msg("transcription complete")

	actions := settings.OutputActions
	if err := o.deliverJob(ctx, jobID, transcript, actions.CopyTranscript, actions.PasteTranscript); err != nil {
		if errors.Is(err, ErrStaleJob) {
			return
		}
		result.fail(domain.FailureCategoryOutput, err)
		return
	}

	preset, err := activePreset(settings)
	if errors.Is(err, domain.ErrTransformationDisabled) {
		return
	}
	if err != nil {
		result.fail(domain.FailureCategoryTransformation, err)
		return
	}
	transformed, err := o.transform(ctx, transcript, preset)
	if errors.Is(context.Cause(ctx), domain.ErrCancelled) {
		log.Debug().Msg("transformation abandoned after cancel")
		return
	}
	if err != nil {
		log.Warn().Err(err).Msg("transformation failed, keeping transcript")
		result.fail(domain.FailureCategoryTransformation, err)
		return
	}
	result.transformed = &transformed

	if err := o.deliverJob(ctx, jobID, transformed, actions.CopyTransformed, actions.PasteTransformed); err != nil && !errors.Is(err, ErrStaleJob) {
		result.fail(domain.FailureCategoryOutput, err)
	}
}

// activePreset resolves the preset transforms run with. It returns
// domain.ErrTransformationDisabled while the capability is switched off.
func activePreset(settings domain.Settings) (domain.TransformationPreset, error) {
	if !settings.Transformation.Enabled {
		return domain.TransformationPreset{}, domain.ErrTransformationDisabled
	}
	preset, ok := settings.ActivePreset()
	if !ok {
		return domain.TransformationPreset{}, errPresetNotFound
	}
	return preset, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, audio domain.RecordedAudio, cfg domain.TranscriptionSettings) (string, error) {
	wrap := func(err error) error {
		return &domain.GatewayError{Category: domain.GatewayCategoryTranscription, Provider: cfg.Provider, Err: err}
	}
	if len(audio.Data) == 0 {
		return "", wrap(errors.New("recorded audio is empty"))
	}

	gateway, err := o.gateways.Transcriber(cfg.Provider)
	if err != nil {
		return "", wrap(err)
	}
	text, err := gateway.Transcribe(ctx, ports.TranscriptionRequest{
		Audio:    audio.Data,
		MimeType: audio.MimeType,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURLOverride,
	})
	if err != nil {
		return "", wrap(err)
	}
	return text, nil
}

func (o *Orchestrator) transform(ctx context.Context, source string, preset domain.TransformationPreset) (string, error) {
	wrap := func(err error) error {
		return &domain.GatewayError{Category: domain.GatewayCategoryTransformation, Provider: preset.Provider, Err: err}
	}

	gateway, err := o.gateways.Transformer(preset.Provider)
	if err != nil {
		return "", wrap(err)
	}
	blocks := prompt.BuildPromptBlocks(prompt.Input{
		SourceText:   source,
		SystemPrompt: preset.SystemPrompt,
		UserPrompt:   preset.UserPrompt,
	})
	text, err := gateway.Transform(ctx, ports.TransformationRequest{Model: preset.Model, Blocks: blocks})
	if err != nil {
		return "", wrap(err)
	}
	return text, nil
}

// deliverJob runs the output actions for jobID under mu so a cancel either
// lands before the clipboard is touched or after the write completed.
// It returns ErrStaleJob when jobID is no longer the processing job.
func (o *Orchestrator) deliverJob(ctx context.Context, jobID, text string, copyText, paste bool) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.isCurrent(jobID) {
		return fmt.Errorf("%s: %w", jobID, ErrStaleJob)
	}
	return o.deliver(ctx, text, copyText, paste)
}

// deliver writes text to the clipboard and optionally pastes it.
func (o *Orchestrator) deliver(ctx context.Context, text string, copyText, paste bool) error {
	if !copyText && !paste {
		return nil
	}
	if err := o.clipboard.WriteText(ctx, text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	if paste {
		if err := o.clipboard.Paste(ctx); err != nil {
			return fmt.Errorf("paste: %w", err)
		}
	}
	return nil
}

// isCurrent must be called with mu held.
func (o *Orchestrator) isCurrent(jobID string) bool {
	job := o.manager.Current()
	return job.ID == jobID && job.State == domain.JobStateProcessing
}

// finish records the terminal state of jobID unless it was superseded.
func (o *Orchestrator) finish(jobID string, capturedAt time.Time, result *outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.isCurrent(jobID) {
		o.logger.Debug().Str("jobId", jobID).Msg("discarding result of superseded job")
		return
	}

	state := domain.JobStateSucceeded
	record := domain.HistoryRecord{
		JobID:           jobID,
		CapturedAt:      capturedAt,
		TranscriptText:  result.transcript,
		TransformedText: result.transformed,
		TerminalStatus:  domain.TerminalStatusSucceeded,
		CreatedAt:       o.now().UTC(),
	}
	message := msgSucceeded
	if result.err != nil {
		state = domain.JobStateFailed
		record.TerminalStatus = domain.TerminalStatusFailed
		record.FailureCategory = result.category
		record.FailureDetail = domain.StringPtr(result.err.Error())
		message = result.err.Error()
	}

	if err := o.manager.TransitionJob(jobID, state); err != nil {
		o.logger.Error().Err(err).Str("jobId", jobID).Msg("terminal transition failed")
	}
	if err := o.history.AppendRecord(record); err != nil {
		o.logger.Error().Err(err).Str("jobId", jobID).Msg("history append failed")
	}

	event := o.logger.Info()
	if result.err != nil {
		event = o.logger.Warn().Err(result.err)
	}
	event.Str("jobId", jobID).Str("state", string(state)).Msg("job finished")

	if o.cancelRun != nil {
		o.cancelRun(nil)
		o.cancelRun = nil
	}
	o.manager.Reset()
	o.publishStatus(jobID, state, message, result.category)
}

func (o *Orchestrator) publishStatus(jobID string, state domain.JobState, message string, category *domain.FailureCategory) {
	o.events.Publish(Event{
		Channel: ChannelJobStatus,
		JobID:   jobID,
		Payload: JobStatusPayload{JobID: jobID, State: state, Message: message, FailureCategory: category},
	})
}

// RunCompositeTransformFromClipboard transforms the clipboard text with the
// active preset. Calls are serialized; a disabled transformation returns
// without touching the clipboard or any provider.
func (o *Orchestrator) RunCompositeTransformFromClipboard(ctx context.Context) domain.CompositeResult {
	o.compositeMu.Lock()
	defer o.compositeMu.Unlock()

	result := o.compositeTransform(ctx)
	o.events.Publish(Event{
		Channel: ChannelCompositeStatus,
		Payload: CompositeStatusPayload{Status: result.Status, Message: result.Message},
	})
	return result
}

func (o *Orchestrator) compositeTransform(ctx context.Context) (result domain.CompositeResult) {
	settings := o.settings.Get()
	preset, err := activePreset(settings)
	switch {
	case errors.Is(err, domain.ErrTransformationDisabled):
		return compositeError(domain.TransformationDisabledMessage)
	case err != nil:
		return compositeError("Active preset not found.")
	}

	defer func() {
		if rec := recover(); rec != nil {
			o.logger.Error().Interface("panic", rec).Msg("composite transform panicked")
			result = compositeError(fmt.Sprintf("Transformation failed: %v", rec))
		}
	}()

	source, err := o.clipboard.ReadText(ctx)
	if err != nil {
		return compositeError(fmt.Sprintf("Could not read clipboard: %v", err))
	}
	if strings.TrimSpace(source) == "" {
		return compositeError("Clipboard is empty.")
	}

	transformed, err := o.transform(ctx, source, preset)
	if err != nil {
		o.logger.Warn().Err(err).Str("preset", preset.ID).Msg("composite transform failed")
		return compositeError(err.Error())
	}

	actions := settings.OutputActions
	if err := o.deliver(ctx, transformed, actions.CopyTransformed, actions.PasteTransformed); err != nil {
		return compositeError(err.Error())
	}

	o.logger.Info().Str("preset", preset.ID).Int("chars", len(transformed)).Msg("composite transform complete")
	return domain.CompositeResult{Status: domain.CompositeStatusOK, Message: transformed}
}

func compositeError(message string) domain.CompositeResult {
	return domain.CompositeResult{Status: domain.CompositeStatusError, Message: message}
}

// Close cancels any in-flight job and waits for its goroutine to exit.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.manager.IsRunning() {
		o.cancelLocked()
	}
	o.mu.Unlock()
	o.wg.Wait()
}
