package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/ports"
)

type fakeSettings struct {
	settings domain.Settings
}

func (f *fakeSettings) Get() domain.Settings { return f.settings.Clone() }

type gatewayFunc struct {
	transcribe func(context.Context, ports.TranscriptionRequest) (string, error)
	transform  func(context.Context, ports.TransformationRequest) (string, error)
}

func (g gatewayFunc) Transcribe(ctx context.Context, req ports.TranscriptionRequest) (string, error) {
	return g.transcribe(ctx, req)
}

func (g gatewayFunc) Transform(ctx context.Context, req ports.TransformationRequest) (string, error) {
	return g.transform(ctx, req)
}

type fakeGateways struct {
	mu              sync.Mutex
	gw              gatewayFunc
	transcribeCalls int
	transformCalls  int
	transformReqs   []ports.TransformationRequest
}

func (f *fakeGateways) Transcriber(domain.Provider) (ports.TranscriptionGateway, error) {
	f.mu.Lock()
	f.transcribeCalls++
	f.mu.Unlock()
	return f.gw, nil
}

func (f *fakeGateways) Transformer(domain.Provider) (ports.TransformationGateway, error) {
	f.mu.Lock()
	f.transformCalls++
	f.mu.Unlock()
	return gatewayFunc{transform: func(ctx context.Context, req ports.TransformationRequest) (string, error) {
		f.mu.Lock()
		f.transformReqs = append(f.transformReqs, req)
		f.mu.Unlock()
		return f.gw.transform(ctx, req)
	}}, nil
}

func (f *fakeGateways) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcribeCalls, f.transformCalls
}

type fakeClipboard struct {
	mu     sync.Mutex
	text   string
	reads  int
	writes []string
	pastes int
}

func (c *fakeClipboard) ReadText(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads++
	return c.text, nil
}

func (c *fakeClipboard) WriteText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	c.writes = append(c.writes, text)
	return nil
}

func (c *fakeClipboard) Paste(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pastes++
	return nil
}

func (c *fakeClipboard) snapshot() ([]string, int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...), c.pastes, c.reads
}

type fakeHistory struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
}

func (h *fakeHistory) AppendRecord(rec domain.HistoryRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

func (h *fakeHistory) all() []domain.HistoryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.HistoryRecord(nil), h.records...)
}

type harness struct {
	orch      *Orchestrator
	settings  *fakeSettings
	gateways  *fakeGateways
	clipboard *fakeClipboard
	history   *fakeHistory
	terminal  chan JobStatusPayload
	dispose   func()
}

func testSettings() domain.Settings {
	return domain.Settings{
		Transcription: domain.TranscriptionSettings{
			Provider:      domain.ProviderGroq,
			Model:         "whisper-large-v3-turbo",
			InputDeviceID: "mic-1",
		},
		Transformation: domain.TransformationSettings{
			Presets: []domain.TransformationPreset{{
				ID:           "p1",
				Name:         "Rewrite",
				Provider:     domain.ProviderGoogle,
				Model:        "gemini-2.5-flash",
				SystemPrompt: "You are an editor.",
				UserPrompt:   "Please rewrite: {{text}}",
			}},
			ActivePresetID: "p1",
		},
		OutputActions: domain.OutputActions{CopyTranscript: true},
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		settings: &fakeSettings{settings: testSettings()},
		gateways: &fakeGateways{gw: gatewayFunc{
			transcribe: func(context.Context, ports.TranscriptionRequest) (string, error) { return "hello world", nil },
			transform:  func(context.Context, ports.TransformationRequest) (string, error) { return "Hello, world.", nil },
		}},
		clipboard: &fakeClipboard{},
		history:   &fakeHistory{},
		terminal:  make(chan JobStatusPayload, 8),
	}
	h.orch = NewOrchestrator(Deps{
		Settings:  h.settings,
		Gateways:  h.gateways,
		Clipboard: h.clipboard,
		History:   h.history,
		Events:    NewEventBus(100),
		Logger:    zerolog.Nop(),
	})
	ids := 0
	h.orch.newID = func() string {
		ids++
		return fmt.Sprintf("job-%d", ids)
	}
	h.dispose = h.orch.Events().Subscribe(func(e Event) {
		if status, ok := e.Payload.(JobStatusPayload); ok && terminalState(status.State) {
			h.terminal <- status
		}
	})
	t.Cleanup(func() {
		h.orch.Close()
		h.dispose()
	})
	return h
}

func terminalState(state domain.JobState) bool {
	switch state {
	case domain.JobStateSucceeded, domain.JobStateFailed, domain.JobStateCancelled:
		return true
	default:
		return false
	}
}

func (h *harness) waitTerminal(t *testing.T) JobStatusPayload {
	t.Helper()
	select {
	case status := <-h.terminal:
		return status
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for terminal status")
		return JobStatusPayload{}
	}
}

func (h *harness) assertNoMoreTerminal(t *testing.T) {
	t.Helper()
	select {
	case status := <-h.terminal:
		t.Fatalf("unexpected extra terminal status: %+v", status)
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *harness) record(t *testing.T, audio string) {
	t.Helper()
	if err := h.orch.Dispatch(domain.CommandStart); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.orch.Dispatch(domain.CommandStop); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := h.orch.SubmitRecordedAudio(domain.RecordedAudio{Data: []byte(audio), MimeType: "audio/webm"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
}

// TestOrchestratorSuccessfulJob walks a job through every state and checks the outputs.
func TestOrchestratorSuccessfulJob(t *testing.T) {
	h := newHarness(t)

	var commands []CommandPayload
	dispose := h.orch.Events().Subscribe(func(e Event) {
		if cmd, ok := e.Payload.(CommandPayload); ok {
			commands = append(commands, cmd)
		}
	})
	defer dispose()

	h.record(t, "audio")
	status := h.waitTerminal(t)
	if status.State != domain.JobStateSucceeded || status.JobID != "job-1" {
		t.Fatalf("terminal = %+v, want job-1 succeeded", status)
	}
	h.assertNoMoreTerminal(t)

	records := h.history.all()
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	rec := records[0]
	if rec.TerminalStatus != domain.TerminalStatusSucceeded || rec.TranscriptText == nil || *rec.TranscriptText != "hello world" {
		t.Fatalf("record = %+v", rec)
	}
	if rec.TransformedText != nil || rec.FailureCategory != nil {
		t.Fatalf("unexpected transform/failure fields: %+v", rec)
	}

	writes, pastes, _ := h.clipboard.snapshot()
	if len(writes) != 1 || writes[0] != "hello world" || pastes != 0 {
		t.Fatalf("clipboard writes = %v, pastes = %d", writes, pastes)
	}
	if h.orch.Current().State != domain.JobStateIdle {
		t.Fatalf("state = %s, want idle", h.orch.Current().State)
	}
	if len(commands) != 2 || commands[0].Command != domain.CommandStart || commands[0].PreferredDeviceID != "mic-1" {
		t.Fatalf("commands = %+v", commands)
	}
}

// TestOrchestratorStartIsNoOpWhileActive checks overlapping starts never create a second job.
func TestOrchestratorStartIsNoOpWhileActive(t *testing.T) {
	h := newHarness(t)

	release := make(chan struct{})
	h.gateways.gw.transcribe = func(context.Context, ports.TranscriptionRequest) (string, error) {
		<-release
		return "done", nil
	}

	if err := h.orch.Dispatch(domain.CommandStart); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.orch.Dispatch(domain.CommandStart); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if got := h.orch.Current(); got.ID != "job-1" || got.State != domain.JobStateRecording {
		t.Fatalf("current = %+v, want job-1 recording", got)
	}

	if err := h.orch.SubmitRecordedAudio(domain.RecordedAudio{Data: []byte("a")}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := h.orch.Dispatch(domain.CommandStart); err != nil {
		t.Fatalf("start while processing: %v", err)
	}
	if err := h.orch.Dispatch(domain.CommandToggle); err != nil {
		t.Fatalf("toggle while processing: %v", err)
	}
	if got := h.orch.Current(); got.ID != "job-1" || got.State != domain.JobStateProcessing {
		t.Fatalf("current = %+v, want job-1 processing", got)
	}

	close(release)
	h.waitTerminal(t)
	if n := len(h.history.all()); n != 1 {
		t.Fatalf("records = %d, want 1", n)
	}
}

// TestOrchestratorToggle checks toggle starts from idle and stops while recording.
func TestOrchestratorToggle(t *testing.T) {
	h := newHarness(t)

	if err := h.orch.Dispatch(domain.CommandToggle); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if h.orch.Current().State != domain.JobStateRecording {
		t.Fatalf("state = %s, want recording", h.orch.Current().State)
	}
	if err := h.orch.Dispatch(domain.CommandToggle); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if h.orch.Current().State != domain.JobStateProcessing {
		t.Fatalf("state = %s, want processing", h.orch.Current().State)
	}
}

// TestOrchestratorCancelWhileRecording checks cancel ends the job without history.
// Cancelled jobs deliberately write no history record.
func TestOrchestratorCancelWhileRecording(t *testing.T) {
	h := newHarness(t)

	if err := h.orch.Dispatch(domain.CommandStart); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.orch.Dispatch(domain.CommandCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	status := h.waitTerminal(t)
	if status.State != domain.JobStateCancelled {
		t.Fatalf("terminal = %+v, want cancelled", status)
	}
	if n := len(h.history.all()); n != 0 {
		t.Fatalf("records = %d, want 0 for cancelled job", n)
	}
	if err := h.orch.SubmitRecordedAudio(domain.RecordedAudio{Data: []byte("late")}); !errors.Is(err, ErrNoActiveRecording) {
		t.Fatalf("late submit error = %v, want %v", err, ErrNoActiveRecording)
	}
}

// TestOrchestratorCancelDropsInFlightResult checks a superseded gateway result never lands.
func TestOrchestratorCancelDropsInFlightResult(t *testing.T) {
	h := newHarness(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	h.gateways.gw.transcribe = func(context.Context, ports.TranscriptionRequest) (string, error) {
		close(entered)
		<-release
		return "stale transcript", nil
	}

	h.record(t, "audio")
	<-entered
	if err := h.orch.Dispatch(domain.CommandCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if status := h.waitTerminal(t); status.State != domain.JobStateCancelled {
		t.Fatalf("terminal = %+v, want cancelled", status)
	}

	close(release)
	h.orch.Close()
	h.assertNoMoreTerminal(t)

	if n := len(h.history.all()); n != 0 {
		t.Fatalf("records = %d, want 0", n)
	}
	if writes, _, _ := h.clipboard.snapshot(); len(writes) != 0 {
		t.Fatalf("clipboard writes = %v, want none", writes)
	}
}

// TestOrchestratorCancelCarriesCause checks gateways see why their context ended.
func TestOrchestratorCancelCarriesCause(t *testing.T) {
	h := newHarness(t)

	causes := make(chan error, 1)
	h.gateways.gw.transcribe = func(ctx context.Context, _ ports.TranscriptionRequest) (string, error) {
		<-ctx.Done()
		causes <- context.Cause(ctx)
		return "", ctx.Err()
	}

	h.record(t, "audio")
	if err := h.orch.Dispatch(domain.CommandCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if status := h.waitTerminal(t); status.State != domain.JobStateCancelled {
		t.Fatalf("terminal = %+v, want cancelled", status)
	}

	select {
	case cause := <-causes:
		if !errors.Is(cause, domain.ErrCancelled) {
			t.Fatalf("cause = %v, want %v", cause, domain.ErrCancelled)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("transcriber never observed the cancel")
	}
	h.orch.Close()
	h.assertNoMoreTerminal(t)
}

// TestOrchestratorCancelAfterTranscriptionSkipsClipboard cancels between the
// provider returning and the output actions running.
func TestOrchestratorCancelAfterTranscriptionSkipsClipboard(t *testing.T) {
	h := newHarness(t)

	h.gateways.gw.transcribe = func(context.Context, ports.TranscriptionRequest) (string, error) {
		if err := h.orch.Dispatch(domain.CommandCancel); err != nil {
			t.Errorf("cancel: %v", err)
		}
		return "late transcript", nil
	}

	h.record(t, "audio")
	if status := h.waitTerminal(t); status.State != domain.JobStateCancelled {
		t.Fatalf("terminal = %+v, want cancelled", status)
	}
	h.orch.Close()
	h.assertNoMoreTerminal(t)

	if writes, pastes, _ := h.clipboard.snapshot(); len(writes) != 0 || pastes != 0 {
		t.Fatalf("clipboard writes = %v pastes = %d, want none", writes, pastes)
	}
	if n := len(h.history.all()); n != 0 {
		t.Fatalf("records = %d, want 0", n)
	}
}

// TestDeliverJobRejectsSupersededJob checks the clipboard is only written for the processing job.
func TestDeliverJobRejectsSupersededJob(t *testing.T) {
	h := newHarness(t)

	if err := h.orch.Dispatch(domain.CommandStart); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.orch.Dispatch(domain.CommandStop); err != nil {
		t.Fatalf("stop: %v", err)
	}

	if err := h.orch.deliverJob(t.Context(), "job-0", "stale", true, true); !errors.Is(err, ErrStaleJob) {
		t.Fatalf("stale deliver error = %v, want %v", err, ErrStaleJob)
	}
	if writes, pastes, _ := h.clipboard.snapshot(); len(writes) != 0 || pastes != 0 {
		t.Fatalf("clipboard writes = %v pastes = %d, want none", writes, pastes)
	}

	if err := h.orch.deliverJob(t.Context(), "job-1", "fresh", true, false); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if err := h.orch.Dispatch(domain.CommandCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := h.orch.deliverJob(t.Context(), "job-1", "after cancel", true, false); !errors.Is(err, ErrStaleJob) {
		t.Fatalf("deliver after cancel error = %v, want %v", err, ErrStaleJob)
	}
	if writes, _, _ := h.clipboard.snapshot(); len(writes) != 1 || writes[0] != "fresh" {
		t.Fatalf("clipboard writes = %v, want [fresh]", writes)
	}
}

// TestActivePresetResolution covers the disabled and missing preset cases.
func TestActivePresetResolution(t *testing.T) {
	settings := testSettings()
	if _, err := activePreset(settings); !errors.Is(err, domain.ErrTransformationDisabled) {
		t.Fatalf("disabled error = %v, want %v", err, domain.ErrTransformationDisabled)
	}

	settings.Transformation.Enabled = true
	preset, err := activePreset(settings)
	if err != nil || preset.ID != "p1" {
		t.Fatalf("preset = %+v, err = %v", preset, err)
	}

	settings.Transformation.ActivePresetID = "gone"
	if _, err := activePreset(settings); !errors.Is(err, errPresetNotFound) {
		t.Fatalf("missing preset error = %v, want %v", err, errPresetNotFound)
	}
}

// TestOrchestratorTranscriptionFailure checks provider failures become failed history records.
func TestOrchestratorTranscriptionFailure(t *testing.T) {
	h := newHarness(t)
	h.gateways.gw.transcribe = func(context.Context, ports.TranscriptionRequest) (string, error) {
		return "", errors.New("429 rate limited")
	}

	h.record(t, "audio")
	status := h.waitTerminal(t)
	if status.State != domain.JobStateFailed || status.FailureCategory == nil || *status.FailureCategory != domain.FailureCategoryTranscription {
		t.Fatalf("terminal = %+v, want transcription failure", status)
	}

	rec := h.history.all()[0]
	if rec.TranscriptText != nil || rec.FailureDetail == nil || !strings.Contains(*rec.FailureDetail, "429") {
		t.Fatalf("record = %+v", rec)
	}
}

// TestOrchestratorTransformationFailureKeepsTranscript checks best-effort transformation.
func TestOrchestratorTransformationFailureKeepsTranscript(t *testing.T) {
	h := newHarness(t)
	h.settings.settings.Transformation.Enabled = true
	h.gateways.gw.transform = func(context.Context, ports.TransformationRequest) (string, error) {
		return "", errors.New("model overloaded")
	}

	h.record(t, "audio")
	if status := h.waitTerminal(t); status.State != domain.JobStateFailed {
		t.Fatalf("terminal = %+v, want failed", status)
	}

	rec := h.history.all()[0]
	if rec.TranscriptText == nil || *rec.TranscriptText != "hello world" {
		t.Fatalf("transcript lost: %+v", rec)
	}
	if rec.TransformedText != nil {
		t.Fatalf("transformed = %q, want nil", *rec.TransformedText)
	}
	if rec.FailureCategory == nil || *rec.FailureCategory != domain.FailureCategoryTransformation {
		t.Fatalf("category = %v, want transformation", rec.FailureCategory)
	}
	if writes, _, _ := h.clipboard.snapshot(); len(writes) != 1 || writes[0] != "hello world" {
		t.Fatalf("clipboard writes = %v, want transcript only", writes)
	}
}

// TestOrchestratorTransformationOutputs checks transformed text is pasted and prompt blocks are ordered.
func TestOrchestratorTransformationOutputs(t *testing.T) {
	h := newHarness(t)
	h.settings.settings.Transformation.Enabled = true
	h.settings.settings.OutputActions = domain.OutputActions{PasteTransformed: true}

	h.record(t, "audio")
	if status := h.waitTerminal(t); status.State != domain.JobStateSucceeded {
		t.Fatalf("terminal = %+v, want succeeded", status)
	}

	rec := h.history.all()[0]
	if rec.TransformedText == nil || *rec.TransformedText != "Hello, world." {
		t.Fatalf("record = %+v", rec)
	}
	writes, pastes, _ := h.clipboard.snapshot()
	if len(writes) != 1 || writes[0] != "Hello, world." || pastes != 1 {
		t.Fatalf("writes = %v, pastes = %d", writes, pastes)
	}

	reqs := h.gateways.transformReqs
	want := []string{"System Prompt:\nYou are an editor.", "Please rewrite: hello world"}
	if len(reqs) != 1 || len(reqs[0].Blocks) != 2 || reqs[0].Blocks[0] != want[0] || reqs[0].Blocks[1] != want[1] {
		t.Fatalf("transform requests = %+v, want blocks %q", reqs, want)
	}
}

// TestOrchestratorGatewayPanicBecomesFailure checks unexpected panics are converted to failures.
func TestOrchestratorGatewayPanicBecomesFailure(t *testing.T) {
	h := newHarness(t)
	h.gateways.gw.transcribe = func(context.Context, ports.TranscriptionRequest) (string, error) {
		panic("nil map")
	}

	h.record(t, "audio")
	status := h.waitTerminal(t)
	if status.State != domain.JobStateFailed || !strings.Contains(status.Message, "nil map") {
		t.Fatalf("terminal = %+v", status)
	}
	if n := len(h.history.all()); n != 1 {
		t.Fatalf("records = %d, want 1", n)
	}
}

// TestOrchestratorSubmitRules checks when audio is accepted.
func TestOrchestratorSubmitRules(t *testing.T) {
	h := newHarness(t)

	if err := h.orch.SubmitRecordedAudio(domain.RecordedAudio{Data: []byte("a")}); !errors.Is(err, ErrNoActiveRecording) {
		t.Fatalf("idle submit error = %v", err)
	}

	release := make(chan struct{})
	h.gateways.gw.transcribe = func(context.Context, ports.TranscriptionRequest) (string, error) {
		<-release
		return "x", nil
	}
	if err := h.orch.Dispatch(domain.CommandStart); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := h.orch.SubmitRecordedAudio(domain.RecordedAudio{Data: []byte("a")}); err != nil {
		t.Fatalf("submit while recording: %v", err)
	}
	if err := h.orch.SubmitRecordedAudio(domain.RecordedAudio{Data: []byte("b")}); !errors.Is(err, ErrAudioAlreadySubmitted) {
		t.Fatalf("double submit error = %v", err)
	}
	close(release)
	h.waitTerminal(t)

	if err := h.orch.Dispatch("rewind"); err == nil {
		t.Fatal("expected unknown command error")
	}
}

// TestCompositeTransformDisabledIsLocal checks the disabled path touches nothing.
func TestCompositeTransformDisabledIsLocal(t *testing.T) {
	h := newHarness(t)
	h.clipboard.text = "some text"

	var pushes []CompositeStatusPayload
	dispose := h.orch.Events().Subscribe(func(e Event) {
		if p, ok := e.Payload.(CompositeStatusPayload); ok {
			pushes = append(pushes, p)
		}
	})
	defer dispose()

	result := h.orch.RunCompositeTransformFromClipboard(context.Background())
	if result.Status != domain.CompositeStatusError || result.Message != domain.TransformationDisabledMessage {
		t.Fatalf("result = %+v", result)
	}
	if _, transforms := h.gateways.calls(); transforms != 0 {
		t.Fatalf("transformer resolved %d times, want 0", transforms)
	}
	if writes, _, reads := h.clipboard.snapshot(); reads != 0 || len(writes) != 0 {
		t.Fatalf("clipboard reads = %d, writes = %v", reads, writes)
	}
	if len(pushes) != 1 || pushes[0].Status != domain.CompositeStatusError {
		t.Fatalf("pushes = %+v", pushes)
	}
}

// TestCompositeTransformFromClipboard checks the enabled path writes the result back.
func TestCompositeTransformFromClipboard(t *testing.T) {
	h := newHarness(t)
	h.settings.settings.Transformation.Enabled = true
	h.settings.settings.OutputActions.CopyTransformed = true
	h.clipboard.text = "raw clipboard"

	result := h.orch.RunCompositeTransformFromClipboard(context.Background())
	if result.Status != domain.CompositeStatusOK {
		t.Fatalf("result = %+v", result)
	}
	if h.clipboard.text != "Hello, world." {
		t.Fatalf("clipboard = %q", h.clipboard.text)
	}
	if got := h.gateways.transformReqs[0].Blocks[1]; got != "Please rewrite: raw clipboard" {
		t.Fatalf("user block = %q", got)
	}
	if h.orch.Current().State != domain.JobStateIdle {
		t.Fatal("composite transform must not touch the recording state machine")
	}
}

// TestCompositeTransformEmptyClipboard checks a blank clipboard short-circuits.
func TestCompositeTransformEmptyClipboard(t *testing.T) {
	h := newHarness(t)
	h.settings.settings.Transformation.Enabled = true

	result := h.orch.RunCompositeTransformFromClipboard(context.Background())
	if result.Status != domain.CompositeStatusError {
		t.Fatalf("result = %+v", result)
	}
	if _, transforms := h.gateways.calls(); transforms != 0 {
		t.Fatalf("transformer resolved %d times, want 0", transforms)
	}
}
