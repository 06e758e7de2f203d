package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"voice-transcriber/internal/audio"
	"voice-transcriber/internal/clipboard"
	"voice-transcriber/internal/config"
	"voice-transcriber/internal/diagnostics"
	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/history"
	"voice-transcriber/internal/hotkeys"
	"voice-transcriber/internal/jobs"
	"voice-transcriber/internal/logging"
	"voice-transcriber/internal/ports"
	"voice-transcriber/internal/providers"
	"voice-transcriber/internal/shortcuts"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// inputSourceLister enumerates capture devices.
type inputSourceLister interface {
	InputSources() []domain.AudioInputSource
}

// hotkeyBinder keeps global shortcuts in sync with settings.
type hotkeyBinder interface {
	Apply(bindings []shortcuts.Binding, handler func(shortcuts.Action)) []shortcuts.Failure
	Close()
}

// emitFunc forwards one push event to the presentation layer.
type emitFunc func(ctx context.Context, channel string, payload any)

// App wires configuration, the job orchestrator and UI runtime callbacks.
type App struct {
	Paths        config.Paths
	Settings     *config.Service
	Secrets      *config.SecretStore
	History      *history.Service
	Orchestrator *jobs.Orchestrator

	logger   zerolog.Logger
	prober   ports.ConnectionProber
	sources  inputSourceLister
	hotkeys  hotkeyBinder
	checker  *diagnostics.Checker
	events   *jobs.EventBus
	assets   fs.FS
	emit     emitFunc
	dispose  func()
	bgCtx    context.Context
	bgCancel context.CancelFunc

	mu          sync.Mutex
	runtimeCtx  context.Context
	diagnostics domain.DiagnosticReport
}

// Options configures New. A nil RegisterHotkey leaves global shortcuts
// unavailable; each configured combo is then reported on hotkey:error.
type Options struct {
	Paths          config.Paths
	Logger         zerolog.Logger
	Assets         fs.FS
	RegisterHotkey hotkeys.RegisterFunc
}

// New builds every service from the configured paths and runs startup diagnostics.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	settings := config.NewService(config.NewJSONStore(opts.Paths.Settings), logging.Component(logger, "settings"))

	secrets, err := config.NewSecretStore(opts.Paths.Secrets, logging.Component(logger, "secrets"))
	if err != nil {
		return nil, fmt.Errorf("load secrets: %w", err)
	}

	registry := providers.NewRegistry(secrets, logging.Component(logger, "providers"))
	historySvc := history.NewService(opts.Paths.History, logging.Component(logger, "history"))
	events := jobs.NewEventBus(1000)
	orchestrator := jobs.NewOrchestrator(jobs.Deps{
		Settings:  settings,
		Gateways:  registry,
		Clipboard: clipboard.New(logging.Component(logger, "clipboard")),
		History:   historySvc,
		Events:    events,
		Logger:    logging.Component(logger, "jobs"),
	})

	a := newApp(appDeps{
		paths:        opts.Paths,
		logger:       logger,
		settings:     settings,
		secrets:      secrets,
		history:      historySvc,
		orchestrator: orchestrator,
		prober:       registry,
		sources:      audio.NewSources(logging.Component(logger, "audio")),
		hotkeys:      hotkeys.NewRegistrar(logging.Component(logger, "hotkeys"), opts.RegisterHotkey),
		checker:      diagnostics.NewChecker(secrets, filepath.Dir(opts.Paths.History)),
		emit:         emitToWebview,
	})
	a.assets = opts.Assets
	return a, nil
}

type appDeps struct {
	paths        config.Paths
	logger       zerolog.Logger
	settings     *config.Service
	secrets      *config.SecretStore
	history      *history.Service
	orchestrator *jobs.Orchestrator
	prober       ports.ConnectionProber
	sources      inputSourceLister
	hotkeys      hotkeyBinder
	checker      *diagnostics.Checker
	emit         emitFunc
}

func newApp(deps appDeps) *App {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	a := &App{
		Paths:        deps.paths,
		Settings:     deps.settings,
		Secrets:      deps.secrets,
		History:      deps.history,
		Orchestrator: deps.orchestrator,
		logger:       deps.logger,
		prober:       deps.prober,
		sources:      deps.sources,
		hotkeys:      deps.hotkeys,
		checker:      deps.checker,
		events:       deps.orchestrator.Events(),
		emit:         deps.emit,
		bgCtx:        bgCtx,
		bgCancel:     bgCancel,
	}
	a.dispose = a.events.Subscribe(a.forward)
	a.diagnostics = a.checker.Run(a.Settings.Get())
	return a
}

// Run starts the Wails desktop application and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "Voice Transcriber",
		Width:       960,
		Height:      720,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown:  a.Shutdown,
		Bind:        []interface{}{a},
	})
}

// Startup stores the Wails runtime context for push events and registers hotkeys.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	a.runtimeCtx = ctx
	a.mu.Unlock()

	a.applyShortcuts(a.Settings.Get().Shortcuts)
}

// Shutdown releases hotkeys and aborts any in-flight job.
func (a *App) Shutdown(context.Context) {
	a.mu.Lock()
	a.runtimeCtx = nil
	a.mu.Unlock()

	a.Close()
}

// Close stops background work. It is safe to call more than once.
func (a *App) Close() {
	a.hotkeys.Close()
	a.bgCancel()
	a.Orchestrator.Close()
	if a.dispose != nil {
		a.dispose()
	}
}

// GetSettings returns the current settings snapshot.
func (a *App) GetSettings() domain.Settings {
	return a.Settings.Get()
}

// SetSettings validates and persists settings, then rebinds shortcuts.
func (a *App) SetSettings(settings domain.Settings) (domain.Settings, error) {
	prior := a.Settings.Get()
	saved, err := a.Settings.Set(settings)
	if err != nil {
		return domain.Settings{}, err
	}
	a.afterSettingsChange(prior, saved)
	return saved, nil
}

// RestoreDefaultSettings resets every setting to the factory defaults.
func (a *App) RestoreDefaultSettings() (domain.Settings, error) {
	prior := a.Settings.Get()
	saved, err := a.Settings.RestoreDefaults()
	if err != nil {
		return domain.Settings{}, err
	}
	a.afterSettingsChange(prior, saved)
	return saved, nil
}

// AddPreset appends a transformation preset.
func (a *App) AddPreset(preset domain.TransformationPreset) (domain.Settings, error) {
	return a.mutatePresets(func() (domain.Settings, error) { return a.Settings.AddPreset(preset) })
}

// UpdatePreset replaces the preset with the same id.
func (a *App) UpdatePreset(preset domain.TransformationPreset) (domain.Settings, error) {
	return a.mutatePresets(func() (domain.Settings, error) { return a.Settings.UpdatePreset(preset) })
}

// DeletePreset removes a preset, reassigning the active one if needed.
func (a *App) DeletePreset(id string) (domain.Settings, error) {
	return a.mutatePresets(func() (domain.Settings, error) { return a.Settings.DeletePreset(id) })
}

// SetActivePreset marks id as the active preset.
func (a *App) SetActivePreset(id string) (domain.Settings, error) {
	return a.mutatePresets(func() (domain.Settings, error) { return a.Settings.SetActivePreset(id) })
}

// mutatePresets runs a preset mutation and refreshes what depends on the
// active preset, such as the transformation provider's key check.
func (a *App) mutatePresets(mutate func() (domain.Settings, error)) (domain.Settings, error) {
	prior := a.Settings.Get()
	saved, err := mutate()
	if err != nil {
		return domain.Settings{}, err
	}
	a.afterSettingsChange(prior, saved)
	return saved, nil
}

// GetApiKeyStatus reports which providers have a key, never the key itself.
func (a *App) GetApiKeyStatus() domain.ApiKeyStatus {
	return a.Secrets.Status()
}

// SetApiKey stores or clears the key for provider.
func (a *App) SetApiKey(provider domain.Provider, key string) error {
	if err := a.Secrets.SetAPIKey(provider, key); err != nil {
		return err
	}
	a.refreshDiagnostics()
	return nil
}

// TestApiKeyConnection probes provider with candidate or the stored key.
func (a *App) TestApiKeyConnection(provider domain.Provider, candidate string) domain.ApiKeyConnectionResult {
	return a.Secrets.TestConnection(a.bgCtx, a.prober, provider, candidate)
}

// GetHistory returns every history record, oldest first.
func (a *App) GetHistory() []domain.HistoryRecord {
	return a.History.GetRecords()
}

// GetAudioInputSources lists capture devices with the system default first.
func (a *App) GetAudioInputSources() []domain.AudioInputSource {
	return a.sources.InputSources()
}

// RunRecordingCommand applies start, stop, toggle or cancel.
func (a *App) RunRecordingCommand(command domain.RecordingCommand) error {
	return a.Orchestrator.Dispatch(command)
}

// SubmitRecordedAudio hands the renderer's captured audio to the current job.
func (a *App) SubmitRecordedAudio(audio domain.RecordedAudio) error {
	return a.Orchestrator.SubmitRecordedAudio(audio)
}

// RunCompositeTransformFromClipboard transforms the clipboard text with the active preset.
func (a *App) RunCompositeTransformFromClipboard() domain.CompositeResult {
	return a.Orchestrator.RunCompositeTransformFromClipboard(a.bgCtx)
}

// CurrentJob returns current job metadata and state.
func (a *App) CurrentJob() domain.Job {
	return a.Orchestrator.Current()
}

// JobEvents returns all events with sequence greater than sinceSeq.
func (a *App) JobEvents(sinceSeq int64) []jobs.Event {
	return a.events.Since(sinceSeq)
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.diagnostics
}

// RefreshDiagnostics reruns every check against the current settings.
func (a *App) RefreshDiagnostics() domain.DiagnosticReport {
	return a.refreshDiagnostics()
}

func (a *App) refreshDiagnostics() domain.DiagnosticReport {
	report := a.checker.Run(a.Settings.Get())
	a.mu.Lock()
	a.diagnostics = report
	a.mu.Unlock()
	return report
}

func (a *App) afterSettingsChange(prior, saved domain.Settings) {
	if prior.Shortcuts != saved.Shortcuts {
		a.applyShortcuts(saved.Shortcuts)
	}
	a.refreshDiagnostics()
}

// applyShortcuts rebinds hotkeys and pushes one hotkey:error per failed combo.
func (a *App) applyShortcuts(s domain.Shortcuts) {
	failures := a.hotkeys.Apply(shortcuts.BindingsFrom(s), a.onHotkey)
	for _, failure := range failures {
		a.events.Publish(jobs.Event{
			Channel: jobs.ChannelHotkeyError,
			Payload: jobs.HotkeyErrorPayload{Combo: failure.Combo, Message: failure.Message},
		})
	}
}

func (a *App) onHotkey(action shortcuts.Action) {
	a.logger.Debug().Str("action", string(action)).Msg("hotkey pressed")

	var cmd domain.RecordingCommand
	switch action {
	case shortcuts.ActionStartRecording:
		cmd = domain.CommandStart
	case shortcuts.ActionStopRecording:
		cmd = domain.CommandStop
	case shortcuts.ActionToggleRecording:
		cmd = domain.CommandToggle
	case shortcuts.ActionCancelRecording:
		cmd = domain.CommandCancel
	case shortcuts.ActionRunTransform:
		go a.RunCompositeTransformFromClipboard()
		return
	default:
		return
	}
	if err := a.Orchestrator.Dispatch(cmd); err != nil {
		a.logger.Error().Err(err).Str("action", string(action)).Msg("hotkey dispatch failed")
	}
}

func emitToWebview(ctx context.Context, channel string, payload any) {
	wailsruntime.EventsEmit(ctx, channel, payload)
}

// forward emits bus events to the webview under their channel name.
func (a *App) forward(event jobs.Event) {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil && a.emit != nil {
		a.emit(ctx, event.Channel, event.Payload)
	}
}
