package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"voice-transcriber/internal/domain"
)

// failingStore rejects every save.
type failingStore struct {
	settings domain.Settings
}

func (s *failingStore) Load() (domain.Settings, error) { return s.settings, nil }
func (s *failingStore) Save(domain.Settings) error    { return errors.New("disk full") }

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	return NewService(NewJSONStore(path), zerolog.Nop()), path
}

// TestServiceGetReturnsIndependentCopy guards against callers mutating the snapshot.
func TestServiceGetReturnsIndependentCopy(t *testing.T) {
	svc, _ := newTestService(t)

	got := svc.Get()
	got.Transformation.Presets[0].Name = "mutated"

	if svc.Get().Transformation.Presets[0].Name == "mutated" {
		t.Fatal("Get() leaked internal preset slice")
	}
}

// TestServiceSetPersistsValidSettings checks a valid write reaches disk.
func TestServiceSetPersistsValidSettings(t *testing.T) {
	svc, path := newTestService(t)

	next := svc.Get()
	next.Transcription.Provider = domain.ProviderElevenLabs
	next.Transcription.Model = ""
	saved, err := svc.Set(next)
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if saved.Transcription.Model != "scribe_v1" {
		t.Fatalf("model = %q, want provider default", saved.Transcription.Model)
	}

	reloaded, err := NewJSONStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.Transcription.Provider != domain.ProviderElevenLabs {
		t.Fatalf("persisted provider = %q", reloaded.Transcription.Provider)
	}
}

// TestServiceSetRejectsInvalidAndKeepsPrior checks failed writes change nothing.
func TestServiceSetRejectsInvalidAndKeepsPrior(t *testing.T) {
	svc, path := newTestService(t)

	next := svc.Get()
	next.Transformation.ActivePresetID = "missing"
	if _, err := svc.Set(next); !domain.IsValidationError(err) {
		t.Fatalf("Set() error = %v, want validation error", err)
	}
	if svc.Get().Transformation.ActivePresetID != DefaultPresetID {
		t.Fatal("invalid settings replaced the active snapshot")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no settings file, stat err = %v", err)
	}
}

// TestServiceSetStoreFailureKeepsPrior checks persistence errors leave memory untouched.
func TestServiceSetStoreFailureKeepsPrior(t *testing.T) {
	svc := NewService(&failingStore{settings: DefaultSettings()}, zerolog.Nop())

	next := svc.Get()
	next.OutputActions.PasteTranscript = true
	if _, err := svc.Set(next); err == nil {
		t.Fatal("expected save error")
	}
	if svc.Get().OutputActions.PasteTranscript {
		t.Fatal("failed save changed active settings")
	}
}

// TestServiceRestoreDefaultsIsIdempotent checks two restores persist identical bytes.
func TestServiceRestoreDefaultsIsIdempotent(t *testing.T) {
	svc, path := newTestService(t)

	next := svc.Get()
	next.Transformation.Enabled = true
	next.Shortcuts.RunTransform = ""
	if _, err := svc.Set(next); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := svc.RestoreDefaults(); err != nil {
		t.Fatalf("first RestoreDefaults() error = %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := svc.RestoreDefaults(); err != nil {
		t.Fatalf("second RestoreDefaults() error = %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Fatalf("restore defaults not idempotent:\n%s\n---\n%s", first, second)
	}
	if svc.Get().Transformation.Enabled {
		t.Fatal("expected transformation disabled after restore")
	}
}

// TestServiceAddPresetGeneratesID checks new presets get a fresh id.
func TestServiceAddPresetGeneratesID(t *testing.T) {
	svc, _ := newTestService(t)
	svc.newID = func() string { return "generated" }

	saved, err := svc.AddPreset(domain.TransformationPreset{
		Name:       "Summarize",
		Provider:   domain.ProviderGroq,
		UserPrompt: "Summarize {{text}}",
	})
	if err != nil {
		t.Fatalf("AddPreset() error = %v", err)
	}
	if len(saved.Transformation.Presets) != 2 {
		t.Fatalf("presets = %d, want 2", len(saved.Transformation.Presets))
	}
	added := saved.Transformation.Presets[1]
	if added.ID != "generated" || added.Model == "" {
		t.Fatalf("added preset = %+v", added)
	}
	if saved.Transformation.ActivePresetID != DefaultPresetID {
		t.Fatal("adding a preset must not change the active preset")
	}
}

// TestServiceUpdatePresetMissing checks unknown ids are rejected.
func TestServiceUpdatePresetMissing(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdatePreset(domain.TransformationPreset{ID: "ghost", Name: "x", Provider: domain.ProviderGoogle})
	if !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("UpdatePreset() error = %v, want ErrPresetNotFound", err)
	}
}

// TestServiceDeleteActivePresetReassigns checks the active id moves to a surviving preset.
func TestServiceDeleteActivePresetReassigns(t *testing.T) {
	svc, _ := newTestService(t)
	svc.newID = func() string { return "second" }
	if _, err := svc.AddPreset(domain.TransformationPreset{Name: "Second", Provider: domain.ProviderGoogle}); err != nil {
		t.Fatalf("AddPreset() error = %v", err)
	}

	saved, err := svc.DeletePreset(DefaultPresetID)
	if err != nil {
		t.Fatalf("DeletePreset() error = %v", err)
	}
	if saved.Transformation.ActivePresetID != "second" {
		t.Fatalf("active = %q, want second", saved.Transformation.ActivePresetID)
	}
	if len(saved.Transformation.Presets) != 1 {
		t.Fatalf("presets = %d, want 1", len(saved.Transformation.Presets))
	}
}

// TestServiceDeleteLastPresetFails checks the final preset cannot be removed.
func TestServiceDeleteLastPresetFails(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.DeletePreset(DefaultPresetID); !domain.IsValidationError(err) {
		t.Fatalf("DeletePreset() error = %v, want validation error", err)
	}
	if len(svc.Get().Transformation.Presets) != 1 {
		t.Fatal("last preset was removed")
	}
}

// TestServiceSetActivePreset checks switching and unknown ids.
func TestServiceSetActivePreset(t *testing.T) {
	svc, _ := newTestService(t)
	svc.newID = func() string { return "alt" }
	if _, err := svc.AddPreset(domain.TransformationPreset{Name: "Alt", Provider: domain.ProviderGroq}); err != nil {
		t.Fatalf("AddPreset() error = %v", err)
	}

	if _, err := svc.SetActivePreset("alt"); err != nil {
		t.Fatalf("SetActivePreset() error = %v", err)
	}
	if svc.Get().Transformation.ActivePresetID != "alt" {
		t.Fatal("active preset not switched")
	}
	if _, err := svc.SetActivePreset("nope"); !errors.Is(err, ErrPresetNotFound) {
		t.Fatalf("SetActivePreset(nope) error = %v", err)
	}
}

// TestNewServiceFallsBackOnCorruptFile checks unreadable settings fall back to defaults.
func TestNewServiceFallsBackOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	svc := NewService(NewJSONStore(path), zerolog.Nop())
	if svc.Get().Transformation.ActivePresetID != DefaultPresetID {
		t.Fatal("expected defaults after corrupt settings")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "{broken" {
		t.Fatal("corrupt settings file must not be rewritten on load")
	}
}
