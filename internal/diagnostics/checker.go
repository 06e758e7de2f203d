package diagnostics

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	cb "github.com/atotto/clipboard"

	"voice-transcriber/internal/domain"
	"voice-transcriber/internal/ports"
	"voice-transcriber/internal/shortcuts"
)

// Check ids shared with the fixer and the UI.
const (
	CheckHistoryDir = "history_dir"
	CheckShortcuts  = "shortcuts"
	CheckClipboard  = "clipboard"
	apiKeyPrefix    = "api_key_"
)

// APIKeyCheckID returns the check id for provider's API key.
func APIKeyCheckID(provider domain.Provider) string {
	return apiKeyPrefix + string(provider)
}

// linuxClipboardTools are the helpers atotto/clipboard shells out to.
var linuxClipboardTools = []string{"xclip", "xsel", "wl-copy"}

// Checker validates keys, writable paths and OS integrations.
type Checker struct {
	keys       ports.KeyResolver
	historyDir string

	goos        string
	lookPath    func(string) (string, error)
	mkdirAll    func(string, os.FileMode) error
	createTemp  func(string, string) (*os.File, error)
	remove      func(string) error
	unsupported func() bool
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker(keys ports.KeyResolver, historyDir string) *Checker {
	return &Checker{
		keys:        keys,
		historyDir:  historyDir,
		goos:        runtime.GOOS,
		lookPath:    exec.LookPath,
		mkdirAll:    os.MkdirAll,
		createTemp:  os.CreateTemp,
		remove:      os.Remove,
		unsupported: func() bool { return cb.Unsupported },
	}
}

// Run executes all checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		c.checkAPIKey(settings.Transcription.Provider, "transcription"),
	}
	if settings.Transformation.Enabled {
		if preset, ok := settings.ActivePreset(); ok && preset.Provider != settings.Transcription.Provider {
			items = append(items, c.checkAPIKey(preset.Provider, "transformation"))
		}
	}
	items = append(items,
		c.checkHistoryDir(),
		c.checkClipboard(),
		checkShortcuts(settings.Shortcuts),
	)

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkAPIKey verifies a key is stored for a provider the settings rely on.
func (c *Checker) checkAPIKey(provider domain.Provider, usage string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   APIKeyCheckID(provider),
		Name: fmt.Sprintf("%s API key", provider),
	}
	if c.keys.APIKey(provider) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("No API key stored for %s (%s).", provider, usage)
		item.Hint = "Add the key in Settings or set it in the environment."
		return item
	}
	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Key present for %s.", usage)
	return item
}

// checkHistoryDir validates history directory existence and write access.
func (c *Checker) checkHistoryDir() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   CheckHistoryDir,
		Name: "History directory",
	}

	if err := c.mkdirAll(c.historyDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create history directory: %s", c.historyDir)
		item.Hint = "Adjust filesystem permissions or set VOICE_TRANSCRIBER_CONFIG_DIR."
		item.Fixable = true
		return item
	}

	tmpFile, err := c.createTemp(c.historyDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("History directory is not writable: %s", c.historyDir)
		item.Hint = "Adjust filesystem permissions or set VOICE_TRANSCRIBER_CONFIG_DIR."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", c.historyDir)
	return item
}

// checkClipboard verifies a clipboard backend exists.
func (c *Checker) checkClipboard() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   CheckClipboard,
		Name: "Clipboard",
	}

	if c.goos == "linux" {
		for _, tool := range linuxClipboardTools {
			if path, err := c.lookPath(tool); err == nil {
				item.Status = domain.DiagnosticStatusPass
				item.Message = fmt.Sprintf("Using %s", path)
				return item
			}
		}
		item.Status = domain.DiagnosticStatusFail
		item.Message = "No clipboard helper found in PATH."
		item.Hint = "Install xclip, xsel or wl-clipboard."
		return item
	}

	if c.unsupported() {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Clipboard is not supported on this system."
		return item
	}
	item.Status = domain.DiagnosticStatusPass
	item.Message = "System clipboard available."
	return item
}

// checkShortcuts reports every malformed binding.
func checkShortcuts(s domain.Shortcuts) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   CheckShortcuts,
		Name: "Shortcuts",
	}

	var problems []string
	for _, binding := range shortcuts.BindingsFrom(s) {
		if err := shortcuts.Validate(binding.Combo); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", binding.Action, err))
		}
	}
	if len(problems) > 0 {
		item.Status = domain.DiagnosticStatusFail
		item.Message = strings.Join(problems, "; ")
		item.Hint = "Fix restores the default shortcuts."
		item.Fixable = true
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = "All shortcuts are well-formed."
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	keys ports.KeyResolver,
	historyDir string,
	goos string,
	lookPath func(string) (string, error),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
	unsupported func() bool,
) *Checker {
	return &Checker{
		keys:        keys,
		historyDir:  historyDir,
		goos:        goos,
		lookPath:    lookPath,
		mkdirAll:    mkdirAll,
		createTemp:  createTemp,
		remove:      remove,
		unsupported: unsupported,
	}
}
