package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"voice-transcriber/internal/config"
	"voice-transcriber/internal/diagnostics"
	"voice-transcriber/internal/domain"
)

// FixDiagnostic applies the remediation for one failed, fixable diagnostic item
// and returns the refreshed report.
func (a *App) FixDiagnostic(itemID string) (domain.DiagnosticReport, error) {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return domain.DiagnosticReport{}, fmt.Errorf("diagnostic item id is required")
	}

	var fixErr error
	switch id {
	case diagnostics.CheckHistoryDir:
		fixErr = a.fixHistoryDir()
	case diagnostics.CheckShortcuts:
		fixErr = a.fixShortcuts()
	default:
		return a.GetDiagnostics(), fmt.Errorf("unsupported diagnostic item id: %s", id)
	}

	report := a.refreshDiagnostics()
	if fixErr != nil {
		return report, fixErr
	}
	return report, nil
}

func (a *App) fixHistoryDir() error {
	dir := filepath.Dir(a.History.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	return nil
}

func (a *App) fixShortcuts() error {
	next := a.Settings.Get()
	next.Shortcuts = config.DefaultShortcuts()
	if _, err := a.SetSettings(next); err != nil {
		return fmt.Errorf("restore default shortcuts: %w", err)
	}
	return nil
}
