package cli

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "voice-transcriber"

// nativeHotkeyImport opens the X11 display in its init on Linux.
const nativeHotkeyImport = "golang.design/x/hotkey"

// importChain returns the first import path from pkg that reaches target,
// following module-local packages through their non-test sources.
func importChain(t *testing.T, root, pkg, target string, seen map[string]bool) []string {
	t.Helper()
	if seen[pkg] {
		return nil
	}
	seen[pkg] = true

	dir := filepath.Join(root, strings.TrimPrefix(strings.TrimPrefix(pkg, modulePath), "/"))
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read %s: %v", dir, err)
	}
	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		file, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, spec := range file.Imports {
			path, _ := strconv.Unquote(spec.Path.Value)
			if path == target || strings.HasPrefix(path, target+"/") {
				return []string{pkg, path}
			}
			if strings.HasPrefix(path, modulePath+"/") {
				if chain := importChain(t, root, path, target, seen); chain != nil {
					return append([]string{pkg}, chain...)
				}
			}
		}
	}
	return nil
}

// TestHeadlessPackagesDoNotLinkNativeHotkeys keeps settings, history and the
// CLI usable without a display server.
func TestHeadlessPackagesDoNotLinkNativeHotkeys(t *testing.T) {
	root := filepath.Join("..", "..")
	for _, pkg := range []string{
		modulePath + "/cmd/voicectl",
		modulePath + "/internal/cli",
		modulePath + "/internal/bootstrap",
		modulePath + "/internal/config",
		modulePath + "/internal/diagnostics",
		modulePath + "/internal/shortcuts",
		modulePath + "/internal/hotkeys",
	} {
		if chain := importChain(t, root, pkg, nativeHotkeyImport, map[string]bool{}); chain != nil {
			t.Fatalf("%s links %s via %s", pkg, nativeHotkeyImport, strings.Join(chain, " -> "))
		}
	}
}

// TestDesktopBinaryLinksNativeHotkeys guards against silently losing global shortcuts.
func TestDesktopBinaryLinksNativeHotkeys(t *testing.T) {
	root := filepath.Join("..", "..")
	if importChain(t, root, modulePath+"/cmd/app", nativeHotkeyImport, map[string]bool{}) == nil {
		t.Fatalf("cmd/app does not link %s", nativeHotkeyImport)
	}
}
