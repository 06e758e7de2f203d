package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "VOICE_TRANSCRIBER_CONFIG_DIR"

const appDirName = "voice-transcriber"

// Paths lists every file the application persists.
type Paths struct {
	Dir      string
	Settings string
	Secrets  string
	History  string
	Logs     string
	EnvFile  string
}

// ResolvePaths picks the config directory from env or the OS config dir.
func ResolvePaths() (Paths, error) {
	dir := strings.TrimSpace(os.Getenv(EnvConfigDir))
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Paths{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		dir = filepath.Join(base, appDirName)
	}
	return PathsIn(dir), nil
}

// PathsIn lays out the fixed file names under dir.
func PathsIn(dir string) Paths {
	return Paths{
		Dir:      dir,
		Settings: filepath.Join(dir, "settings.json"),
		Secrets:  filepath.Join(dir, "secrets.json"),
		History:  filepath.Join(dir, "history", "records.json"),
		Logs:     filepath.Join(dir, "logs"),
		EnvFile:  filepath.Join(dir, ".env"),
	}
}

// LoadEnvFile loads <dir>/.env without overriding variables already set.
// A missing file is not an error.
func LoadEnvFile(p Paths) error {
	if err := godotenv.Load(p.EnvFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", p.EnvFile, err)
	}
	return nil
}
