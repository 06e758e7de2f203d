package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// EnvLogPath overrides the log directory when no explicit path is given.
const EnvLogPath = "VOICE_TRANSCRIBER_LOG_PATH"

// Options controls where and how verbosely the application logs.
type Options struct {
	Dir     string
	Debug   bool
	Console io.Writer
}

// Logger owns the log file handle behind a zerolog.Logger.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// ResolveDir picks the log directory: explicit path, then env, then fallback.
func ResolveDir(flagPath string, fallback string) (string, error) {
	for _, candidate := range []string{flagPath, os.Getenv(EnvLogPath)} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if filepath.IsAbs(candidate) {
			return candidate, nil
		}
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, candidate), nil
	}
	return fallback, nil
}

// New opens <dir>/app.log and returns a timestamped logger writing there and
// to the console writer, if any.
func New(opts Options) (*Logger, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(opts.Dir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        file,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}}
	if opts.Console != nil {
		writers = append(writers, zerolog.ConsoleWriter{Out: opts.Console, TimeFormat: "15:04:05"})
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()

	return &Logger{Logger: logger, file: file}, nil
}

// Component returns a child logger tagged with the component name.
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
