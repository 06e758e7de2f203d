// Package history persists terminal job outcomes in a single versioned JSON file.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"voice-transcriber/internal/atomicfile"
	"voice-transcriber/internal/domain"
)

// FileVersion is the only on-disk layout this package reads and writes.
const FileVersion = 1

// CorruptSuffix is inserted between the file name and the epoch-ms timestamp
// when an unreadable history file is moved aside.
const CorruptSuffix = ".corrupt."

type fileEnvelope struct {
	Version int                    `json:"version"`
	Records []domain.HistoryRecord `json:"records"`
}

// rawEnvelope defers record decoding so a wrong records type is detectable.
type rawEnvelope struct {
	Version *int            `json:"version"`
	Records json.RawMessage `json:"records"`
}

// Service reads and appends history records. Every mutation is serialized.
type Service struct {
	path     string
	logger   zerolog.Logger
	now      func() time.Time
	readFile func(string) ([]byte, error)

	mu sync.Mutex
}

// NewService creates a history service backed by path.
func NewService(path string, logger zerolog.Logger) *Service {
	return &Service{path: path, logger: logger, now: time.Now, readFile: os.ReadFile}
}

// Path returns the history file location.
func (s *Service) Path() string {
	return s.path
}

// GetRecords returns every record oldest-first. It never fails: a missing file
// yields no records, a corrupt one is renamed aside and treated as empty, and
// a read error is logged and reported as empty without touching the file.
func (s *Service) GetRecords() []domain.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.loadLocked()
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("history unreadable")
	}
	if records == nil {
		return []domain.HistoryRecord{}
	}
	return records
}

// AppendRecord validates record and persists it after the existing records.
// If the existing file cannot be read it is left as is and the error returned.
func (s *Service) AppendRecord(record domain.HistoryRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.loadLocked()
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	records := append(existing, record)
	data, err := json.MarshalIndent(fileEnvelope{Version: FileVersion, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := atomicfile.WriteFile(s.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}

	s.logger.Debug().
		Str("jobId", record.JobID).
		Str("status", string(record.TerminalStatus)).
		Int("records", len(records)).
		Msg("history record appended")
	return nil
}

// loadLocked reads the file. Corrupt content is quarantined and yields no
// records; read or rename failures are returned so callers never overwrite
// records they could not see.
func (s *Service) loadLocked() ([]domain.HistoryRecord, error) {
	data, err := s.readFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	records, err := decode(data)
	if err != nil {
		if qerr := s.quarantineLocked(err); qerr != nil {
			return nil, qerr
		}
		return nil, nil
	}
	return records, nil
}

// quarantineLocked moves the current file aside so the next write starts clean.
func (s *Service) quarantineLocked(cause error) error {
	target := s.path + CorruptSuffix + strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := os.Rename(s.path, target); err != nil {
		s.logger.Error().Err(err).AnErr("cause", cause).Str("path", s.path).Msg("history corrupt, rename failed")
		return fmt.Errorf("move corrupt history aside: %w", err)
	}
	s.logger.Warn().Err(cause).Str("path", s.path).Str("movedTo", target).Msg("history corrupt, moved aside")
	return nil
}

func decode(data []byte) ([]domain.HistoryRecord, error) {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if env.Version == nil || *env.Version != FileVersion {
		return nil, errors.New("unsupported history version")
	}

	trimmed := bytes.TrimSpace(env.Records)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errors.New("history records is not an array")
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("parse history records: %w", err)
	}
	for i, rec := range records {
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return records, nil
}

func validateRecord(rec domain.HistoryRecord) error {
	if rec.JobID == "" {
		return errors.New("history record has no job id")
	}
	switch rec.TerminalStatus {
	case domain.TerminalStatusSucceeded:
		if rec.FailureCategory != nil || rec.FailureDetail != nil {
			return fmt.Errorf("job %s: succeeded record carries failure fields", rec.JobID)
		}
	case domain.TerminalStatusFailed:
		if rec.FailureCategory == nil {
			return fmt.Errorf("job %s: failed record has no failure category", rec.JobID)
		}
	default:
		return fmt.Errorf("job %s: unknown terminal status %q", rec.JobID, rec.TerminalStatus)
	}
	return nil
}
