package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"voice-transcriber/internal/domain"
)

var corruptName = regexp.MustCompile(`^records\.json\.corrupt\.\d+$`)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "history")
	return NewService(filepath.Join(dir, "records.json"), zerolog.Nop()), dir
}

func writeRaw(t *testing.T, svc *Service, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(svc.Path()), 0o755))
	require.NoError(t, os.WriteFile(svc.Path(), []byte(content), 0o644))
}

func corruptMarkers(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		if corruptName.MatchString(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names
}

func succeededRecord(jobID string) domain.HistoryRecord {
	captured := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return domain.HistoryRecord{
		JobID:          jobID,
		CapturedAt:     captured,
		TranscriptText: domain.StringPtr("hello world"),
		TerminalStatus: domain.TerminalStatusSucceeded,
		CreatedAt:      captured.Add(2 * time.Second),
	}
}

func TestGetRecordsMissingFileIsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	records := svc.GetRecords()
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestGetRecordsRecoversFromCorruption(t *testing.T) {
	cases := map[string]string{
		"invalid json":       `{"version": 1, "records": [`,
		"records is string":  `{"version": 1, "records": "nope"}`,
		"records is object":  `{"version": 1, "records": {"jobId": "a"}}`,
		"records missing":    `{"version": 1}`,
		"malformed entry":    `{"version": 1, "records": [42]}`,
		"entry without id":   `{"version": 1, "records": [{"terminalStatus": "succeeded"}]}`,
		"unknown version":    `{"version": 2, "records": []}`,
		"top-level array":    `[]`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			svc, dir := newTestService(t)
			writeRaw(t, svc, content)

			require.Empty(t, svc.GetRecords())

			_, err := os.Stat(svc.Path())
			require.True(t, os.IsNotExist(err), "canonical file should be moved aside")

			markers := corruptMarkers(t, dir)
			require.Len(t, markers, 1)
			kept, err := os.ReadFile(filepath.Join(dir, markers[0]))
			require.NoError(t, err)
			require.Equal(t, content, string(kept))
		})
	}
}

func TestAppendAfterRecoveryRoundTrips(t *testing.T) {
	svc, dir := newTestService(t)
	writeRaw(t, svc, "garbage")
	require.Empty(t, svc.GetRecords())

	failed := domain.FailureCategoryTransformation
	record := succeededRecord("job-1")
	record.TerminalStatus = domain.TerminalStatusFailed
	record.FailureCategory = &failed
	record.FailureDetail = domain.StringPtr("transformation (google) failed: quota")

	require.NoError(t, svc.AppendRecord(record))

	got := svc.GetRecords()
	require.Equal(t, []domain.HistoryRecord{record}, got)
	require.Len(t, corruptMarkers(t, dir), 1)

	data, err := os.ReadFile(svc.Path())
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.EqualValues(t, FileVersion, doc["version"])
}

func TestAppendRecordKeepsOldestFirst(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.AppendRecord(succeededRecord("first")))
	require.NoError(t, svc.AppendRecord(succeededRecord("second")))

	got := svc.GetRecords()
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].JobID)
	require.Equal(t, "second", got[1].JobID)
}

func TestAppendRecordStampsCreatedAt(t *testing.T) {
	svc, _ := newTestService(t)
	fixed := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	record := succeededRecord("job")
	record.CreatedAt = time.Time{}
	require.NoError(t, svc.AppendRecord(record))

	require.Equal(t, fixed, svc.GetRecords()[0].CreatedAt)
}

func TestAppendRecordRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	require.Error(t, svc.AppendRecord(domain.HistoryRecord{TerminalStatus: domain.TerminalStatusSucceeded}))

	noCategory := succeededRecord("job")
	noCategory.TerminalStatus = domain.TerminalStatusFailed
	require.Error(t, svc.AppendRecord(noCategory))

	_, err := os.Stat(svc.Path())
	require.True(t, os.IsNotExist(err))
}

func TestAppendRecordLeavesUnreadableFileIntact(t *testing.T) {
	svc, dir := newTestService(t)
	require.NoError(t, svc.AppendRecord(succeededRecord("a")))
	require.NoError(t, svc.AppendRecord(succeededRecord("b")))
	before, err := os.ReadFile(svc.Path())
	require.NoError(t, err)

	readErr := errors.New("input/output error")
	svc.readFile = func(string) ([]byte, error) { return nil, readErr }

	err = svc.AppendRecord(succeededRecord("c"))
	require.ErrorIs(t, err, readErr)
	require.Empty(t, svc.GetRecords())

	after, err := os.ReadFile(svc.Path())
	require.NoError(t, err)
	require.Equal(t, before, after)
	require.Empty(t, corruptMarkers(t, dir))

	svc.readFile = os.ReadFile
	require.NoError(t, svc.AppendRecord(succeededRecord("c")))
	got := svc.GetRecords()
	require.Len(t, got, 3)
	require.Equal(t, "a", got[0].JobID)
	require.Equal(t, "c", got[2].JobID)
}
