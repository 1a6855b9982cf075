package quotes

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const logFileName = "submissions-log.json"

// Repository persists quote records.
type Repository interface {
	Save(record *Record) error
	AppendLog(entry LogEntry) error
}

// FileRepository writes one JSON file per submission plus a cumulative
// summary log, both under dir.
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) *FileRepository {
	return &FileRepository{dir: dir}
}

// Save writes the full record to submission-<id>.json.
func (r *FileRepository) Save(record *Record) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create submissions dir: %w", err)
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal submission %s: %w", record.ID, err)
	}
	path := r.recordPath(record.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write submission %s: %w", record.ID, err)
	}
	return nil
}

// Load reads one record back by id.
func (r *FileRepository) Load(id string) (*Record, error) {
	data, err := os.ReadFile(r.recordPath(id))
	if err != nil {
		return nil, fmt.Errorf("read submission %s: %w", id, err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse submission %s: %w", id, err)
	}
	return &record, nil
}

// AppendLog appends the summary row to the cumulative log array.
func (r *FileRepository) AppendLog(entry LogEntry) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create submissions dir: %w", err)
	}

	entries, err := r.ListLog()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal submissions log: %w", err)
	}
	if err := os.WriteFile(r.logPath(), data, 0o644); err != nil {
		return fmt.Errorf("write submissions log: %w", err)
	}
	return nil
}

// ListLog returns the summary rows recorded so far, oldest first.
func (r *FileRepository) ListLog() ([]LogEntry, error) {
	data, err := os.ReadFile(r.logPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []LogEntry{}, nil
		}
		return nil, fmt.Errorf("read submissions log: %w", err)
	}
	var entries []LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse submissions log: %w", err)
	}
	return entries, nil
}

func (r *FileRepository) recordPath(id string) string {
	return filepath.Join(r.dir, fmt.Sprintf("submission-%s.json", id))
}

func (r *FileRepository) logPath() string {
	return filepath.Join(r.dir, logFileName)
}
