package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/pomodoro/internal/store"
)

type jsonExport struct {
	ExportedAt string   `json:"exported_at"`
	Count      int      `json:"count"`
	Sessions   []Record `json:"sessions"`
}

// Record is the JSON shape of one history record, shared with the bridge's
// list_sessions response.
type Record struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Preset      string `json:"preset"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

// NewRecord converts a history record. Timestamps are local RFC3339.
func NewRecord(r store.SessionRecord) Record {
	return Record{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Preset:      r.Preset,
		StartedAt:   r.StartedAt.Local().Format(time.RFC3339),
		CompletedAt: r.CompletedAt.Local().Format(time.RFC3339),
		DurationSec: r.Duration,
		Duration:    formatDuration(r.Duration),
	}
}

// Records converts a slice of history records. The result is never nil.
func Records(records []store.SessionRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, NewRecord(r))
	}
	return out
}

// ToJSON writes records to a new file at path.
func ToJSON(records []store.SessionRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	return WriteJSON(f, records)
}

// WriteJSON writes an indented export document.
func WriteJSON(w io.Writer, records []store.SessionRecord) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
		Sessions:   Records(records),
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
