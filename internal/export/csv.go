package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/pomodoro/internal/store"
)

var csvHeader = []string{"ID", "Kind", "Preset", "Started", "Completed", "Duration (s)", "Duration"}

// ToCSV writes records to a new file at path.
func ToCSV(records []store.SessionRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	return WriteCSV(f, records)
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(out io.Writer, records []store.SessionRecord) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			fmt.Sprintf("%d", r.ID),
			string(r.Kind),
			r.Preset,
			r.StartedAt.Local().Format(time.RFC3339),
			r.CompletedAt.Local().Format(time.RFC3339),
			fmt.Sprintf("%d", r.Duration),
			formatDuration(r.Duration),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
