package store

import (
	"database/sql"
	"fmt"
	"sort"
	"time"
)

const sessionColumns = `id, kind, preset, duration, started_at, completed_at`

// RecordSession inserts a finished phase. A zero CompletedAt is set to now,
// and a zero StartedAt is derived from the duration.
func (s *Store) RecordSession(rec SessionRecord) (*SessionRecord, error) {
	if rec.CompletedAt.IsZero() {
		rec.CompletedAt = time.Now()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = rec.CompletedAt.Add(-time.Duration(rec.Duration) * time.Second)
	}

	res, err := s.db.Exec(
		`INSERT INTO pomodoro_sessions (kind, preset, duration, started_at, completed_at) VALUES (?, ?, ?, ?, ?)`,
		string(rec.Kind), rec.Preset, rec.Duration,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.CompletedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetSession(id)
}

func (s *Store) GetSession(id int64) (*SessionRecord, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM pomodoro_sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("get session %d: %w", id, err)
	}
	return rec, nil
}

// LastSession returns the most recently completed record, or nil when the
// history is empty.
func (s *Store) LastSession() (*SessionRecord, error) {
	row := s.db.QueryRow(`SELECT ` + sessionColumns + ` FROM pomodoro_sessions ORDER BY completed_at DESC, id DESC LIMIT 1`)
	rec, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last session: %w", err)
	}
	return rec, nil
}

func (s *Store) ListSessions(f SessionFilter) ([]SessionRecord, error) {
	query := `SELECT ` + sessionColumns + ` FROM pomodoro_sessions WHERE 1=1`
	var args []any

	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.From != nil {
		query += ` AND completed_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND completed_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY completed_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// GetDailySummary aggregates focus and break time per calendar day in
// [from, to). Days are taken in from's location so they line up with the
// local date of the daily stats file.
func (s *Store) GetDailySummary(from, to time.Time) ([]DailySummary, error) {
	records, err := s.ListSessions(SessionFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}

	loc := from.Location()
	byDate := make(map[string]*DailySummary)
	var dates []string
	for _, r := range records {
		day := r.CompletedAt.In(loc).Format("2006-01-02")
		ds, ok := byDate[day]
		if !ok {
			ds = &DailySummary{Date: day}
			byDate[day] = ds
			dates = append(dates, day)
		}
		if r.Kind == KindWork {
			ds.FocusSeconds += r.Duration
			ds.Sessions++
		} else {
			ds.BreakSeconds += r.Duration
			ds.Breaks++
		}
	}

	sort.Strings(dates)
	summaries := make([]DailySummary, 0, len(dates))
	for _, d := range dates {
		summaries = append(summaries, *byDate[d])
	}
	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*SessionRecord, error) {
	rec := &SessionRecord{}
	var kind, startedAt, completedAt string
	if err := row.Scan(&rec.ID, &kind, &rec.Preset, &rec.Duration, &startedAt, &completedAt); err != nil {
		return nil, err
	}
	rec.Kind = SessionKind(kind)
	rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	rec.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
	return rec, nil
}
