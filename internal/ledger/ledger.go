package ledger

import (
	"context"
	"database/sql"
	"time"
)

// Entry is one processed grading verdict.
type Entry struct {
	SessionID      string    `json:"sessionId"`
	DailyDate      string    `json:"dailyDate,omitempty"`
	EncounterID    string    `json:"encounterId"`
	EncounterIndex int       `json:"encounterIndex"`
	Pass           bool      `json:"pass"`
	Feedback       string    `json:"feedback"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Row is one leaderboard line.
type Row struct {
	SessionID string `json:"sessionId"`
	Passed    int    `json:"passed"`
	Attempts  int    `json:"attempts"`
}

// Store records verdicts in the verdicts table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts a verdict. CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	var daily any
	if e.DailyDate != "" {
		daily = e.DailyDate
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verdicts(session_id, daily_date, encounter_id, encounter_index, pass, feedback, created_at)
		 VALUES(?,?,?,?,?,?,?)`,
		e.SessionID, daily, e.EncounterID, e.EncounterIndex, e.Pass, e.Feedback, e.CreatedAt.UTC(),
	)
	return err
}

// History returns a session's verdicts, oldest first.
func (s *Store) History(ctx context.Context, sessionID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, COALESCE(daily_date,''), encounter_id, encounter_index, pass, feedback, created_at
		 FROM verdicts
		 WHERE session_id=?
		 ORDER BY created_at ASC, id ASC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SessionID, &e.DailyDate, &e.EncounterID, &e.EncounterIndex, &e.Pass, &e.Feedback, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Top ranks sessions by encounters passed, then by fewest attempts. An
// empty date ranks every session; otherwise only that day's daily runs.
// Default limit is 20.
func (s *Store) Top(ctx context.Context, date string, limit int) ([]Row, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, SUM(pass) AS passed, COUNT(1) AS attempts
		 FROM verdicts
		 WHERE (?1 = '' OR daily_date = ?1)
		 GROUP BY session_id
		 ORDER BY passed DESC, attempts ASC, MIN(created_at) ASC
		 LIMIT ?2`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Row, 0, limit)
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.SessionID, &r.Passed, &r.Attempts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
