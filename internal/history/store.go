// internal/history/store.go
//
// Log of finished duels (won, lost or reset), backed by SQLite.
// One row per duel, keyed by the duel's session id; replays are ignored.

package history

import (
	"context"
	"database/sql"
	"time"
)

// Outcome values stored in duel_results.outcome.
const (
	OutcomeWon   = "won"
	OutcomeLost  = "lost"
	OutcomeReset = "reset"
)

// DefaultLimit and MaxLimit bound ForPlayer.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// tsLayout is fixed-width so timestamps sort lexically in SQL.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Result is one finished duel.
type Result struct {
	SessionID  string    `json:"sessionId"`
	SetterID   string    `json:"setterId"`
	GuesserID  string    `json:"guesserId"`
	Secret     string    `json:"secret,omitempty"`
	Attempts   int       `json:"attempts"`
	Outcome    string    `json:"outcome"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts r. A second Record for the same SessionID is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	if r.FinishedAt.IsZero() {
		r.FinishedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO duel_results
            (session_id, setter_id, guesser_id, secret, attempts, outcome, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.SetterID, r.GuesserID, r.Secret, r.Attempts, r.Outcome,
		r.StartedAt.UTC().Format(tsLayout), r.FinishedAt.UTC().Format(tsLayout),
	)
	return err
}

// ForPlayer returns the player's finished duels, newest first.
// limit <= 0 means DefaultLimit; it is capped at MaxLimit.
func (s *Store) ForPlayer(ctx context.Context, player string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT session_id, setter_id, guesser_id, secret, attempts, outcome, started_at, finished_at
        FROM duel_results
        WHERE setter_id=? OR guesser_id=?
        ORDER BY finished_at DESC, id DESC
        LIMIT ?`, player, player, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		var started, finished string
		if err := rows.Scan(&r.SessionID, &r.SetterID, &r.GuesserID, &r.Secret, &r.Attempts, &r.Outcome, &started, &finished); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(tsLayout, started)
		r.FinishedAt, _ = time.Parse(tsLayout, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
