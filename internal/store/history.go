package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

// UpsertHistory normalizes entries and writes them for userID in one transaction.
// A row with the same (game mode, challenge, id) is replaced, so resending a batch
// is harmless. It returns the number of rows written.
func (db *DB) UpsertHistory(ctx context.Context, userID string, entries []stats.Entry) (int, error) {
	entries = stats.Normalize(entries)
	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO history (user_id, game_mode, challenge, id, guesses, time_ms, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (user_id, game_mode, challenge, id) DO UPDATE SET
            guesses    = excluded.guesses,
            time_ms    = excluded.time_ms,
            updated_at = excluded.updated_at`)
	if err != nil {
		return 0, fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, e := range entries {
		var guesses sql.NullInt64
		var ms sql.NullFloat64
		if e.Guesses != nil {
			guesses = sql.NullInt64{Int64: int64(*e.Guesses), Valid: true}
		}
		if e.Time != nil {
			ms = sql.NullFloat64{Float64: *e.Time, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, userID, string(e.GameMode), string(e.Challenge), e.ID, guesses, ms, now); err != nil {
			return 0, fmt.Errorf("upsert history %v: %w", e.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit history: %w", err)
	}
	return len(entries), nil
}

// History returns the normalized history of userID.
func (db *DB) History(ctx context.Context, userID string) ([]stats.Entry, error) {
	rows, err := db.sql.QueryContext(ctx, `
        SELECT game_mode, challenge, id, guesses, time_ms
        FROM history
        WHERE user_id=?
        ORDER BY id ASC, rowid ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []stats.Entry{}
	for rows.Next() {
		var (
			e       stats.Entry
			mode    string
			c       string
			guesses sql.NullInt64
			ms      sql.NullFloat64
		)
		if err := rows.Scan(&mode, &c, &e.ID, &guesses, &ms); err != nil {
			return nil, err
		}
		e.GameMode = stats.GameMode(mode)
		e.Challenge = puzzle.Challenge(c)
		if guesses.Valid {
			e.Guesses = stats.Int(int(guesses.Int64))
		}
		if ms.Valid {
			e.Time = stats.Float(ms.Float64)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats.Normalize(out), nil
}
