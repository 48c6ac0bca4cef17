package store

import (
	"context"
	"database/sql"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
)

// LeaderboardRow is one player's win on a daily puzzle.
type LeaderboardRow struct {
	Username string   `json:"username"`
	Guesses  int      `json:"guesses"`
	Time     *float64 `json:"time"`
}

// Leaderboard returns the fastest wins for daily puzzle id under challenge c,
// ordered by time, then guesses, then submission order. Wins without a recorded
// time sort last. limit <= 0 means 20.
func (db *DB) Leaderboard(ctx context.Context, c puzzle.Challenge, id, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.sql.QueryContext(ctx, `
        SELECT u.username, h.guesses, h.time_ms
        FROM history h
        JOIN users u ON u.id = h.user_id
        WHERE h.game_mode = 'daily' AND h.challenge = ? AND h.id = ? AND h.guesses IS NOT NULL
        ORDER BY h.time_ms IS NULL, h.time_ms ASC, h.guesses ASC, h.updated_at ASC, h.rowid ASC
        LIMIT ?`, string(c), id, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var r LeaderboardRow
		var ms sql.NullFloat64
		if err := rows.Scan(&r.Username, &r.Guesses, &ms); err != nil {
			return nil, err
		}
		if ms.Valid {
			t := ms.Float64
			r.Time = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
