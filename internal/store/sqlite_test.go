package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "app.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func byKey(h []stats.Entry, mode stats.GameMode, c puzzle.Challenge, id int) stats.Entry {
	for _, e := range h {
		if e.Key() == (stats.Key{GameMode: mode, Challenge: c, ID: id}) {
			return e
		}
	}
	return stats.Entry{}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	for i := 0; i < 2; i++ {
		db, err := Open(context.Background(), path, zerolog.Nop())
		require.NoError(t, err)
		require.NoError(t, db.Ping(context.Background()))

		var n int
		require.NoError(t, db.sql.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
		assert.Equal(t, 2, n)
		require.NoError(t, db.Close())
	}
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := db.CreateUser(ctx, "  Alice ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Username)
	assert.NotEmpty(t, u.ID)

	_, err = db.CreateUser(ctx, "alice", "hash2")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	byName, err := db.UserByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := db.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.CreatedAt, byID.CreatedAt)

	_, err = db.UserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistoryUpsert(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u, err := db.CreateUser(ctx, "bob", "hash")
	require.NoError(t, err)

	batch := []stats.Entry{
		{ID: 5, GameMode: stats.Daily, Challenge: puzzle.Normal, Guesses: stats.Int(35), Time: stats.Float(1234.567)},
		{ID: 3, GameMode: stats.Daily, Challenge: puzzle.Normal},
		{ID: 3, GameMode: stats.Daily, Challenge: puzzle.Jumble, Guesses: stats.Int(36), Time: stats.Float(10)},
		{ID: 0, GameMode: stats.Daily, Challenge: puzzle.Normal},
		{ID: 150000, GameMode: stats.Practice, Challenge: puzzle.Perfect, Guesses: stats.Int(32), Time: stats.Float(5)},
	}
	n, err := db.UpsertHistory(ctx, u.ID, batch)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// resending the same batch changes nothing
	_, err = db.UpsertHistory(ctx, u.ID, batch)
	require.NoError(t, err)

	got, err := db.History(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.ElementsMatch(t, stats.Normalize(batch), got)
	assert.Equal(t, 1234.57, *byKey(got, stats.Daily, puzzle.Normal, 5).Time)

	// a later result for the same key replaces the stored one
	_, err = db.UpsertHistory(ctx, u.ID, []stats.Entry{
		{ID: 3, GameMode: stats.Daily, Challenge: puzzle.Normal, Guesses: stats.Int(37), Time: stats.Float(99)},
	})
	require.NoError(t, err)
	got, err = db.History(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, 37, *byKey(got, stats.Daily, puzzle.Normal, 3).Guesses)

	other, err := db.History(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, other)

	n, err = db.UpsertHistory(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHistoryRequiresUser(t *testing.T) {
	db := newTestDB(t)
	_, err := db.UpsertHistory(context.Background(), "ghost", []stats.Entry{
		{ID: 1, GameMode: stats.Daily, Challenge: puzzle.Normal},
	})
	assert.Error(t, err, "foreign key to users is enforced")
}

func TestLeaderboard(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	add := func(name string, entries ...stats.Entry) {
		u, err := db.CreateUser(ctx, name, "hash")
		require.NoError(t, err)
		_, err = db.UpsertHistory(ctx, u.ID, entries)
		require.NoError(t, err)
	}
	win := func(id, guesses int, ms float64) stats.Entry {
		return stats.Entry{ID: id, GameMode: stats.Daily, Challenge: puzzle.Normal, Guesses: stats.Int(guesses), Time: stats.Float(ms)}
	}
	add("slow", win(40, 33, 90_000))
	add("fast", win(40, 36, 60_000))
	add("tied", win(40, 34, 60_000))
	add("lost", stats.Entry{ID: 40, GameMode: stats.Daily, Challenge: puzzle.Normal})
	add("untimed", stats.Entry{ID: 40, GameMode: stats.Daily, Challenge: puzzle.Normal, Guesses: stats.Int(32)})
	add("otherday", win(41, 32, 1))
	add("jumbler", stats.Entry{ID: 40, GameMode: stats.Daily, Challenge: puzzle.Jumble, Guesses: stats.Int(32), Time: stats.Float(1)})

	top, err := db.Leaderboard(ctx, puzzle.Normal, 40, 0)
	require.NoError(t, err)
	names := make([]string, len(top))
	for i, r := range top {
		names[i] = r.Username
	}
	assert.Equal(t, []string{"tied", "fast", "slow", "untimed"}, names)
	assert.Nil(t, top[3].Time)

	top, err = db.Leaderboard(ctx, puzzle.Normal, 40, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)
}
