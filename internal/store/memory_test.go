package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/serial"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

func sampleSave() serial.GameSerialized {
	p := int64(4000)
	return serial.GameSerialized{
		ID:        12,
		Challenge: puzzle.Normal,
		Guesses:   []string{"ZEBRA", "YACHT"},
		StartTime: 1000,
		PauseTime: &p,
	}
}

var dailyNormal = SaveKey{Player: "p1", GameMode: stats.Daily, Challenge: puzzle.Normal}

// exerciseSaveStore runs the behavior every SaveStore must share.
func exerciseSaveStore(t *testing.T, s SaveStore) {
	ctx := context.Background()

	_, err := s.Get(ctx, dailyNormal)
	assert.ErrorIs(t, err, ErrNotFound)

	save := sampleSave()
	require.NoError(t, s.Put(ctx, dailyNormal, save))

	got, err := s.Get(ctx, dailyNormal)
	require.NoError(t, err)
	assert.Equal(t, save, *got)

	// slots are independent
	other := dailyNormal
	other.Challenge = puzzle.Jumble
	_, err = s.Get(ctx, other)
	assert.ErrorIs(t, err, ErrNotFound)

	// the store does not alias the caller's slices
	save.Guesses[0] = "QUILT"
	got, err = s.Get(ctx, dailyNormal)
	require.NoError(t, err)
	assert.Equal(t, "ZEBRA", got.Guesses[0])

	replaced := sampleSave()
	replaced.Guesses = append(replaced.Guesses, "WALTZ")
	require.NoError(t, s.Put(ctx, dailyNormal, replaced))
	got, err = s.Get(ctx, dailyNormal)
	require.NoError(t, err)
	assert.Len(t, got.Guesses, 3)

	require.NoError(t, s.Delete(ctx, dailyNormal))
	require.NoError(t, s.Delete(ctx, dailyNormal))
	_, err = s.Get(ctx, dailyNormal)
	assert.ErrorIs(t, err, ErrNotFound)

	bad := []SaveKey{
		{GameMode: stats.Daily, Challenge: puzzle.Normal},
		{Player: "p1", GameMode: "weekly", Challenge: puzzle.Normal},
		{Player: "p1", GameMode: stats.Daily, Challenge: "hard"},
	}
	for _, k := range bad {
		assert.ErrorIs(t, s.Put(ctx, k, sampleSave()), ErrInvalidSaveKey, k.String())
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseSaveStore(t, NewMemoryStore())
}

func TestSaveKeyString(t *testing.T) {
	assert.Equal(t, "p1:daily:normal", dailyNormal.String())
}
