package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValkeyStore(t *testing.T, ttl time.Duration) (*ValkeySaveStore, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	s, err := NewValkeySaveStore(ValkeyOptions{
		URL:          "redis://" + mini.Addr(),
		TTL:          ttl,
		DisableCache: true,
	}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, mini
}

func TestValkeySaveStore(t *testing.T) {
	s, _ := newTestValkeyStore(t, time.Hour)
	exerciseSaveStore(t, s)
}

func TestValkeySaveStoreTTL(t *testing.T) {
	s, mini := newTestValkeyStore(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, dailyNormal, sampleSave()))

	assert.Equal(t, time.Minute, mini.TTL(saveKeyPrefix+dailyNormal.String()))
	mini.FastForward(2 * time.Minute)

	_, err := s.Get(ctx, dailyNormal)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestValkeySaveStoreNoTTL(t *testing.T) {
	s, mini := newTestValkeyStore(t, 0)
	require.NoError(t, s.Put(context.Background(), dailyNormal, sampleSave()))
	assert.Zero(t, mini.TTL(saveKeyPrefix+dailyNormal.String()))
}

func TestValkeySaveStoreDiscardsMalformed(t *testing.T) {
	s, mini := newTestValkeyStore(t, time.Hour)
	key := saveKeyPrefix + dailyNormal.String()

	for _, raw := range []string{
		`not json`,
		`{"id":12,"challenge":"normal","guesses":["TOOLONG"],"startTime":0,"endTime":0}`,
		`{"id":-3,"challenge":"normal","guesses":[],"startTime":0,"endTime":0}`,
	} {
		require.NoError(t, mini.Set(key, raw))
		_, err := s.Get(context.Background(), dailyNormal)
		assert.ErrorIs(t, err, ErrNotFound, raw)
	}
}

func TestNewValkeySaveStoreBadURL(t *testing.T) {
	_, err := NewValkeySaveStore(ValkeyOptions{URL: "http://nope"}, zerolog.Nop())
	assert.Error(t, err)
}
