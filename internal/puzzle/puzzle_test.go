package puzzle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/duotrigordle/internal/words"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	tbl, err := words.Load(words.Sources{})
	require.NoError(t, err)
	return NewGenerator(tbl)
}

// Published puzzles. A change here means every historical puzzle changed.
func TestTargetsFixedVectors(t *testing.T) {
	g := newTestGenerator(t)
	assert.Equal(t, []string{"BRING", "SHAPE", "PLAIN", "ROUND", "THEFT"}, g.Targets(1, Normal)[:5])
	assert.Equal(t, []string{"MONEY", "WRONG", "QUITE", "QUICK", "YOUTH"}, g.Targets(12, Normal)[:5])
	assert.Equal(t, []string{"ROUGH", "BEGIN", "CARRY", "PLANT", "GREAT"}, g.Targets(600, Normal)[:5])
	assert.Equal(t, []string{"FLASH", "GROWN", "STORM"}, g.JumbleStarters(g.Targets(1, Jumble), 1))
}

func TestTargetsReproducibleAndDistinct(t *testing.T) {
	g := newTestGenerator(t)
	for id := 1; id <= 1000; id++ {
		for _, c := range []Challenge{Normal, Sequence} {
			a := g.Targets(id, c)
			b := g.Targets(id, c)
			require.Equal(t, a, b, "id %d not reproducible", id)
			require.Len(t, a, NumBoards)

			seen := make(map[string]bool, len(a))
			for _, w := range a {
				require.False(t, seen[w], "id %d repeats %s", id, w)
				seen[w] = true
				require.True(t, g.Tables().IsTarget(w))
			}
		}
	}
}

func TestTargetsRespectRetiredWords(t *testing.T) {
	g := newTestGenerator(t)
	retired := map[string]bool{"TAXES": true, "TIMES": true, "NEEDS": true, "BASES": true}
	for id := 500; id < 800; id++ {
		for _, w := range g.Targets(id, Normal) {
			assert.False(t, retired[w], "id %d drew retired word %s", id, w)
		}
	}
}

func TestTargetsPanicsOnMisuse(t *testing.T) {
	g := newTestGenerator(t)
	assert.Panics(t, func() { g.Targets(0, Normal) })
	assert.Panics(t, func() { g.Targets(-4, Normal) })
	assert.Panics(t, func() { g.Targets(1, Challenge("hard")) })
}

func TestJumbleStartersDiversity(t *testing.T) {
	g := newTestGenerator(t)
	for id := 0; id < 100; id++ {
		targetID := id
		if targetID < 1 {
			targetID = 1
		}
		targets := g.Targets(targetID, Jumble)
		starters := g.JumbleStarters(targets, id)
		require.Len(t, starters, NumStarters)
		assert.GreaterOrEqual(t, distinctLetters(starters), MinStarterLetters, "id %d", id)
		assert.NotEqual(t, starters[0], starters[1])
		assert.NotEqual(t, starters[1], starters[2])
		assert.NotEqual(t, starters[0], starters[2])
		for _, s := range starters {
			assert.NotContains(t, targets, s, "id %d starter %s is a target", id, s)
			assert.True(t, g.Tables().IsValid(s))
		}
		assert.Equal(t, starters, g.JumbleStarters(targets, id))
	}
}

func TestFindPerfectID(t *testing.T) {
	g := newTestGenerator(t)

	id, ok := g.FindPerfectID("CRANE", 1)
	require.True(t, ok)
	assert.Equal(t, 3, id)
	assert.Contains(t, g.Targets(id, Perfect), "CRANE")

	id, ok = g.FindPerfectID("ZESTY", 12)
	require.True(t, ok)
	assert.Equal(t, 54, id)

	first := g.Targets(12, Perfect)[0]
	id, ok = g.FindPerfectID(first, 12)
	require.True(t, ok)
	assert.Equal(t, 12, id, "a word already in the puzzle keeps the id")

	id, ok = g.FindPerfectID("ZEBRA", 12)
	assert.False(t, ok, "valid-only words are never targets")
	assert.Equal(t, 12, id)
}

func TestDailyID(t *testing.T) {
	assert.Equal(t, 1, DailyID(DailyEpoch))
	assert.Equal(t, 1, DailyID(DailyEpoch.Add(23*time.Hour)))
	assert.Equal(t, 2, DailyID(DailyEpoch.Add(24*time.Hour)))
	assert.Equal(t, 366, DailyID(time.Date(2023, time.January, 24, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, DailyID(time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC)))

	tz := time.FixedZone("UTC+10", 10*3600)
	assert.Equal(t, 2, DailyID(time.Date(2022, time.January, 25, 1, 0, 0, 0, tz)),
		"the local calendar date decides the id")
}

func TestPracticeIDs(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.True(t, IsPracticeID(RandomPracticeID()))
	}
	assert.False(t, IsPracticeID(99_999))
	assert.True(t, IsPracticeID(100_000))
	assert.False(t, IsPracticeID(1_000_000))
}

func TestChallenges(t *testing.T) {
	budgets := map[Challenge]int{Normal: 37, Sequence: 39, Jumble: 38, Perfect: 32}
	for c, want := range budgets {
		assert.Equal(t, want, c.GuessBudget(), string(c))
		parsed, ok := ParseChallenge(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, parsed)
	}
	_, ok := ParseChallenge("")
	assert.False(t, ok)
	assert.False(t, Challenge("speedrun").Valid())
}
