package serial

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

func validSave() map[string]any {
	return map[string]any{
		"id":        float64(12),
		"challenge": "normal",
		"guesses":   []any{"crane", "SLATE"},
		"startTime": float64(1700000000000),
		"endTime":   float64(0),
		"pauseTime": nil,
	}
}

func TestAssertGameSerializedNil(t *testing.T) {
	assert.Nil(t, AssertGameSerialized(nil))
	assert.Nil(t, AssertGameSerialized("save"))
	assert.Nil(t, AssertGameSerialized([]any{}))
}

func TestAssertGameSerializedValid(t *testing.T) {
	got := AssertGameSerialized(validSave())
	require.NotNil(t, got)
	assert.Equal(t, 12, got.ID)
	assert.Equal(t, puzzle.Normal, got.Challenge)
	assert.Equal(t, []string{"CRANE", "SLATE"}, got.Guesses)
	assert.Equal(t, int64(1700000000000), got.StartTime)
	assert.Nil(t, got.PauseTime)
}

func TestAssertGameSerializedStripsUnknownFields(t *testing.T) {
	raw := validSave()
	raw["theme"] = "dark"
	raw["pauseTime"] = float64(1700000005000)

	got := AssertGameSerialized(raw)
	require.NotNil(t, got)
	require.NotNil(t, got.PauseTime)
	assert.Equal(t, int64(1700000005000), *got.PauseTime)

	out, err := json.Marshal(got)
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(out, &keys))
	assert.NotContains(t, keys, "theme")
	assert.Len(t, keys, 6)
}

func TestAssertGameSerializedRejects(t *testing.T) {
	tooMany := make([]any, 38)
	for i := range tooMany {
		tooMany[i] = "CRANE"
	}
	cases := map[string]func(m map[string]any){
		"missing id":         func(m map[string]any) { delete(m, "id") },
		"string id":          func(m map[string]any) { m["id"] = "12" },
		"fractional id":      func(m map[string]any) { m["id"] = 12.5 },
		"zero id":            func(m map[string]any) { m["id"] = float64(0) },
		"missing challenge":  func(m map[string]any) { delete(m, "challenge") },
		"unknown challenge":  func(m map[string]any) { m["challenge"] = "hard" },
		"guesses not list":   func(m map[string]any) { m["guesses"] = "CRANE" },
		"guess not string":   func(m map[string]any) { m["guesses"] = []any{"CRANE", float64(5)} },
		"guess wrong length": func(m map[string]any) { m["guesses"] = []any{"CRANES"} },
		"guess not letters":  func(m map[string]any) { m["guesses"] = []any{"CR4NE"} },
		"over budget":        func(m map[string]any) { m["guesses"] = tooMany },
		"missing startTime":  func(m map[string]any) { delete(m, "startTime") },
		"negative endTime":   func(m map[string]any) { m["endTime"] = float64(-1) },
		"pauseTime mistyped": func(m map[string]any) { m["pauseTime"] = "later" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			m := validSave()
			mutate(m)
			assert.Nil(t, AssertGameSerialized(m))
		})
	}
}

func TestAssertGameSerializedBudgetPerChallenge(t *testing.T) {
	m := validSave()
	m["challenge"] = "sequence"
	g := make([]any, 39)
	for i := range g {
		g[i] = "CRANE"
	}
	m["guesses"] = g
	assert.NotNil(t, AssertGameSerialized(m), "39 guesses fit the sequence budget")

	m["challenge"] = "perfect"
	assert.Nil(t, AssertGameSerialized(m))
}

func TestParseGame(t *testing.T) {
	got := ParseGame([]byte(`{"id":3,"challenge":"jumble","guesses":[],"startTime":0,"endTime":0,"extra":{"a":1}}`))
	require.NotNil(t, got)
	assert.Equal(t, puzzle.Jumble, got.Challenge)
	assert.Empty(t, got.Guesses)

	assert.Nil(t, ParseGame([]byte(`null`)))
	assert.Nil(t, ParseGame([]byte(`{not json`)))
}

func TestAssertStatsSerialized(t *testing.T) {
	assert.Nil(t, AssertStatsSerialized(nil))
	assert.Nil(t, AssertStatsSerialized(map[string]any{"history": "x"}))

	got := ParseStats([]byte(`{"history":[
		{"id":1,"guesses":null,"time":1234},
		{"id":2,"guesses":33,"time":1234.5,"challenge":"sequence","gameMode":"daily"},
		{"id":3,"guesses":"33","time":10},
		{"guesses":33},
		{"id":4,"challenge":"unknown"},
		{"id":5,"gameMode":"arcade"},
		{"id":6,"guesses":34,"time":"fast"},
		"garbage",
		{"id":100123,"gameMode":"practice","guesses":35,"time":99}
	],"version":2}`))
	require.NotNil(t, got)
	require.Len(t, got.History, 3)

	assert.Equal(t, stats.Entry{ID: 1, GameMode: stats.Daily, Challenge: puzzle.Normal, Time: stats.Float(1234)}, got.History[0])
	assert.Equal(t, puzzle.Sequence, got.History[1].Challenge)
	assert.Equal(t, 33, *got.History[1].Guesses)
	assert.Equal(t, stats.Practice, got.History[2].GameMode)
}
