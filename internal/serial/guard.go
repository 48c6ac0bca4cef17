// internal/serial/guard.go
//
// Boundary validation for loosely-typed data read from storage or the network.
//
// Guards never return errors and never panic: malformed input yields nil and the
// caller starts fresh. Unknown fields are ignored, so the returned records only carry
// the fields this package knows about.
package serial

import (
	"math"
	"strings"

	"github.com/goccy/go-json"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

// GameSerialized is the persisted shape of a game save.
type GameSerialized struct {
	ID        int              `json:"id"`
	Challenge puzzle.Challenge `json:"challenge"`
	Guesses   []string         `json:"guesses"`
	StartTime int64            `json:"startTime"`
	EndTime   int64            `json:"endTime"`
	PauseTime *int64           `json:"pauseTime"`
}

// StatsSerialized is the persisted shape of the statistics history.
type StatsSerialized struct {
	History []stats.Entry `json:"history"`
}

// ParseGame decodes JSON and runs AssertGameSerialized on the result.
func ParseGame(data []byte) *GameSerialized {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return AssertGameSerialized(v)
}

// ParseStats decodes JSON and runs AssertStatsSerialized on the result.
func ParseStats(data []byte) *StatsSerialized {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return AssertStatsSerialized(v)
}

// AssertGameSerialized validates a decoded game save. It returns nil when a required
// field is missing or mistyped, a guess is not a five-letter word, or there are more
// guesses than the challenge allows.
func AssertGameSerialized(v any) *GameSerialized {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	id, ok := asInt(m["id"])
	if !ok || id <= 0 {
		return nil
	}
	cs, ok := m["challenge"].(string)
	if !ok {
		return nil
	}
	challenge, ok := puzzle.ParseChallenge(cs)
	if !ok {
		return nil
	}
	guesses, ok := asWords(m["guesses"])
	if !ok || len(guesses) > challenge.GuessBudget() {
		return nil
	}
	start, ok := asInt(m["startTime"])
	if !ok || start < 0 {
		return nil
	}
	end, ok := asInt(m["endTime"])
	if !ok || end < 0 {
		return nil
	}

	out := &GameSerialized{
		ID:        int(id),
		Challenge: challenge,
		Guesses:   guesses,
		StartTime: start,
		EndTime:   end,
	}
	if raw, present := m["pauseTime"]; present && raw != nil {
		p, ok := asInt(raw)
		if !ok || p < 0 {
			return nil
		}
		out.PauseTime = &p
	}
	return out
}

// AssertStatsSerialized validates a decoded stats payload. The top level must be an
// object with a history array; individual malformed entries are dropped.
func AssertStatsSerialized(v any) *StatsSerialized {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	list, ok := m["history"].([]any)
	if !ok {
		return nil
	}
	out := &StatsSerialized{History: make([]stats.Entry, 0, len(list))}
	for _, raw := range list {
		if e, ok := AssertHistoryEntry(raw); ok {
			out.History = append(out.History, e)
		}
	}
	return out
}

// AssertHistoryEntry validates one history entry. A missing challenge defaults to
// normal and a missing gameMode to daily; null or missing guesses/time mean "not solved".
func AssertHistoryEntry(v any) (stats.Entry, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return stats.Entry{}, false
	}
	id, ok := asInt(m["id"])
	if !ok {
		return stats.Entry{}, false
	}
	e := stats.Entry{ID: int(id), GameMode: stats.Daily, Challenge: puzzle.Normal}

	if raw, present := m["challenge"]; present {
		s, ok := raw.(string)
		if !ok {
			return stats.Entry{}, false
		}
		if e.Challenge, ok = puzzle.ParseChallenge(s); !ok {
			return stats.Entry{}, false
		}
	}
	if raw, present := m["gameMode"]; present {
		switch raw {
		case string(stats.Daily):
			e.GameMode = stats.Daily
		case string(stats.Practice):
			e.GameMode = stats.Practice
		default:
			return stats.Entry{}, false
		}
	}
	if raw := m["guesses"]; raw != nil {
		g, ok := asInt(raw)
		if !ok {
			return stats.Entry{}, false
		}
		e.Guesses = stats.Int(int(g))
	}
	if raw := m["time"]; raw != nil {
		t, ok := asFloat(raw)
		if !ok {
			return stats.Entry{}, false
		}
		e.Time = stats.Float(t)
	}
	return e, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return asFloat(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return asFloat(f)
	}
	return 0, false
}

// asInt accepts integral numbers only; 3.5 is rejected, 3.0 is accepted.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

func asWords(v any) ([]string, bool) {
	var raw []any
	switch l := v.(type) {
	case []any:
		raw = l
	case []string:
		raw = make([]any, len(l))
		for i, s := range l {
			raw[i] = s
		}
	default:
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, x := range raw {
		s, ok := x.(string)
		if !ok {
			return nil, false
		}
		s = strings.ToUpper(s)
		if !isWord(s) {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func isWord(s string) bool {
	if len(s) != 5 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
