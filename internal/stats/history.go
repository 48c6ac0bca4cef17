// internal/stats/history.go
//
// History entries and their canonical ordering.
//
// A history is a list of game outcomes keyed by (gameMode, challenge, id). Normalize
// is the single place that enforces the invariants; every writer (local save, remote
// sync upsert, merge of a new result) funnels through it, so applying it repeatedly
// or receiving the same entry twice never changes the outcome.
package stats

import (
	"math"
	"sort"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
)

// GameMode separates the shared daily puzzle from private practice games.
type GameMode string

const (
	Daily    GameMode = "daily"
	Practice GameMode = "practice"
)

// Entry is one recorded outcome. Guesses and Time are nil when the game was lost.
type Entry struct {
	ID        int              `json:"id"`
	GameMode  GameMode         `json:"gameMode"`
	Challenge puzzle.Challenge `json:"challenge"`
	Guesses   *int             `json:"guesses"`
	Time      *float64         `json:"time"`
}

// Key identifies an entry within a history.
type Key struct {
	GameMode  GameMode
	Challenge puzzle.Challenge
	ID        int
}

func (e Entry) Key() Key {
	return Key{GameMode: e.GameMode, Challenge: e.Challenge, ID: e.ID}
}

// Won reports whether the entry records a solved game.
func (e Entry) Won() bool { return e.Guesses != nil }

// Normalize returns the canonical form of entries:
//  1. entries with id <= 0 are dropped, as are daily entries carrying a practice id;
//  2. duplicates by Key collapse to the last occurrence;
//  3. times are rounded to two decimals;
//  4. entries are stably sorted by ascending id.
//
// Practice entries are retained; they share the list with daily entries and are
// kept apart by GameMode. Missing game modes default to daily and missing
// challenges to normal. The input slice is not modified.
func Normalize(entries []Entry) []Entry {
	last := make(map[Key]int, len(entries))
	fixed := make([]Entry, len(entries))
	for i, e := range entries {
		if e.GameMode == "" {
			e.GameMode = Daily
		}
		if e.Challenge == "" {
			e.Challenge = puzzle.Normal
		}
		fixed[i] = e
		last[e.Key()] = i
	}

	out := make([]Entry, 0, len(last))
	for i, e := range fixed {
		if e.ID <= 0 {
			continue
		}
		if e.GameMode == Daily && puzzle.IsPracticeID(e.ID) {
			continue
		}
		if last[e.Key()] != i {
			continue
		}
		if e.Time != nil {
			t := RoundTime(*e.Time)
			e.Time = &t
		}
		if e.Guesses != nil {
			g := *e.Guesses
			e.Guesses = &g
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddEntry replaces any entry sharing e's key with e and normalizes the result.
func AddEntry(history []Entry, e Entry) []Entry {
	next := make([]Entry, 0, len(history)+1)
	next = append(next, history...)
	next = append(next, e)
	return Normalize(next)
}

// Merge folds incoming entries into history; incoming wins on key collisions.
func Merge(history, incoming []Entry) []Entry {
	next := make([]Entry, 0, len(history)+len(incoming))
	next = append(next, history...)
	next = append(next, incoming...)
	return Normalize(next)
}

// RoundTime rounds a millisecond duration to the nearest 0.01.
func RoundTime(t float64) float64 {
	return math.Round(t*100) / 100
}

// Int and Float are small helpers for building entries.
func Int(v int) *int           { return &v }
func Float(v float64) *float64 { return &v }
