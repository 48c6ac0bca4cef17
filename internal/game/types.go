// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Color / Result: per-letter evaluation of a guess against one board.
//   - Board: derived per-board state.
//   - Session: the immutable play state passed through engine operations.
//   - Effect: intents emitted by operations for the outside world to act on.
package game

import (
	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

// WordLen is the fixed word width.
const WordLen = 5

// Color is the evaluation of one letter.
type Color uint8

const (
	Black  Color = iota // letter not available in the target
	Yellow              // letter in the target at another position
	Green               // letter at this position
)

func (c Color) String() string {
	switch c {
	case Green:
		return "G"
	case Yellow:
		return "Y"
	default:
		return "B"
	}
}

// Result is the evaluation of a whole guess.
type Result [WordLen]Color

// String renders the result as e.g. "BYGBB".
func (r Result) String() string {
	b := make([]byte, WordLen)
	for i, c := range r {
		b[i] = c.String()[0]
	}
	return string(b)
}

// AllGreen reports whether the guess equals the target.
func (r Result) AllGreen() bool {
	for _, c := range r {
		if c != Green {
			return false
		}
	}
	return true
}

// Status is the coarse lifecycle state of a session.
type Status int

const (
	NotStarted Status = iota
	InProgress
	GameOver
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case GameOver:
		return "game_over"
	default:
		return "not_started"
	}
}

// Board is the derived state of one target.
type Board struct {
	Target   string `json:"-"`
	Complete bool   `json:"complete"`
	Won      bool   `json:"won"`
	// SolvedAt is the index into Guesses of the solving guess, or -1.
	SolvedAt int `json:"solvedAt"`
}

// Session is a value: engine operations return an updated copy and never modify
// the slices of the session they were given.
type Session struct {
	ID        int
	Challenge puzzle.Challenge
	Practice  bool

	// TargetID is the id the targets were derived from. It differs from ID only after a
	// perfect-challenge first guess re-seeded the puzzle.
	TargetID int
	Targets  []string

	Input   string
	Guesses []string

	StartTime int64 // ms epoch of the first committed guess, 0 until then
	EndTime   int64 // ms epoch at which the game ended, 0 until then
	PauseTime int64 // ms epoch the timer was paused at, 0 when running

	Over bool
}

// EffectKind discriminates Effect.
type EffectKind string

const (
	// EffectSaveGame asks the collaborator to persist Session.Serialized().
	EffectSaveGame EffectKind = "save_game"
	// EffectRecordHistory carries a finished game's history entry.
	EffectRecordHistory EffectKind = "record_history"
	// EffectRevealBoard reports a new active board in sequence mode.
	EffectRevealBoard EffectKind = "reveal_board"
	// EffectInvalidWord reports a discarded non-dictionary guess.
	EffectInvalidWord EffectKind = "invalid_word"
)

// Effect is an intent emitted by an engine operation. The engine never performs it.
type Effect struct {
	Kind  EffectKind   `json:"kind"`
	Entry *stats.Entry `json:"entry,omitempty"`
	Board int          `json:"board,omitempty"`
	Word  string       `json:"word,omitempty"`
}
