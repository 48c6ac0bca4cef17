// internal/game/engine.go
//
// Game state machine for a 32-board session.
// Responsibilities:
//   - Start and Load sessions, always re-deriving targets from the puzzle id.
//   - Apply input (letter, backspace, enter) and timer (pause, unpause) operations.
//   - Decide game over: every board won, or the challenge's guess budget used up.
//   - Emit effects (save, history entry, sequence reveal) instead of calling out.
//
// Notes:
//   - Operations take a Session value and return a new one; the argument is never modified.
//   - Non-dictionary guesses are discarded without consuming budget.
//   - Perfect challenge: the first guess re-seeds the puzzle so that it is a target.
//   - Jumble challenge: the three starter words are committed at Start.
package game

import (
	"strings"

	"github.com/robalobadob/duotrigordle/internal/puzzle"
	"github.com/robalobadob/duotrigordle/internal/serial"
	"github.com/robalobadob/duotrigordle/internal/stats"
)

// HistoryPolicy decides which lost games produce a history entry. Won games always do.
type HistoryPolicy struct {
	RecordDailyLosses    bool
	RecordPracticeLosses bool
}

// DefaultHistoryPolicy records daily losses (they break streaks) and ignores practice losses.
var DefaultHistoryPolicy = HistoryPolicy{RecordDailyLosses: true}

// Engine applies game rules. It holds only read-only tables and is safe to share.
type Engine struct {
	gen    *puzzle.Generator
	policy HistoryPolicy
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryPolicy overrides DefaultHistoryPolicy.
func WithHistoryPolicy(p HistoryPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

func NewEngine(gen *puzzle.Generator, opts ...Option) *Engine {
	e := &Engine{gen: gen, policy: DefaultHistoryPolicy}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Generator exposes the puzzle generator backing the engine.
func (e *Engine) Generator() *puzzle.Generator { return e.gen }

// Start begins a fresh session on puzzle id.
func (e *Engine) Start(id int, c puzzle.Challenge, practice bool) Session {
	s := Session{
		ID:        id,
		Challenge: c,
		Practice:  practice,
		TargetID:  id,
		Targets:   e.gen.Targets(id, c),
		Guesses:   []string{},
	}
	if c == puzzle.Jumble {
		s.Guesses = e.gen.JumbleStarters(s.Targets, id)
	}
	return s
}

// Load restores a validated save. Targets are re-derived and game over is recomputed
// from the current rules rather than trusted from storage.
func (e *Engine) Load(g serial.GameSerialized) Session {
	s := Session{
		ID:        g.ID,
		Challenge: g.Challenge,
		Practice:  puzzle.IsPracticeID(g.ID),
		TargetID:  g.ID,
		Guesses:   make([]string, 0, len(g.Guesses)),
		StartTime: g.StartTime,
		EndTime:   g.EndTime,
	}
	for _, w := range g.Guesses {
		s.Guesses = append(s.Guesses, strings.ToUpper(w))
	}
	if g.PauseTime != nil {
		s.PauseTime = *g.PauseTime
	}

	s.Targets = e.gen.Targets(s.ID, s.Challenge)
	if s.Challenge == puzzle.Perfect && len(s.Guesses) > 0 {
		if id, ok := e.gen.FindPerfectID(s.Guesses[0], s.ID); ok {
			s.TargetID = id
			s.Targets = e.gen.Targets(id, puzzle.Perfect)
		}
	}

	s.Over = len(s.Guesses) >= s.Budget() || s.Won()
	if !s.Over {
		s.EndTime = 0
	} else {
		s.PauseTime = 0
		if s.EndTime < s.StartTime {
			s.EndTime = s.StartTime
		}
	}
	return s
}

// InputLetter appends an A–Z letter (either case) to the input. Anything else,
// a full input or a finished game leaves the session unchanged.
func (e *Engine) InputLetter(s Session, letter rune) Session {
	if s.Status() != InProgress || len(s.Input) >= WordLen {
		return s
	}
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return s
	}
	s.Input += string(letter)
	return s
}

// InputBackspace removes the last input letter.
func (e *Engine) InputBackspace(s Session) Session {
	if s.Status() != InProgress || s.Input == "" {
		return s
	}
	s.Input = s.Input[:len(s.Input)-1]
	return s
}

// InputEnter commits the input as a guess at timestamp ts (ms epoch).
func (e *Engine) InputEnter(s Session, ts int64) (Session, []Effect) {
	if s.Status() != InProgress || s.Input == "" {
		return s, nil
	}
	word := s.Input
	s.Input = ""
	if len(word) != WordLen || !e.gen.Tables().IsValid(word) {
		return s, []Effect{{Kind: EffectInvalidWord, Word: word}}
	}
	if s.Paused() {
		s, _ = e.Unpause(s, ts)
	}

	prevActive := s.ActiveBoard()
	if s.Challenge == puzzle.Perfect && len(s.Guesses) == 0 {
		if id, ok := e.gen.FindPerfectID(word, s.ID); ok {
			s.TargetID = id
			s.Targets = e.gen.Targets(id, puzzle.Perfect)
		}
	}

	guesses := make([]string, len(s.Guesses), len(s.Guesses)+1)
	copy(guesses, s.Guesses)
	s.Guesses = append(guesses, word)
	if s.StartTime == 0 {
		s.StartTime = ts
	}

	won := s.Won()
	effects := make([]Effect, 0, 3)
	if won || len(s.Guesses) >= s.Budget() {
		s.Over = true
		s.EndTime = ts
		if entry, ok := e.historyEntry(s, won); ok {
			effects = append(effects, Effect{Kind: EffectRecordHistory, Entry: &entry})
		}
	} else if s.Challenge == puzzle.Sequence {
		if active := s.ActiveBoard(); active != prevActive {
			effects = append(effects, Effect{Kind: EffectRevealBoard, Board: active})
		}
	}
	effects = append(effects, Effect{Kind: EffectSaveGame})
	return s, effects
}

// Pause suspends the timer at ts. It has no effect before the first guess, after
// the game ended, or while already paused.
func (e *Engine) Pause(s Session, ts int64) (Session, []Effect) {
	if s.Status() != InProgress || s.StartTime == 0 || s.Paused() {
		return s, nil
	}
	if ts < s.StartTime {
		ts = s.StartTime
	}
	s.PauseTime = ts
	return s, []Effect{{Kind: EffectSaveGame}}
}

// Unpause resumes the timer at ts, moving StartTime forward by the paused interval.
func (e *Engine) Unpause(s Session, ts int64) (Session, []Effect) {
	if !s.Paused() {
		return s, nil
	}
	if d := ts - s.PauseTime; d > 0 {
		s.StartTime += d
	}
	s.PauseTime = 0
	return s, []Effect{{Kind: EffectSaveGame}}
}

func (e *Engine) historyEntry(s Session, won bool) (stats.Entry, bool) {
	entry := stats.Entry{ID: s.ID, GameMode: stats.Daily, Challenge: s.Challenge}
	if s.Practice {
		entry.GameMode = stats.Practice
	}
	if won {
		entry.Guesses = stats.Int(len(s.Guesses))
		entry.Time = stats.Float(float64(s.Elapsed(s.EndTime)))
		return entry, true
	}
	if s.Practice {
		return entry, e.policy.RecordPracticeLosses
	}
	return entry, e.policy.RecordDailyLosses
}
