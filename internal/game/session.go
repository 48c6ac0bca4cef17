package game

import (
	"github.com/robalobadob/duotrigordle/internal/serial"
)

// Status reports where the session is in its lifecycle.
func (s Session) Status() Status {
	switch {
	case len(s.Targets) == 0:
		return NotStarted
	case s.Over:
		return GameOver
	default:
		return InProgress
	}
}

// Budget is the guess budget of the session's challenge.
func (s Session) Budget() int { return s.Challenge.GuessBudget() }

// Paused reports whether the timer is suspended.
func (s Session) Paused() bool { return s.PauseTime != 0 }

// Boards derives per-board state from the committed guesses.
func (s Session) Boards() []Board {
	exhausted := len(s.Guesses) >= s.Budget()
	boards := make([]Board, len(s.Targets))
	for i, target := range s.Targets {
		b := Board{Target: target, SolvedAt: -1}
		for j, g := range s.Guesses {
			if g == target {
				b.SolvedAt = j
				b.Won = true
				break
			}
		}
		b.Complete = b.Won || exhausted
		boards[i] = b
	}
	return boards
}

// Won reports whether every board is solved.
func (s Session) Won() bool {
	if len(s.Targets) == 0 {
		return false
	}
	for _, b := range s.Boards() {
		if !b.Won {
			return false
		}
	}
	return true
}

// ActiveBoard is the first board that is not complete, or -1 when all are.
// Sequence mode shows only this board.
func (s Session) ActiveBoard() int {
	for i, b := range s.Boards() {
		if !b.Complete {
			return i
		}
	}
	return -1
}

// Rows returns the colored rows of board i, up to and including its solving guess.
func (s Session) Rows(i int) []Result {
	target := s.Targets[i]
	rows := make([]Result, 0, len(s.Guesses))
	for _, g := range s.Guesses {
		r := Score(g, target)
		rows = append(rows, r)
		if r.AllGreen() {
			break
		}
	}
	return rows
}

// Elapsed is the play time in ms at now, excluding paused intervals. It is never negative.
func (s Session) Elapsed(now int64) int64 {
	if s.StartTime == 0 {
		return 0
	}
	end := now
	switch {
	case s.Over:
		end = s.EndTime
	case s.Paused():
		end = s.PauseTime
	}
	if end < s.StartTime {
		return 0
	}
	return end - s.StartTime
}

// Serialized returns the persisted form of the session.
func (s Session) Serialized() serial.GameSerialized {
	out := serial.GameSerialized{
		ID:        s.ID,
		Challenge: s.Challenge,
		Guesses:   append([]string{}, s.Guesses...),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
	if s.PauseTime != 0 {
		p := s.PauseTime
		out.PauseTime = &p
	}
	return out
}
