package stats

import (
	"github.com/robalobadob/duotrigordle/internal/puzzle"
)

// Summary is the derived view shown on the statistics screen.
type Summary struct {
	Played        int      `json:"played"`
	Won           int      `json:"won"`
	WinPercent    float64  `json:"winPercent"`
	CurrentStreak int      `json:"currentStreak"`
	MaxStreak     int      `json:"maxStreak"`
	MinGuesses    int      `json:"minGuesses"`
	Distribution  []int    `json:"distribution"` // Distribution[i] counts wins in MinGuesses+i guesses
	BestTime      *float64 `json:"bestTime"`
	AvgTimeLast7  *float64 `json:"avgTimeLast7"`
	AvgTimeAll    *float64 `json:"avgTimeAll"`
}

// Compute derives statistics for one (gameMode, challenge) slice of history.
//
// Streaks are runs of won entries with consecutive ids; a loss or an id gap ends a
// run. When currentID > 0 the current streak only counts if its last id is
// currentID or currentID-1 (today's puzzle not played yet).
func Compute(history []Entry, mode GameMode, c puzzle.Challenge, currentID int) Summary {
	entries := make([]Entry, 0, len(history))
	for _, e := range Normalize(history) {
		if e.GameMode == mode && e.Challenge == c {
			entries = append(entries, e)
		}
	}

	s := Summary{
		MinGuesses:   puzzle.NumBoards,
		Distribution: make([]int, c.GuessBudget()-puzzle.NumBoards+1),
	}
	var (
		run, lastID int
		times       []float64
	)
	for _, e := range entries {
		s.Played++
		if !e.Won() {
			run = 0
			lastID = e.ID
			continue
		}
		s.Won++
		if run > 0 && e.ID == lastID+1 {
			run++
		} else {
			run = 1
		}
		lastID = e.ID
		if run > s.MaxStreak {
			s.MaxStreak = run
		}
		if i := *e.Guesses - s.MinGuesses; i >= 0 && i < len(s.Distribution) {
			s.Distribution[i]++
		}
		if e.Time != nil {
			times = append(times, *e.Time)
		}
	}
	s.CurrentStreak = run
	if currentID > 0 && lastID < currentID-1 {
		s.CurrentStreak = 0
	}
	if s.Played > 0 {
		s.WinPercent = RoundTime(float64(s.Won) / float64(s.Played) * 100)
	}

	if len(times) > 0 {
		best := times[0]
		for _, t := range times[1:] {
			if t < best {
				best = t
			}
		}
		s.BestTime = Float(best)
		s.AvgTimeAll = Float(mean(times))
		recent := times
		if len(recent) > 7 {
			recent = recent[len(recent)-7:]
		}
		s.AvgTimeLast7 = Float(mean(recent))
	}
	return s
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return RoundTime(sum / float64(len(xs)))
}
