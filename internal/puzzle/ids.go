package puzzle

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Practice puzzles use ids in [PracticeIDMin, PracticeIDMax). Daily ids stay far below.
const (
	PracticeIDMin = 100_000
	PracticeIDMax = 1_000_000
)

// DailyEpoch is the calendar day of daily puzzle #1.
var DailyEpoch = time.Date(2022, time.January, 24, 0, 0, 0, 0, time.UTC)

// DailyID returns the daily puzzle id for the calendar date of t in t's location.
// Dates before the epoch map to 1.
func DailyID(t time.Time) int {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	id := int(day.Sub(DailyEpoch).Hours()/24) + 1
	if id < 1 {
		return 1
	}
	return id
}

// IsPracticeID reports whether id falls in the practice range.
func IsPracticeID(id int) bool {
	return id >= PracticeIDMin && id < PracticeIDMax
}

// RandomPracticeID draws a fresh practice id from crypto/rand.
func RandomPracticeID() int {
	n, err := rand.Int(rand.Reader, big.NewInt(PracticeIDMax-PracticeIDMin))
	if err != nil {
		return PracticeIDMin
	}
	return PracticeIDMin + int(n.Int64())
}
