package puzzle

// Challenge is a ruleset variant.
type Challenge string

const (
	Normal   Challenge = "normal"
	Sequence Challenge = "sequence"
	Jumble   Challenge = "jumble"
	Perfect  Challenge = "perfect"
)

// Challenges lists every ruleset in display order.
var Challenges = []Challenge{Normal, Sequence, Jumble, Perfect}

// ParseChallenge validates s. An empty string is not accepted here; callers that
// need the legacy default apply it themselves.
func ParseChallenge(s string) (Challenge, bool) {
	switch c := Challenge(s); c {
	case Normal, Sequence, Jumble, Perfect:
		return c, true
	}
	return "", false
}

// Valid reports whether c is a known challenge.
func (c Challenge) Valid() bool {
	_, ok := ParseChallenge(string(c))
	return ok
}

// GuessBudget is the number of committed guesses allowed before the game ends.
func (c Challenge) GuessBudget() int {
	switch c {
	case Sequence:
		return 39
	case Jumble:
		return 38
	case Perfect:
		return 32
	default:
		return 37
	}
}
