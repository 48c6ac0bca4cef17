// internal/puzzle/puzzle.go
//
// Deterministic puzzle derivation.
//
// A puzzle is fully determined by its id: the target list is drawn from the target
// pool in force for that id using a PRNG seeded with the id. Draw order is board order.
// Jumble starters come from a second, independently seeded stream over the valid-guess
// pool. Output must be byte-identical across runs and versions, since every player of a
// daily puzzle derives it locally.
package puzzle

import (
	"fmt"

	"github.com/robalobadob/duotrigordle/internal/prng"
	"github.com/robalobadob/duotrigordle/internal/words"
)

const (
	NumBoards   = 32
	NumStarters = 3

	// MinStarterLetters is the fewest distinct letters a jumble starter triple may cover.
	MinStarterLetters = 10

	// PerfectSearchLimit bounds the forward id scan in FindPerfectID.
	PerfectSearchLimit = 10_000

	maxStarterAttempts = 10_000
)

// Generator derives puzzles from a set of word tables.
type Generator struct {
	tables *words.Tables
}

func NewGenerator(t *words.Tables) *Generator {
	return &Generator{tables: t}
}

// Tables exposes the word tables the generator draws from.
func (g *Generator) Tables() *words.Tables { return g.tables }

// Targets returns the 32 target words for puzzle id under challenge c.
// It panics if id <= 0 or c is unknown.
func (g *Generator) Targets(id int, c Challenge) []string {
	if id <= 0 {
		panic(fmt.Sprintf("puzzle: invalid id %d", id))
	}
	if !c.Valid() {
		panic(fmt.Sprintf("puzzle: unknown challenge %q", c))
	}
	pool := g.tables.TargetPool(id)
	rng := prng.New(id)

	out := make([]string, 0, NumBoards)
	seen := make(map[string]struct{}, NumBoards)
	for len(out) < NumBoards {
		w := pool[rng.Intn(len(pool))]
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// JumbleStarters returns the three pre-committed words of a jumble puzzle.
//
// Candidates are valid-pool words that are not in targets. A triple is drawn (distinct
// words) and accepted only if it covers at least MinStarterLetters distinct letters;
// otherwise the whole triple is redrawn from the same stream.
func (g *Generator) JumbleStarters(targets []string, id int) []string {
	exclude := make(map[string]struct{}, len(targets))
	for _, w := range targets {
		exclude[w] = struct{}{}
	}
	valid := g.tables.ValidPool()
	cands := make([]string, 0, len(valid))
	for _, w := range valid {
		if _, ok := exclude[w]; !ok {
			cands = append(cands, w)
		}
	}
	if len(cands) < NumStarters {
		panic("puzzle: not enough non-target words for jumble starters")
	}

	rng := prng.New(int(starterSeed(id)))
	for attempt := 0; attempt < maxStarterAttempts; attempt++ {
		triple := make([]string, 0, NumStarters)
		for len(triple) < NumStarters {
			w := cands[rng.Intn(len(cands))]
			if contains(triple, w) {
				continue
			}
			triple = append(triple, w)
		}
		if distinctLetters(triple) >= MinStarterLetters {
			return triple
		}
	}
	panic("puzzle: word tables cannot satisfy jumble starter diversity")
}

// FindPerfectID returns the smallest id' in [id, id+PerfectSearchLimit) whose perfect
// puzzle contains guess. ok is false when guess was never a target or no id matched.
func (g *Generator) FindPerfectID(guess string, id int) (found int, ok bool) {
	if !g.tables.IsTarget(guess) {
		return id, false
	}
	for cand := id; cand < id+PerfectSearchLimit; cand++ {
		if contains(g.Targets(cand, Perfect), guess) {
			return cand, true
		}
	}
	return id, false
}

// starterSeed scrambles id so the starter stream is unrelated to the target stream.
func starterSeed(id int) uint32 {
	s := uint32(id) * 2654435761
	s = (s ^ (s >> 16)) * 0x85ebca6b
	s = (s ^ (s >> 13)) * 0xc2b2ae35
	return s ^ (s >> 16)
}

func distinctLetters(ws []string) int {
	var seen [26]bool
	n := 0
	for _, w := range ws {
		for i := 0; i < len(w); i++ {
			c := w[i] - 'A'
			if c < 26 && !seen[c] {
				seen[c] = true
				n++
			}
		}
	}
	return n
}

func contains(list []string, w string) bool {
	for _, x := range list {
		if x == w {
			return true
		}
	}
	return false
}
