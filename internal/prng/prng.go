// internal/prng/prng.go
//
// Deterministic pseudo-random generator used for puzzle derivation.
//
// The canonical algorithm is Mulberry32. Every published puzzle's word list is a
// function of this output stream, so the algorithm and its seeding must never change.
//   - New(seed) starts an independent stream; there is no package-level state.
//   - Next() yields the next uint32.
//   - Intn(n) reduces Next() modulo n (modulo bias is accepted; reproducibility wins).
package prng

// Generator is a Mulberry32 stream. The zero value is the stream for seed 0.
type Generator struct {
	state uint32
}

// New seeds a generator. Only the low 32 bits of seed are used.
func New(seed int) *Generator {
	return &Generator{state: uint32(seed)}
}

// Next advances the generator and returns the next value.
func (g *Generator) Next() uint32 {
	g.state += 0x6D2B79F5
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Intn returns Next() % n. It panics if n <= 0.
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		panic("prng: Intn called with n <= 0")
	}
	return int(g.Next() % uint32(n))
}

// Clone returns a generator that continues from the same position.
func (g *Generator) Clone() *Generator {
	c := *g
	return &c
}
