package prng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownVectors(t *testing.T) {
	cases := []struct {
		seed int
		want []uint32
	}{
		{0, []uint32{1144304738, 1416247, 958946056, 627933444, 2007157716}},
		{1, []uint32{2693262067, 11749833, 2265367787, 4213581821, 4159151403}},
		{12, []uint32{1237598750, 324989476, 2491772807, 4043112305, 656148980}},
		{42, []uint32{2581720956, 1925393290, 3661312704, 2876485805, 750819978}},
	}
	for _, tc := range cases {
		g := New(tc.seed)
		got := make([]uint32, len(tc.want))
		for i := range got {
			got[i] = g.Next()
		}
		assert.Equal(t, tc.want, got, "seed %d", tc.seed)
	}
}

func TestSameSeedSameStream(t *testing.T) {
	for _, seed := range []int{0, 1, 7, 12345, 999999, -3} {
		a, b := New(seed), New(seed)
		for i := 0; i < 10000; i++ {
			require.Equal(t, a.Next(), b.Next(), "seed %d diverged at %d", seed, i)
		}
	}
}

func TestStreamsAreIndependent(t *testing.T) {
	a := New(5)
	a.Next()
	a.Next()
	b := New(5)
	assert.Equal(t, New(5).Next(), b.Next())
}

func TestIntnRange(t *testing.T) {
	g := New(99)
	for i := 0; i < 1000; i++ {
		n := g.Intn(37)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 37)
	}
	assert.Panics(t, func() { g.Intn(0) })
}

func TestClone(t *testing.T) {
	g := New(3)
	g.Next()
	c := g.Clone()
	assert.Equal(t, g.Next(), c.Next())
}
