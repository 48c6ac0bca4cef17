package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	cases := []struct {
		guess, target, want string
	}{
		{"CXAAA", "AAABC", "YBGYY"},
		{"XYCEZ", "ABCDE", "BBGYB"},
		{"CRANE", "CRANE", "GGGGG"},
		{"LLAMA", "HELLO", "YYBBB"},
		{"EERIE", "THOSE", "BBBBG"},
		{"SPEED", "ABIDE", "BBYBY"},
		{"ABBEY", "KEBAB", "YYGYB"},
	}
	for _, tc := range cases {
		t.Run(tc.guess+"/"+tc.target, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.guess, tc.target).String())
		})
	}
}

func TestScoreRepeatedLetterCappedByTarget(t *testing.T) {
	// target has a single O; the guess has three
	r := Score("OOOXX", "ROBIN")
	marked := 0
	for i := 0; i < 3; i++ {
		if r[i] != Black {
			marked++
		}
	}
	assert.Equal(t, 1, marked)
	assert.Equal(t, Green, r[1], "green is preferred over an earlier yellow")
}

func TestResultHelpers(t *testing.T) {
	assert.True(t, Score("PLANT", "PLANT").AllGreen())
	assert.False(t, Score("PLANE", "PLANT").AllGreen())
	assert.Equal(t, "BBBBB", Result{}.String())
}
