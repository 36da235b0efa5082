package numerology_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"numerology/internal/numerology"
)

func TestReduce(t *testing.T) {
	tests := []struct {
		name   string
		seq    []int
		bound  int
		master bool
		want   int
	}{
		{"empty", nil, 9, true, 0},
		{"zero", []int{0}, 9, false, 0},
		{"eighteen reduces past non master", []int{9, 9}, 9, true, 9},
		{"eleven kept as master", []int{2, 9}, 9, true, 11},
		{"eleven strict", []int{2, 9}, 9, false, 2},
		{"twenty two kept", []int{9, 9, 4}, 9, true, 22},
		{"year 1990 strict", []int{1, 9, 9, 0}, 9, false, 1},
		{"wide keeps compound", []int{9, 4}, 19, false, 13},
		{"wide reduces above bound", []int{9, 9, 8}, 19, false, 8},
		{"wide stops at master", []int{9, 9, 9, 9, 9, 9, 9, 9, 5}, 19, true, 77},
		{"wide strict through 77", []int{9, 9, 9, 9, 9, 9, 9, 9, 5}, 19, false, 14},
		{"age bound", []int{1, 9, 9, 0}, 52, true, 19},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := numerology.Reduce(tc.seq, tc.bound, tc.master)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReduceTerminatesWithinBoundOrMaster(t *testing.T) {
	for _, bound := range []int{9, 19, 52} {
		for _, master := range []bool{true, false} {
			for n := 0; n <= 5000; n++ {
				got := numerology.Reduce([]int{n}, bound, master)
				ok := got <= bound || (master && got%11 == 0)
				require.Truef(t, ok, "reduce(%d, %d, %v) = %d", n, bound, master, got)
			}
		}
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	for _, master := range []bool{true, false} {
		for n := 0; n <= 2000; n++ {
			once := numerology.Reduce(numerology.DigitsOf(n), 9, master)
			twice := numerology.Reduce([]int{once}, 9, master)
			require.Equalf(t, once, twice, "n=%d master=%v", n, master)
		}
	}
}

func TestDigitsOf(t *testing.T) {
	assert.Equal(t, []int{0}, numerology.DigitsOf(0))
	assert.Equal(t, []int{7}, numerology.DigitsOf(7))
	assert.Equal(t, []int{1, 9, 9, 0}, numerology.DigitsOf(1990))
	assert.Equal(t, []int{2, 6}, numerology.DigitsOf(-26))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 2, numerology.Strict([]int{1, 6, 8, 5}))
	assert.Equal(t, 11, numerology.Master([]int{5, 6}))
	assert.Equal(t, 16, numerology.Wide([]int{7, 9}, true))
}
