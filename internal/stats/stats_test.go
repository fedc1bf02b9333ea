package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		part, whole int
		want        float64
	}{
		{"ten registrations four present", 4, 10, 40},
		{"zero denominator", 3, 0, 0},
		{"two thirds", 2, 3, 66.67},
		{"all", 7, 7, 100},
		{"none", 0, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.part, tt.whole))
		})
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, 4.0, Mean([]int{5, 4, 3}))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 3.67, Mean([]int{5, 5, 1}))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.24, Round2(1.235000001))
	assert.Equal(t, 0.0, Round2(math.NaN()))
	assert.Equal(t, 0.0, Round2(math.Inf(1)))
}

func TestHistogram(t *testing.T) {
	got := Histogram([]int{5, 4, 3, 9}, 1, 5)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 1, 5: 1}, got)
	assert.Len(t, Histogram(nil, 1, 5), 5)
}

func TestCountWhere(t *testing.T) {
	n := CountWhere([]int{5, 4, 3}, func(v int) bool { return v >= 4 })
	assert.Equal(t, 2, n)
	assert.Equal(t, 66.67, Percent(n, 3))
}
