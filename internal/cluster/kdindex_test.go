package cluster

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bruteRange(xs, ys []float64, minX, minY, maxX, maxY float64) []int {
	var out []int
	for i := range xs {
		if xs[i] >= minX && xs[i] <= maxX && ys[i] >= minY && ys[i] <= maxY {
			out = append(out, i)
		}
	}
	return out
}

func TestKDIndex_MatchesBruteForce(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	n := 5000
	xs, ys := make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i], ys[i] = rnd.Float64(), rnd.Float64()
	}
	idx := newKDIndex(n, 16, func(i int) (float64, float64) { return xs[i], ys[i] })

	got := idx.rangeQuery(0.2, 0.3, 0.5, 0.6)
	sort.Ints(got)
	assert.Equal(t, bruteRange(xs, ys, 0.2, 0.3, 0.5, 0.6), got)

	within := idx.within(0.5, 0.5, 0.1)
	sort.Ints(within)
	var want []int
	for i := range xs {
		if sqDist(xs[i], ys[i], 0.5, 0.5) <= 0.01 {
			want = append(want, i)
		}
	}
	assert.Equal(t, want, within)
}

func TestKDIndex_Empty(t *testing.T) {
	idx := newKDIndex(0, 16, nil)
	assert.Empty(t, idx.rangeQuery(0, 0, 1, 1))
	assert.Empty(t, idx.within(0.5, 0.5, 1))
}
