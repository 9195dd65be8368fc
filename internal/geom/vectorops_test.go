package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorOps(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}

	assert.Equal(t, []float64{5, 7, 9}, Add(a, b))
	assert.Equal(t, []float64{-3, -3, -3}, Sub(a, b))
	assert.Equal(t, []float64{2, 4, 6}, Mul(a, 2))
	assert.Equal(t, []float64{0.5, 1, 1.5}, Div(a, 2))
	assert.Equal(t, 32.0, Dot(a, b))
	assert.Equal(t, []float64{-3, 6, -3}, Cross(a, b))
	assert.Equal(t, 5.0, Magnitude([]float64{3, 4}))
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, Normalize([]float64{3, 4}), 1e-12)
}

func TestVectorOps_DimensionMismatchPanics(t *testing.T) {
	assert.Panics(t, func() {
		Add([]float64{1}, []float64{1, 2})
	})
}
