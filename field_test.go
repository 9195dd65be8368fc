package sceneport

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineElement(id int, a, b *Node) *Element {
	return &Element{id: id, shape: ShapeLine, nodes: []*Node{a, b}}
}

func TestEvaluateCoordinates_Hermite(t *testing.T) {
	// Derivatives equal to the chord make the cubic degenerate to a
	// uniform straight line, so interior values are known exactly.
	a := &Node{id: 1, coordinates: []float64{0, 0, 0}, d1: []float64{3, 0, 0}}
	b := &Node{id: 2, coordinates: []float64{3, 0, 0}, d1: []float64{3, 0, 0}}
	el := lineElement(1, a, b)

	tt := []struct {
		xi   float64
		want []float64
	}{
		{0, []float64{0, 0, 0}},
		{0.25, []float64{0.75, 0, 0}},
		{0.5, []float64{1.5, 0, 0}},
		{1, []float64{3, 0, 0}},
	}

	for _, tc := range tt {
		coords, err := EvaluateCoordinates(el, tc.xi)
		require.NoError(t, err)
		assert.InDeltaSlice(t, tc.want, coords, 1e-12)
	}
}

func TestEvaluateCoordinates_LinearFallback(t *testing.T) {
	a := &Node{id: 1, coordinates: []float64{0, 0}}
	b := &Node{id: 2, coordinates: []float64{4, 2}}
	el := lineElement(1, a, b)

	coords, err := EvaluateCoordinates(el, 0.5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 1}, coords, 1e-12)
}

func TestEvaluateDerivative(t *testing.T) {
	a := &Node{id: 1, coordinates: []float64{0, 0, 0}, d1: []float64{3, 0, 0}}
	b := &Node{id: 2, coordinates: []float64{3, 0, 0}, d1: []float64{3, 0, 0}}
	el := lineElement(1, a, b)

	d, err := EvaluateDerivative(el, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 0, 0}, d, 1e-12)

	d, err = EvaluateDerivative(el, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 0, 0}, d, 1e-12)
}

func TestEvaluateCoordinates_Errors(t *testing.T) {
	a := &Node{id: 1, coordinates: []float64{0, 0}}
	b := &Node{id: 2, coordinates: []float64{1, 0}}

	t.Run("xi out of range", func(t *testing.T) {
		_, err := EvaluateCoordinates(lineElement(1, a, b), 1.5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidXi))
	})

	t.Run("surface elements are not sampled by xi", func(t *testing.T) {
		c := &Node{id: 3, coordinates: []float64{1, 1}}
		quad := &Element{id: 2, shape: ShapeTriangle, nodes: []*Node{a, b, c}}

		_, err := EvaluateCoordinates(quad, 0.5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedShape))
	})
}

func TestEvaluateCoordinatesAtTime(t *testing.T) {
	a := &Node{
		id:              1,
		coordinates:     []float64{0, 0},
		timeCoordinates: [][]float64{{0, 0}, {0, 2}},
	}
	b := &Node{
		id:              2,
		coordinates:     []float64{4, 0},
		timeCoordinates: [][]float64{{4, 0}, {4, 2}},
	}
	el := lineElement(1, a, b)

	coords, err := EvaluateCoordinatesAtTime(el, 0.5, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 0}, coords, 1e-12)

	coords, err = EvaluateCoordinatesAtTime(el, 0.5, 1)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 2}, coords, 1e-12)

	coords, err = EvaluateCoordinatesAtTime(el, 0.5, 0.5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 1}, coords, 1e-12)
}
