package sceneport

import (
	"github.com/pkg/errors"

	"github.com/anatomap/sceneport/internal/geom"
)

var ErrInvalidXi = errors.New("xi location outside element")
var ErrUnsupportedShape = errors.New("field evaluation is only defined on line elements")

// EvaluateCoordinates interpolates element coordinates at xi in [0, 1].
// Line elements with first derivatives on both nodes use the cubic
// Hermite basis; without derivatives the element degrades to linear.
func EvaluateCoordinates(el *Element, xi float64) ([]float64, error) {
	return evaluateAt(el, xi, 0)
}

// EvaluateDerivative interpolates the d/dxi derivative at xi in [0, 1].
func EvaluateDerivative(el *Element, xi float64) ([]float64, error) {
	return evaluateDerivativeAt(el, xi, 0)
}

// EvaluateCoordinatesAtTime is EvaluateCoordinates at normalized time
// t in [0, 1] for time varying meshes; static meshes ignore t.
func EvaluateCoordinatesAtTime(el *Element, xi, t float64) ([]float64, error) {
	return evaluateAt(el, xi, t)
}

func evaluateAt(el *Element, xi, t float64) ([]float64, error) {
	if el == nil || !el.IsLine() {
		return nil, ErrUnsupportedShape
	}

	if xi < 0 || xi > 1 {
		return nil, errors.Wrapf(ErrInvalidXi, "xi %v", xi)
	}

	n0, n1 := el.nodes[0], el.nodes[1]
	x0 := n0.coordinatesAt(t)
	x1 := n1.coordinatesAt(t)

	if !el.hasHermiteBasis() {
		return geom.Add(geom.Mul(x0, 1-xi), geom.Mul(x1, xi)), nil
	}

	h1 := 2*xi*xi*xi - 3*xi*xi + 1
	h2 := xi*xi*xi - 2*xi*xi + xi
	h3 := -2*xi*xi*xi + 3*xi*xi
	h4 := xi*xi*xi - xi*xi

	out := geom.Mul(x0, h1)
	out = geom.Add(out, geom.Mul(n0.d1, h2))
	out = geom.Add(out, geom.Mul(x1, h3))
	out = geom.Add(out, geom.Mul(n1.d1, h4))

	return out, nil
}

func evaluateDerivativeAt(el *Element, xi, t float64) ([]float64, error) {
	if el == nil || !el.IsLine() {
		return nil, ErrUnsupportedShape
	}

	if xi < 0 || xi > 1 {
		return nil, errors.Wrapf(ErrInvalidXi, "xi %v", xi)
	}

	n0, n1 := el.nodes[0], el.nodes[1]
	x0 := n0.coordinatesAt(t)
	x1 := n1.coordinatesAt(t)

	if !el.hasHermiteBasis() {
		return geom.Sub(x1, x0), nil
	}

	dh1 := 6*xi*xi - 6*xi
	dh2 := 3*xi*xi - 4*xi + 1
	dh3 := -6*xi*xi + 6*xi
	dh4 := 3*xi*xi - 2*xi

	out := geom.Mul(x0, dh1)
	out = geom.Add(out, geom.Mul(n0.d1, dh2))
	out = geom.Add(out, geom.Mul(x1, dh3))
	out = geom.Add(out, geom.Mul(n1.d1, dh4))

	return out, nil
}

func (el *Element) hasHermiteBasis() bool {
	if !el.IsLine() {
		return false
	}

	for _, n := range el.nodes {
		if len(n.d1) != len(n.coordinates) || len(n.d1) == 0 {
			return false
		}
	}

	return true
}
