package geom

import "math"

// Small float-slice vector helpers shared by field evaluation and the
// exporters. All binary ops require equal lengths; mismatched input is
// a programmer error and panics.

const dimensionPanic = "vector operands must have equal dimensions"

func Add(a, b []float64) []float64 {
	if len(a) != len(b) {
		panic(dimensionPanic)
	}

	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}

	return out
}

func Sub(a, b []float64) []float64 {
	if len(a) != len(b) {
		panic(dimensionPanic)
	}

	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}

	return out
}

func Mul(a []float64, s float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * s
	}

	return out
}

func Div(a []float64, s float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] / s
	}

	return out
}

func Dot(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(dimensionPanic)
	}

	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}

	return sum
}

// Cross is defined for 3 component vectors only.
func Cross(a, b []float64) []float64 {
	if len(a) != 3 || len(b) != 3 {
		panic(dimensionPanic)
	}

	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func Magnitude(a []float64) float64 {
	return math.Sqrt(Dot(a, a))
}

// Normalize returns the unit vector, or a zero vector unchanged.
func Normalize(a []float64) []float64 {
	m := Magnitude(a)
	if m == 0 {
		return Mul(a, 0)
	}

	return Div(a, m)
}
