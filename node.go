package sceneport

// Node is a finite element node: coordinates plus an optional first
// derivative used by cubic Hermite line interpolation. Diameter is an
// optional per-node thickness picked up by tree-structure exports.
type Node struct {
	id          int
	coordinates []float64
	d1          []float64
	diameter    float64

	// timeCoordinates holds evenly spaced keyframes over the document
	// time range when the model is time varying.
	timeCoordinates [][]float64
}

func (n *Node) Identifier() int {
	return n.id
}

func (n *Node) Coordinates() []float64 {
	return n.coordinates
}

func (n *Node) Derivative1() []float64 {
	return n.d1
}

func (n *Node) Diameter() float64 {
	return n.diameter
}

func (n *Node) isTimeVarying() bool {
	return len(n.timeCoordinates) > 1
}

// coordinatesAt interpolates the node position at normalized time t in
// [0, 1] between keyframes. Static nodes ignore t.
func (n *Node) coordinatesAt(t float64) []float64 {
	if !n.isTimeVarying() {
		return n.coordinates
	}

	if t <= 0 {
		return n.timeCoordinates[0]
	}

	if t >= 1 {
		return n.timeCoordinates[len(n.timeCoordinates)-1]
	}

	span := t * float64(len(n.timeCoordinates)-1)
	lower := int(span)
	frac := span - float64(lower)

	a := n.timeCoordinates[lower]
	b := n.timeCoordinates[lower+1]

	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i]*(1-frac) + b[i]*frac
	}

	return out
}

func byNodeIdentifiers(a, b interface{}) bool {
	n1, n2 := a.(*Node), b.(*Node)
	return n1.id < n2.id
}
