package sceneport

import "github.com/pkg/errors"

var ErrInvalidElementShape = errors.New("invalid element shape")

type ElementShape string

const (
	ShapeLine     ElementShape = "line"
	ShapeTriangle ElementShape = "triangle"
	ShapeQuad     ElementShape = "quad"
)

func (s ElementShape) nodeCount() int {
	switch s {
	case ShapeLine:
		return 2
	case ShapeTriangle:
		return 3
	case ShapeQuad:
		return 4
	default:
		return 0
	}
}

// Element references its nodes directly; node order carries the
// element topology (line ends, winding for surfaces).
type Element struct {
	id    int
	shape ElementShape
	nodes []*Node
}

func (el *Element) Identifier() int {
	return el.id
}

func (el *Element) Shape() ElementShape {
	return el.shape
}

func (el *Element) Nodes() []*Node {
	return el.nodes
}

func (el *Element) IsLine() bool {
	return el.shape == ShapeLine
}

func (el *Element) IsSurface() bool {
	return el.shape == ShapeTriangle || el.shape == ShapeQuad
}

func (el *Element) isTimeVarying() bool {
	for _, n := range el.nodes {
		if n.isTimeVarying() {
			return true
		}
	}

	return false
}

func byElementIdentifiers(a, b interface{}) bool {
	e1, e2 := a.(*Element), b.(*Element)
	return e1.id < e2.id
}
