package sceneport

import (
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
)

var ErrNodeDoesNotExist = errors.New("node does not exist")
var ErrElementDoesNotExist = errors.New("element does not exist")
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

const nodeCastPanic = "how could node index item not be of type *Node"
const elementCastPanic = "how could element index item not be of type *Element"

type (
	nodeIterator    func(n *Node) bool
	elementIterator func(el *Element) bool
)

// Mesh holds the nodes and elements of a single region, ordered by
// identifier.
type Mesh struct {
	nodes    *btree.BTree
	elements *btree.BTree
}

func newMesh() *Mesh {
	return &Mesh{
		nodes:    btree.NewNonConcurrent(byNodeIdentifiers),
		elements: btree.NewNonConcurrent(byElementIdentifiers),
	}
}

func (m *Mesh) addNode(n *Node) error {
	if existing := m.nodes.Set(n); existing != nil {
		_ = m.nodes.Set(existing)
		return errors.Wrapf(ErrDuplicateIdentifier, "node %d", n.id)
	}

	return nil
}

func (m *Mesh) addElement(el *Element) error {
	if existing := m.elements.Set(el); existing != nil {
		_ = m.elements.Set(existing)
		return errors.Wrapf(ErrDuplicateIdentifier, "element %d", el.id)
	}

	return nil
}

func (m *Mesh) NodeCount() int {
	return m.nodes.Len()
}

func (m *Mesh) ElementCount() int {
	return m.elements.Len()
}

func (m *Mesh) FindNode(id int) (*Node, error) {
	found := m.nodes.Get(&Node{id: id})
	if found == nil {
		return nil, errors.Wrapf(ErrNodeDoesNotExist, "node %d does not exist in mesh", id)
	}

	n, ok := found.(*Node)
	if !ok {
		panic(nodeCastPanic)
	}

	return n, nil
}

func (m *Mesh) FindElement(id int) (*Element, error) {
	found := m.elements.Get(&Element{id: id})
	if found == nil {
		return nil, errors.Wrapf(ErrElementDoesNotExist, "element %d does not exist in mesh", id)
	}

	el, ok := found.(*Element)
	if !ok {
		panic(elementCastPanic)
	}

	return el, nil
}

// ForEachNode iterates nodes in ascending identifier order until the
// iterator returns false.
func (m *Mesh) ForEachNode(ir nodeIterator) {
	m.nodes.Ascend(nil, func(item interface{}) bool {
		n, ok := item.(*Node)
		if !ok {
			panic(nodeCastPanic)
		}

		return ir(n)
	})
}

// ForEachElement iterates elements in ascending identifier order until
// the iterator returns false.
func (m *Mesh) ForEachElement(ir elementIterator) {
	m.elements.Ascend(nil, func(item interface{}) bool {
		el, ok := item.(*Element)
		if !ok {
			panic(elementCastPanic)
		}

		return ir(el)
	})
}

// LineElements collects line elements in identifier order.
func (m *Mesh) LineElements() []*Element {
	var lines []*Element
	m.ForEachElement(func(el *Element) bool {
		if el.IsLine() {
			lines = append(lines, el)
		}
		return true
	})

	return lines
}

// SurfaceElements collects triangle and quad elements in identifier order.
func (m *Mesh) SurfaceElements() []*Element {
	var surfaces []*Element
	m.ForEachElement(func(el *Element) bool {
		if el.IsSurface() {
			surfaces = append(surfaces, el)
		}
		return true
	})

	return surfaces
}

func (m *Mesh) isTimeVarying() bool {
	varying := false
	m.ForEachNode(func(n *Node) bool {
		if n.isTimeVarying() {
			varying = true
			return false
		}
		return true
	})

	return varying
}

// LineChains joins line elements that share endpoint nodes into ordered
// polylines. Chains start at elements whose first node is not the tail
// of any other element; closed loops break at the revisited element. At
// a branch node the earliest listed continuation extends the chain and
// the remaining branches form chains of their own.
func LineChains(lines []*Element) [][]*Element {
	if len(lines) == 0 {
		return nil
	}

	byStart := make(map[int][]*Element, len(lines))
	tails := make(map[int]bool, len(lines))
	for _, el := range lines {
		byStart[el.nodes[0].id] = append(byStart[el.nodes[0].id], el)
		tails[el.nodes[1].id] = true
	}

	visited := make(map[int]bool, len(lines))
	var chains [][]*Element

	follow := func(el *Element) []*Element {
		chain := []*Element{el}
		visited[el.id] = true
		for {
			var next *Element
			for _, cand := range byStart[chain[len(chain)-1].nodes[1].id] {
				if !visited[cand.id] {
					next = cand
					break
				}
			}
			if next == nil {
				break
			}

			chain = append(chain, next)
			visited[next.id] = true
		}

		return chain
	}

	for _, el := range lines {
		if visited[el.id] || tails[el.nodes[0].id] {
			continue
		}

		chains = append(chains, follow(el))
	}

	// whatever remains belongs to closed loops or unfollowed branches
	for _, el := range lines {
		if !visited[el.id] {
			chains = append(chains, follow(el))
		}
	}

	return chains
}
