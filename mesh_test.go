package sceneport

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNode(id int, coords ...float64) *Node {
	return &Node{id: id, coordinates: coords}
}

func TestMesh_AddAndFind(t *testing.T) {
	m := newMesh()

	require.NoError(t, m.addNode(testNode(1, 0, 0)))
	require.NoError(t, m.addNode(testNode(2, 1, 0)))
	require.NoError(t, m.addElement(&Element{id: 1, shape: ShapeLine, nodes: []*Node{}}))

	t.Run("find existing", func(t *testing.T) {
		n, err := m.FindNode(2)
		require.NoError(t, err)
		assert.Equal(t, 2, n.Identifier())

		el, err := m.FindElement(1)
		require.NoError(t, err)
		assert.Equal(t, 1, el.Identifier())
	})

	t.Run("find missing", func(t *testing.T) {
		_, err := m.FindNode(99)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNodeDoesNotExist))

		_, err = m.FindElement(99)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrElementDoesNotExist))
	})

	t.Run("duplicate identifiers are rejected and the original kept", func(t *testing.T) {
		original, err := m.FindNode(1)
		require.NoError(t, err)

		err = m.addNode(testNode(1, 5, 5))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDuplicateIdentifier))

		kept, err := m.FindNode(1)
		require.NoError(t, err)
		assert.Same(t, original, kept)
	})
}

func TestMesh_IterationOrder(t *testing.T) {
	m := newMesh()
	for _, id := range []int{5, 1, 3} {
		require.NoError(t, m.addNode(testNode(id, float64(id))))
	}

	var order []int
	m.ForEachNode(func(n *Node) bool {
		order = append(order, n.Identifier())
		return true
	})

	assert.Equal(t, []int{1, 3, 5}, order)
}

func TestLineChains(t *testing.T) {
	n := make(map[int]*Node)
	node := func(id int) *Node {
		if n[id] == nil {
			n[id] = testNode(id, float64(id), 0)
		}
		return n[id]
	}
	line := func(id, a, b int) *Element {
		return &Element{id: id, shape: ShapeLine, nodes: []*Node{node(a), node(b)}}
	}

	t.Run("single chain regardless of element order", func(t *testing.T) {
		lines := []*Element{line(3, 3, 4), line(1, 1, 2), line(2, 2, 3)}

		chains := LineChains(lines)
		require.Len(t, chains, 1)
		require.Len(t, chains[0], 3)
		assert.Equal(t, 1, chains[0][0].Identifier())
		assert.Equal(t, 2, chains[0][1].Identifier())
		assert.Equal(t, 3, chains[0][2].Identifier())
	})

	t.Run("disjoint segments become separate chains", func(t *testing.T) {
		lines := []*Element{line(1, 1, 2), line(2, 5, 6)}

		chains := LineChains(lines)
		require.Len(t, chains, 2)
		assert.Len(t, chains[0], 1)
		assert.Len(t, chains[1], 1)
	})

	t.Run("branch node keeps the earliest continuation, rest chain separately", func(t *testing.T) {
		// two lines leave node 2; neither may be dropped
		lines := []*Element{line(1, 1, 2), line(2, 2, 3), line(3, 2, 4)}

		chains := LineChains(lines)
		require.Len(t, chains, 2)
		require.Len(t, chains[0], 2)
		assert.Equal(t, 1, chains[0][0].Identifier())
		assert.Equal(t, 2, chains[0][1].Identifier())
		require.Len(t, chains[1], 1)
		assert.Equal(t, 3, chains[1][0].Identifier())
	})

	t.Run("closed loop breaks at the revisited element", func(t *testing.T) {
		lines := []*Element{line(1, 1, 2), line(2, 2, 3), line(3, 3, 1)}

		chains := LineChains(lines)
		require.Len(t, chains, 1)
		assert.Len(t, chains[0], 3)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, LineChains(nil))
	})
}
