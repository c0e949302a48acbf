package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diamond() *Graph {
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")
	g.AddEdge("C", "E")
	g.AddEdge("D", "E")
	return g
}

// TestTopoSort tests the LIFO Kahn order on a diamond with a shortcut.
func TestTopoSort(t *testing.T) {
	order, err := diamond().TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "B", "D", "E"}, order)
}

// TestCoTopoSort tests that the reverse order visits dependencies first.
func TestCoTopoSort(t *testing.T) {
	order, err := diamond().CoTopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"E", "D", "C", "B", "A"}, order)
}

// TestTopoSort_Isolated tests that nodes without edges are ordered LIFO.
func TestTopoSort_Isolated(t *testing.T) {
	g := New()
	g.AddNode("X")
	g.AddNode("Y")
	g.AddNode("X")
	assert.Equal(t, 2, g.Len())

	order, err := g.TopoSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"Y", "X"}, order)
}

// TestTopoSort_Cycle tests that a cycle is reported with a closed witness path.
func TestTopoSort_Cycle(t *testing.T) {
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "A")
	g.AddEdge("D", "A")

	_, err := g.TopoSort()
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cycle.Path)
	assert.Equal(t, "dependency cycle: A -> B -> C -> A", err.Error())

	_, err = g.CoTopoSort()
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cycle.Path)
}

// TestFindCycle tests self-loops and acyclic graphs.
func TestFindCycle(t *testing.T) {
	assert.Nil(t, diamond().FindCycle())

	g := New()
	g.AddEdge("Tree", "Leaf")
	g.AddEdge("Node", "Node")
	assert.Equal(t, []string{"Node", "Node"}, g.FindCycle())
}

// TestReverse tests edge reversal and successor lookup.
func TestReverse(t *testing.T) {
	g := diamond()
	r := g.Reverse()

	assert.Equal(t, g.Nodes(), r.Nodes())
	assert.Equal(t, []string{"B", "C"}, g.Successors("A"))
	assert.Equal(t, []string{"B", "C"}, r.Successors("D"))
	assert.Equal(t, []string{"C", "D"}, r.Successors("E"))
	assert.Empty(t, r.Successors("A"))
	assert.Nil(t, g.Successors("missing"))
}
