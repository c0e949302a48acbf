// Package dag provides the dependency graph between named segments.
//
// Nodes are stored in an arena indexed by insertion order, so every
// traversal is deterministic for a given construction sequence.
package dag

import "strings"

// Graph is a directed graph over named nodes. An edge A -> B means A uses B.
type Graph struct {
	names []string
	index map[string]int
	adj   [][]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode adds name if it is not present and returns its arena index.
func (g *Graph) AddNode(name string) int {
	if i, ok := g.index[name]; ok {
		return i
	}
	i := len(g.names)
	g.names = append(g.names, name)
	g.adj = append(g.adj, nil)
	g.index[name] = i
	return i
}

// AddEdge adds the edge from -> to, adding missing nodes. Parallel edges are
// kept.
func (g *Graph) AddEdge(from, to string) {
	f := g.AddNode(from)
	t := g.AddNode(to)
	g.adj[f] = append(g.adj[f], t)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.names) }

// Nodes returns the node names in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.names...)
}

// Successors returns the targets of the edges leaving name, in edge order.
func (g *Graph) Successors(name string) []string {
	i, ok := g.index[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.adj[i]))
	for _, j := range g.adj[i] {
		out = append(out, g.names[j])
	}
	return out
}

// Reverse returns the graph with every edge flipped. Node order is kept and
// reversed edges are added in the order the original edges are visited.
func (g *Graph) Reverse() *Graph {
	r := New()
	for _, name := range g.names {
		r.AddNode(name)
	}
	for from, succ := range g.adj {
		for _, to := range succ {
			r.adj[to] = append(r.adj[to], from)
		}
	}
	return r
}

// CycleError reports a dependency cycle. Path starts and ends at the same
// node and follows edge direction.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "dependency cycle: " + strings.Join(e.Path, " -> ")
}

// TopoSort orders the nodes so that every node comes before its successors.
//
// The algorithm is Kahn's with a LIFO worklist:
//  1. Push every node without incoming edges, in insertion order
//  2. Pop the most recently pushed node and emit it
//  3. Decrement the in-degree of its successors in edge order, pushing each
//     that reaches zero
//
// If some node is never emitted the graph has a cycle and a *CycleError
// carrying one witness cycle is returned.
func (g *Graph) TopoSort() ([]string, error) {
	order, residual := g.kahn()
	if residual == nil {
		return order, nil
	}
	return nil, &CycleError{Path: g.findCycle(residual)}
}

// CoTopoSort orders the nodes so that every node comes after its
// successors: dependencies first. It sorts the reverse graph; a cycle
// witness is reported in the forward direction.
func (g *Graph) CoTopoSort() ([]string, error) {
	order, residual := g.Reverse().kahn()
	if residual == nil {
		return order, nil
	}
	return nil, &CycleError{Path: g.findCycle(residual)}
}

// FindCycle returns one cycle of the graph, or nil if it is acyclic.
func (g *Graph) FindCycle() []string {
	all := make([]bool, len(g.names))
	for i := range all {
		all[i] = true
	}
	return g.findCycle(all)
}

// kahn returns the emitted order, and when not every node was emitted, the
// set of nodes left over.
func (g *Graph) kahn() ([]string, []bool) {
	indeg := make([]int, len(g.names))
	for _, succ := range g.adj {
		for _, j := range succ {
			indeg[j]++
		}
	}
	var stack []int
	for i, d := range indeg {
		if d == 0 {
			stack = append(stack, i)
		}
	}

	order := make([]string, 0, len(g.names))
	emitted := make([]bool, len(g.names))
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, g.names[n])
		emitted[n] = true
		for _, j := range g.adj[n] {
			indeg[j]--
			if indeg[j] == 0 {
				stack = append(stack, j)
			}
		}
	}
	if len(order) == len(g.names) {
		return order, nil
	}

	residual := make([]bool, len(g.names))
	for i := range residual {
		residual[i] = !emitted[i]
	}
	return order, residual
}

// findCycle runs an iterative depth-first search restricted to the nodes in
// set and returns the first back edge found as a closed path.
func (g *Graph) findCycle(set []bool) []string {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(g.names))
	for start := range g.names {
		if !set[start] || color[start] != white {
			continue
		}
		color[start] = gray
		stack := []frame{{node: start}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next == len(g.adj[top.node]) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}
			succ := g.adj[top.node][top.next]
			top.next++
			if !set[succ] {
				continue
			}
			switch color[succ] {
			case gray:
				return g.closePath(stack, succ)
			case white:
				color[succ] = gray
				stack = append(stack, frame{node: succ})
			}
		}
	}
	return nil
}

// frame is one level of the explicit DFS stack. next is the index of the
// next edge to follow.
type frame struct {
	node int
	next int
}

// closePath returns the stack suffix starting at back, closed by back.
func (g *Graph) closePath(stack []frame, back int) []string {
	i := len(stack) - 1
	for stack[i].node != back {
		i--
	}
	path := make([]string, 0, len(stack)-i+1)
	for _, f := range stack[i:] {
		path = append(path, g.names[f.node])
	}
	return append(path, g.names[back])
}
