package transform

import (
	"fmt"

	"github.com/roach88/tsbind/internal/dag"
	"github.com/roach88/tsbind/internal/ir"
)

// UnresolvedRefError reports a named reference without a segment.
type UnresolvedRefError struct {
	From string
	Name string
}

func (e *UnresolvedRefError) Error() string {
	return fmt.Sprintf("%s references undefined type %s", e.From, e.Name)
}

// DuplicateSegmentError reports two segments with the same name.
type DuplicateSegmentError struct {
	Name string
}

func (e *DuplicateSegmentError) Error() string {
	return fmt.Sprintf("type %s is defined more than once", e.Name)
}

// ResolveRefs checks that segment names are unique and that every named
// reference resolves to a segment.
func ResolveRefs(segs []ir.Segment) error {
	defined := make(map[string]bool, len(segs))
	for _, seg := range segs {
		name := seg.SegmentName()
		if defined[name] {
			return &DuplicateSegmentError{Name: name}
		}
		defined[name] = true
	}
	for _, seg := range segs {
		for _, ref := range ir.References(seg) {
			if !defined[ref] {
				return &UnresolvedRefError{From: seg.SegmentName(), Name: ref}
			}
		}
	}
	return nil
}

// DependencyGraph builds the uses relation between segments. Nodes follow
// segment order; edges follow member order.
func DependencyGraph(segs []ir.Segment) *dag.Graph {
	g := dag.New()
	for _, seg := range segs {
		g.AddNode(seg.SegmentName())
	}
	for _, seg := range segs {
		for _, ref := range ir.References(seg) {
			g.AddEdge(seg.SegmentName(), ref)
		}
	}
	return g
}
