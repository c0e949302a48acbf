// Package compiler runs the schema compiler pipeline.
//
// A compilation is a straight line of stages over one document:
//
//	parse -> lower -> tag inference + rename-all -> flatten
//	      -> resolve references -> dependency graph -> borrow -> emit
//
// Every stage either completes or fails the whole compilation; there is no
// partial output. The stages share no state beyond the Schema they pass
// along, so independent documents may be compiled concurrently.
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/roach88/tsbind/internal/dag"
	"github.com/roach88/tsbind/internal/emit"
	"github.com/roach88/tsbind/internal/frontend"
	"github.com/roach88/tsbind/internal/ir"
	"github.com/roach88/tsbind/internal/syntax"
	"github.com/roach88/tsbind/internal/transform"
)

// Options configures a compilation.
type Options struct {
	// Reserved extends the built-in property key rename table.
	Reserved map[string]string

	// Skip lists declarations replaced by empty stub records.
	Skip []string

	// NumberType is the Rust type for number.
	NumberType string

	// Prelude emits the serde import and placeholder aliases.
	Prelude bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{NumberType: "usize", Prelude: true}
}

// Stats summarizes what the passes did.
type Stats struct {
	Declarations int `json:"declarations"`
	Segments     int `json:"segments"`
	Records      int `json:"records"`
	SumTypes     int `json:"sum_types"`
	Aliases      int `json:"aliases"`
	Tagged       int `json:"tagged"`
	Renamed      int `json:"renamed"`
	Flattened    int `json:"flattened"`
	Borrowed     int `json:"borrowed"`
}

// Result is the output of a successful compilation.
type Result struct {
	// Schema is the finalized IR.
	Schema *ir.Schema

	// Graph is the uses relation between the finalized segments.
	Graph *dag.Graph

	// Order lists segment names dependencies first.
	Order []string

	// Source is the generated Rust source.
	Source []byte

	Stats Stats
}

// Compile compiles one declaration document.
func Compile(filename string, src []byte, opts Options) (*Result, error) {
	// Parse
	file, err := syntax.ParseBytes(filename, src)
	if err != nil {
		return nil, err
	}
	slog.Debug("parsed declarations", "file", filename, "declarations", len(file.Decls))

	// Lower
	schema, err := frontend.Convert(file, frontend.Options{
		Reserved: opts.Reserved,
		Skip:     opts.Skip,
	})
	if err != nil {
		return nil, err
	}
	stats := Stats{Declarations: len(file.Decls)}
	slog.Debug("lowered declarations", "segments", len(schema.Segments), "literal_types", len(schema.Literals))

	// Tag inference and naming normalization, one sum type at a time
	for _, seg := range schema.Segments {
		if transform.InternalTag(seg, schema.Literals) {
			stats.Tagged++
			slog.Debug("inferred tag", "type", seg.SegmentName())
		}
		if transform.RenameAll(seg) {
			stats.Renamed++
			slog.Debug("normalized variant names", "type", seg.SegmentName())
		}
	}

	// Flatten wrapper records before the graph sees them
	var rewrite map[string]ir.Type
	schema.Segments, rewrite = transform.Flatten(schema.Segments)
	stats.Flattened = len(rewrite)
	slog.Debug("flattened wrappers", "removed", len(rewrite))

	// Every reference must resolve from here on
	if err := transform.ResolveRefs(schema.Segments); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	graph := transform.DependencyGraph(schema.Segments)
	order, err := graph.CoTopoSort()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := transform.Borrow(schema.Segments, graph); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	source := emit.Render(schema.Segments, emit.Options{
		NumberType: opts.NumberType,
		Prelude:    opts.Prelude,
	})

	stats.count(schema.Segments)
	slog.Debug("emitted source", "bytes", len(source), "borrowed", stats.Borrowed)

	return &Result{
		Schema: schema,
		Graph:  graph,
		Order:  order,
		Source: source,
		Stats:  stats,
	}, nil
}

func (s *Stats) count(segs []ir.Segment) {
	s.Segments = len(segs)
	for _, seg := range segs {
		switch seg.(type) {
		case *ir.Record:
			s.Records++
		case *ir.SumType:
			s.SumTypes++
		case *ir.Alias:
			s.Aliases++
		}
		if seg.IsBorrowed() {
			s.Borrowed++
		}
	}
}
