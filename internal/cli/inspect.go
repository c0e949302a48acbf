package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tsbind/internal/compiler"
	"github.com/roach88/tsbind/internal/ir"
	"github.com/roach88/tsbind/internal/source"
)

// SegmentSummary describes one generated type.
type SegmentSummary struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"` // "record" | "enum" | "alias"
	Members   int    `json:"members"`
	Tag       string `json:"tag,omitzero"`
	Untagged  bool   `json:"untagged,omitzero"`
	RenameAll string `json:"rename_all,omitzero"`
	Borrowed  bool   `json:"borrowed"`
	Target    string `json:"target,omitzero"`
}

// InspectResult is the IR summary of a declaration file.
type InspectResult struct {
	File     string           `json:"file"`
	Stats    compiler.Stats   `json:"stats"`
	Segments []SegmentSummary `json:"segments"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the types generated for a declaration file",
		Long: `Compile a declaration file and list the types it produces, with the
serde container attributes and borrowing decided by the passes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

// compileFile compiles the file at path with the configured options.
func compileFile(opts *RootOptions, path string, cmd *cobra.Command) (*compiler.Result, error) {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, fail(formatter, ErrCodeConfig, err)
	}
	src, err := source.FileFetcher{}.Fetch(cmd.Context(), path)
	if err != nil {
		return nil, fail(formatter, ErrCodeFetch, err)
	}
	res, err := compiler.Compile(filepath.Base(path), src, cfg.CompilerOptions())
	if err != nil {
		return nil, fail(formatter, compileErrorCode(err), err)
	}
	return res, nil
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	res, err := compileFile(opts, path, cmd)
	if err != nil {
		return err
	}

	result := &InspectResult{File: path, Stats: res.Stats}
	for _, seg := range res.Schema.Segments {
		result.Segments = append(result.Segments, summarize(seg))
	}

	formatter := newFormatter(opts, cmd)
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	s := res.Stats
	fmt.Fprintf(w, "%s: %d type(s) from %d declaration(s)\n", path, s.Segments, s.Declarations)
	fmt.Fprintf(w, "  %d record(s), %d enum(s), %d alias(es); %d tagged, %d flattened, %d borrowed\n\n",
		s.Records, s.SumTypes, s.Aliases, s.Tagged, s.Flattened, s.Borrowed)
	for _, seg := range result.Segments {
		fmt.Fprintf(w, "  %-6s %s\n", seg.Kind, seg.describe())
	}
	return nil
}

func summarize(seg ir.Segment) SegmentSummary {
	sum := SegmentSummary{Name: seg.SegmentName(), Borrowed: seg.IsBorrowed()}
	switch s := seg.(type) {
	case *ir.Record:
		sum.Kind = "record"
		sum.Members = len(s.Fields)
	case *ir.SumType:
		sum.Kind = "enum"
		sum.Members = len(s.Variants)
		sum.Tag = s.Attrs.Tag
		sum.Untagged = s.Attrs.Untagged
		sum.RenameAll = string(s.Attrs.RenameAll)
	case *ir.Alias:
		sum.Kind = "alias"
		sum.Target = s.Type.VariantIdent()
	}
	return sum
}

func (s SegmentSummary) describe() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	if s.Borrowed {
		sb.WriteString("<'a>")
	}
	switch s.Kind {
	case "record":
		fmt.Fprintf(&sb, " %d field(s)", s.Members)
	case "enum":
		fmt.Fprintf(&sb, " %d variant(s)", s.Members)
	case "alias":
		fmt.Fprintf(&sb, " = %s", s.Target)
	}
	if s.Tag != "" {
		fmt.Fprintf(&sb, " tag=%s", s.Tag)
	}
	if s.Untagged {
		sb.WriteString(" untagged")
	}
	if s.RenameAll != "" {
		fmt.Fprintf(&sb, " rename_all=%s", s.RenameAll)
	}
	return sb.String()
}
