package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// GraphNode is one type and the types it uses.
type GraphNode struct {
	Name string   `json:"name"`
	Uses []string `json:"uses"`
}

// GraphResult lists the types of a declaration file dependencies first.
type GraphResult struct {
	File  string      `json:"file"`
	Nodes []GraphNode `json:"nodes"`
}

// NewGraphCommand creates the graph command.
func NewGraphCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Print the type dependency graph",
		Long: `Print the types of a declaration file in dependency order, leaves
first, each with the types it uses. A dependency cycle is reported with the
types that form it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runGraph(opts *RootOptions, path string, cmd *cobra.Command) error {
	res, err := compileFile(opts, path, cmd)
	if err != nil {
		return err
	}

	result := &GraphResult{File: path}
	for _, name := range res.Order {
		uses := []string{}
		for _, succ := range res.Graph.Successors(name) {
			if !slices.Contains(uses, succ) {
				uses = append(uses, succ)
			}
		}
		result.Nodes = append(result.Nodes, GraphNode{Name: name, Uses: uses})
	}

	formatter := newFormatter(opts, cmd)
	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	for _, n := range result.Nodes {
		if len(n.Uses) == 0 {
			fmt.Fprintln(formatter.Writer, n.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s -> %s\n", n.Name, strings.Join(n.Uses, ", "))
	}
	return nil
}
