package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/tsbind/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Cache string
	Limit int
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded generations",
		Long: `List the generations recorded in the cache database, oldest first.

Example:
  tsbind runs --cache .tsbind.db --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "SQLite cache path")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "most recent runs to list (0 for all)")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	path := opts.Cache
	if path == "" {
		cfg, err := loadConfig(opts.RootOptions)
		if err != nil {
			return fail(formatter, ErrCodeConfig, err)
		}
		path = cfg.Cache
	}
	if path == "" {
		return fail(formatter, ErrCodeConfig, errors.New("no cache database configured"))
	}

	st, err := store.Open(path)
	if err != nil {
		return fail(formatter, ErrCodeCache, err)
	}
	defer st.Close()

	runs, err := st.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return fail(formatter, ErrCodeCache, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %-12s %3d type(s) %7d byte(s)  %s\n",
			r.Seq, r.CreatedAt.Local().Format(time.DateTime), r.Version, r.Segments, r.OutputBytes, r.ID)
	}
	return nil
}
