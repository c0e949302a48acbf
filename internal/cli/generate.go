package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/tsbind/internal/compiler"
	"github.com/roach88/tsbind/internal/config"
	"github.com/roach88/tsbind/internal/source"
	"github.com/roach88/tsbind/internal/store"
)

// rustfmtCommand is the formatter binary run on written output.
var rustfmtCommand = "rustfmt"

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Output     string
	Version    string
	NumberType string
	NoPrelude  bool
	Rustfmt    bool
	Cache      string

	// BaseURL overrides the document host (for testing).
	BaseURL string
}

// GenerateResult describes a successful generation.
type GenerateResult struct {
	Source     string         `json:"source"`
	DocumentID string         `json:"document_id"`
	Output     string         `json:"output,omitempty"`
	Code       string         `json:"code,omitempty"`
	RunID      string         `json:"run_id,omitempty"`
	Stats      compiler.Stats `json:"stats"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [file]",
		Short: "Generate Rust types from a declaration file",
		Long: `Generate Rust types with serde attributes from a TypeScript declaration file.

Without a file argument the webhook payload schema for --version is
downloaded from the octokit/webhooks repository. With --cache, downloads
are kept in a SQLite database and every generation is recorded there.

Example:
  tsbind generate schema.d.ts -o src/payload.rs
  tsbind generate --version v7.5.0 --cache .tsbind.db -o src/payload.rs --rustfmt`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path (stdout when empty)")
	cmd.Flags().StringVar(&opts.Version, "version", "", "branch or tag of the remote schema")
	cmd.Flags().StringVar(&opts.NumberType, "number-type", "", "Rust type for number")
	cmd.Flags().BoolVar(&opts.NoPrelude, "no-prelude", false, "omit the serde import and placeholder aliases")
	cmd.Flags().BoolVar(&opts.Rustfmt, "rustfmt", false, "run rustfmt on the output file")
	cmd.Flags().StringVar(&opts.Cache, "cache", "", "SQLite cache path")
	cmd.Flags().StringVar(&opts.BaseURL, "base-url", source.DefaultBaseURL, "document host")
	_ = cmd.Flags().MarkHidden("base-url")

	return cmd
}

// applyFlags overrides cfg with the flags set on cmd.
func (opts *GenerateOptions) applyFlags(cfg *config.Config, args []string, cmd *cobra.Command) error {
	flags := cmd.Flags()
	if len(args) == 1 {
		cfg.Source = args[0]
	}
	if flags.Changed("output") {
		cfg.Output = opts.Output
	}
	if flags.Changed("version") {
		cfg.Version = opts.Version
		if len(args) == 0 {
			cfg.Source = ""
		}
	}
	if flags.Changed("number-type") {
		cfg.NumberType = opts.NumberType
	}
	if flags.Changed("no-prelude") {
		cfg.Prelude = !opts.NoPrelude
	}
	if flags.Changed("rustfmt") {
		cfg.Rustfmt = opts.Rustfmt
	}
	if flags.Changed("cache") {
		cfg.Cache = opts.Cache
	}

	if cfg.Rustfmt && cfg.Output == "" {
		return errors.New("rustfmt requires an output file")
	}
	return cfg.Validate()
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return fail(formatter, ErrCodeConfig, err)
	}
	if err := opts.applyFlags(cfg, args, cmd); err != nil {
		return fail(formatter, ErrCodeConfig, err)
	}

	var cache *store.Store
	if cfg.Cache != "" {
		cache, err = openCache(cfg.Cache)
		if err != nil {
			return fail(formatter, ErrCodeCache, err)
		}
		defer cache.Close()
	}

	// Fetch
	label, src, err := opts.fetch(ctx, cfg, cache)
	if err != nil {
		return fail(formatter, ErrCodeFetch, err)
	}
	formatter.VerboseLog("Read %d byte(s) from %s", len(src), label)

	// Compile
	res, err := compiler.Compile(filepath.Base(label), src, cfg.CompilerOptions())
	if err != nil {
		return fail(formatter, compileErrorCode(err), err)
	}

	result := &GenerateResult{
		Source:     label,
		DocumentID: store.DocumentID(src),
		Output:     cfg.Output,
		Stats:      res.Stats,
	}

	// Write
	if cfg.Output != "" {
		if err := writeOutput(ctx, cfg.Output, res.Source, cfg.Rustfmt); err != nil {
			return fail(formatter, ErrCodeWrite, err)
		}
	}

	if cache != nil {
		run, err := cache.RecordRun(ctx, store.Run{
			DocumentID:  result.DocumentID,
			Version:     label,
			Segments:    res.Stats.Segments,
			OutputBytes: len(res.Source),
		})
		if err != nil {
			return fail(formatter, ErrCodeCache, err)
		}
		result.RunID = run.ID
		slog.Debug("recorded run", "id", run.ID, "seq", run.Seq)
	}

	return outputGenerateSuccess(formatter, result, res.Source)
}

// fetch returns a label for the document and its contents.
func (opts *GenerateOptions) fetch(ctx context.Context, cfg *config.Config, cache *store.Store) (string, []byte, error) {
	if cfg.Source != "" {
		src, err := source.FileFetcher{}.Fetch(ctx, cfg.Source)
		return cfg.Source, src, err
	}

	remote := source.NewHTTPFetcher()
	remote.BaseURL = opts.BaseURL
	var fetcher source.Fetcher = remote
	if cache != nil {
		fetcher = &source.CachedFetcher{Fetcher: remote, Cache: cache}
	}
	src, err := fetcher.Fetch(ctx, cfg.Version)
	return cfg.Version, src, err
}

func openCache(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	return store.Open(path)
}

// writeOutput writes code to path and optionally formats it in place.
func writeOutput(ctx context.Context, path string, code []byte, rustfmt bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, code, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	if !rustfmt {
		return nil
	}

	out, err := exec.CommandContext(ctx, rustfmtCommand, "--edition", "2021", path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", rustfmtCommand, err, out)
	}
	return nil
}

func outputGenerateSuccess(formatter *OutputFormatter, result *GenerateResult, code []byte) error {
	if formatter.Format == "json" {
		if result.Output == "" {
			result.Code = string(code)
		}
		return formatter.Success(result)
	}

	if result.Output == "" {
		_, err := formatter.Writer.Write(code)
		return err
	}

	s := result.Stats
	fmt.Fprintf(formatter.Writer, "✓ Generated %d type(s) from %s (%d record(s), %d enum(s), %d alias(es))\n",
		s.Segments, result.Source, s.Records, s.SumTypes, s.Aliases)
	fmt.Fprintf(formatter.Writer, "Wrote %s\n", result.Output)
	return nil
}
