// Package config loads generator configuration.
//
// A configuration file is YAML decoded in strict mode, so misspelled keys
// are rejected instead of silently ignored. The decoded values are then
// checked against the CUE schema embedded in schema.cue.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tsbind/internal/compiler"
)

// DefaultFile is read when no configuration path is given and it exists.
const DefaultFile = "tsbind.yaml"

//go:embed schema.cue
var schemaSource string

// Config is the generator configuration.
type Config struct {
	// Version is the branch or tag of the remote schema document.
	Version string `yaml:"version"`

	// Source is a local declaration file. It overrides Version.
	Source string `yaml:"source"`

	// Output is the generated file path. Empty means stdout.
	Output string `yaml:"output"`

	NumberType string `yaml:"number_type"`
	Prelude    bool   `yaml:"prelude"`

	// Rustfmt runs rustfmt on the written output file.
	Rustfmt bool `yaml:"rustfmt"`

	// Skip lists declarations replaced by empty stub records.
	Skip []string `yaml:"skip"`

	// Reserved extends the built-in property key renames.
	Reserved map[string]string `yaml:"reserved"`

	// Cache is the SQLite cache path. Empty disables caching.
	Cache string `yaml:"cache"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:    "master",
		NumberType: "usize",
		Prelude:    true,
	}
}

// ValidationError reports a configuration value rejected by the schema.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid config: " + e.Message
	}
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Message)
}

// Load reads and validates the configuration at path.
//
// An empty path loads DefaultFile when it exists and the defaults otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return Default(), nil
		}
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration. Keys that are absent
// keep their default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks c against the embedded schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c.values()))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return toValidationError(err)
	}
	return nil
}

// values returns c keyed by its YAML names. Nil collections become empty
// ones so they unify with the list and struct constraints.
func (c *Config) values() map[string]any {
	skip := c.Skip
	if skip == nil {
		skip = []string{}
	}
	reserved := c.Reserved
	if reserved == nil {
		reserved = map[string]string{}
	}
	return map[string]any{
		"version":     c.Version,
		"source":      c.Source,
		"output":      c.Output,
		"number_type": c.NumberType,
		"prelude":     c.Prelude,
		"rustfmt":     c.Rustfmt,
		"skip":        skip,
		"reserved":    reserved,
		"cache":       c.Cache,
	}
}

// toValidationError keeps the first CUE error, with definition selectors
// dropped from its path.
func toValidationError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	first := errs[0]

	var path []string
	for _, sel := range first.Path() {
		if !strings.HasPrefix(sel, "#") {
			path = append(path, sel)
		}
	}
	format, args := first.Msg()
	return &ValidationError{
		Field:   strings.Join(path, "."),
		Message: fmt.Sprintf(format, args...),
	}
}

// CompilerOptions returns the compiler options c selects.
func (c *Config) CompilerOptions() compiler.Options {
	return compiler.Options{
		Reserved:   c.Reserved,
		Skip:       c.Skip,
		NumberType: c.NumberType,
		Prelude:    c.Prelude,
	}
}
