package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/tsbind/internal/config"
	"github.com/roach88/tsbind/internal/dag"
	"github.com/roach88/tsbind/internal/frontend"
	"github.com/roach88/tsbind/internal/source"
	"github.com/roach88/tsbind/internal/syntax"
	"github.com/roach88/tsbind/internal/transform"
)

// Exit codes. A rejected input document is a failure; anything that kept
// the document from being compiled or the result from being written is a
// command error.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ExitError carries the process exit code for a command error.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without an underlying error.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError wrapping err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code for err: ExitSuccess for nil, the code
// of the first ExitError in the chain, and ExitFailure otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E_GENERIC"     // Generic/unknown error
	ErrCodeParse       = "E_PARSE"       // Declaration syntax error
	ErrCodeUnsupported = "E_UNSUPPORTED" // Declaration shape with no conversion
	ErrCodeUnresolved  = "E_UNRESOLVED"  // Reference to an undefined type
	ErrCodeCycle       = "E_CYCLE"       // Dependency cycle between types
	ErrCodeConfig      = "E_CONFIG"      // Invalid configuration or flags
	ErrCodeFetch       = "E_FETCH"       // Document could not be read or downloaded
	ErrCodeCache       = "E_CACHE"       // Cache database error
	ErrCodeWrite       = "E_WRITE"       // Output write or rustfmt failure
)

// compileErrorCode maps a compilation error to its error code.
func compileErrorCode(err error) string {
	switch {
	case errors.As(err, new(*syntax.ParseError)):
		return ErrCodeParse
	case errors.As(err, new(*frontend.UnsupportedError)):
		return ErrCodeUnsupported
	case errors.As(err, new(*transform.UnresolvedRefError)),
		errors.As(err, new(*transform.DuplicateSegmentError)):
		return ErrCodeUnresolved
	case errors.As(err, new(*dag.CycleError)):
		return ErrCodeCycle
	case errors.As(err, new(*config.ValidationError)):
		return ErrCodeConfig
	case errors.As(err, new(*source.HTTPError)):
		return ErrCodeFetch
	}
	return ErrCodeGeneric
}

// errorDetails returns structured context for err, or nil.
func errorDetails(err error) any {
	var perr *syntax.ParseError
	if errors.As(err, &perr) {
		return map[string]any{"file": perr.Filename, "line": perr.Line, "column": perr.Column}
	}
	var cerr *dag.CycleError
	if errors.As(err, &cerr) {
		return map[string]any{"cycle": cerr.Path}
	}
	var uerr *transform.UnresolvedRefError
	if errors.As(err, &uerr) {
		return map[string]any{"from": uerr.From, "name": uerr.Name}
	}
	var herr *source.HTTPError
	if errors.As(err, &herr) {
		return map[string]any{"url": herr.URL, "status": herr.StatusCode}
	}
	return nil
}

// fail reports err through the formatter and returns the ExitError for it.
// Errors in the input document exit with ExitFailure; everything else is a
// command error.
func fail(formatter *OutputFormatter, code string, err error) error {
	_ = formatter.Error(code, err.Error(), errorDetails(err))

	exit := ExitCommandError
	switch code {
	case ErrCodeParse, ErrCodeUnsupported, ErrCodeUnresolved, ErrCodeCycle:
		exit = ExitFailure
	}
	return WrapExitError(exit, code, err)
}
