// File: lixenwraith/tagcli/errors.go
package tagcli

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDanglingOption reports a dict-like key at the end of the argument
	// list with no value token to consume.
	ErrDanglingOption = errors.New("dict-like option is missing a value")

	// ErrNoLoader reports a parameter-file extension with no registered loader.
	ErrNoLoader = errors.New("no loader registered for extension")

	// ErrUnknownKey reports a parameter-file key with no matching
	// configurable field.
	ErrUnknownKey = errors.New("unknown configuration key")

	// ErrMissingRequired reports a required flag or positional argument that
	// was not supplied.
	ErrMissingRequired = errors.New("required argument not supplied")

	// ErrChoice reports an enumerated flag value outside its declared set.
	ErrChoice = errors.New("invalid choice")
)

// UnknownOptionError aggregates every dict-like option whose root attribute
// name does not resolve to a configurable field. All offenders from one
// invocation are reported in a single error.
type UnknownOptionError struct {
	Options []string // formatted as --name[key]=value
}

func (e *UnknownOptionError) Error() string {
	if len(e.Options) == 1 {
		return fmt.Sprintf("unknown option: %s", e.Options[0])
	}
	return fmt.Sprintf("unknown options: %s", strings.Join(e.Options, " "))
}

// ParamfileError wraps a loader or merge failure with the offending file path.
type ParamfileError struct {
	Path string
	Err  error
}

func (e *ParamfileError) Error() string {
	return fmt.Sprintf("paramfile %q: %v", e.Path, e.Err)
}

func (e *ParamfileError) Unwrap() error { return e.Err }

// EvalError names an expression that failed restricted evaluation and the
// underlying cause.
type EvalError struct {
	Expr string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("cannot evaluate %q: %v", e.Expr, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }
