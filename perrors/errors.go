// Package perrors defines the error taxonomy shared by every pencilfft
// package: ConfigError, ShapeError, TypeError, IndexError, CommError and
// OomError, each a struct implementing error so callers can type-switch
// the way the teacher's (now stale) InputSizeError was meant to be used.
package perrors

import "fmt"

// ConfigError reports an invalid permutation, mismatched process-grid
// product, non-distinct decomposed axes, or incompatible pencils passed
// to a transposition.
type ConfigError struct {
	Op      string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pencilfft: config error in %s: %s", e.Op, e.Message)
}

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(op, format string, args ...any) *ConfigError {
	return &ConfigError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// ShapeError reports a buffer or array size mismatch.
type ShapeError struct {
	Op       string
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("pencilfft: shape error in %s: expected length %d, got %d", e.Op, e.Expected, e.Got)
}

// NewShapeError builds a ShapeError.
func NewShapeError(op string, expected, got int) *ShapeError {
	return &ShapeError{Op: op, Expected: expected, Got: got}
}

// TypeError reports a transform applied to an unsupported element type.
type TypeError struct {
	Op      string
	Message string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("pencilfft: type error in %s: %s", e.Op, e.Message)
}

// NewTypeError builds a TypeError.
func NewTypeError(op, format string, args ...any) *TypeError {
	return &TypeError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// IndexError reports an out-of-range access on a global view (checked builds).
type IndexError struct {
	Op      string
	Index   []int
	Message string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("pencilfft: index error in %s: index %v: %s", e.Op, e.Index, e.Message)
}

// NewIndexError builds an IndexError.
func NewIndexError(op string, index []int, format string, args ...any) *IndexError {
	return &IndexError{Op: op, Index: append([]int(nil), index...), Message: fmt.Sprintf(format, args...)}
}

// CommError wraps a failure surfaced by the message-passing collaborator.
type CommError struct {
	Op  string
	Err error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("pencilfft: comm error in %s: %v", e.Op, e.Err)
}

func (e *CommError) Unwrap() error { return e.Err }

// NewCommError wraps err as a CommError.
func NewCommError(op string, err error) *CommError {
	return &CommError{Op: op, Err: err}
}

// OomError reports a scratch-buffer or array allocation failure.
type OomError struct {
	Op          string
	RequestSize int
}

func (e *OomError) Error() string {
	return fmt.Sprintf("pencilfft: allocation failure in %s: requested %d bytes", e.Op, e.RequestSize)
}

// NewOomError builds an OomError.
func NewOomError(op string, requestSize int) *OomError {
	return &OomError{Op: op, RequestSize: requestSize}
}
