// Package jsonerr defines the failure taxonomy for json-mapper.
//
// Every error that escapes a write call belongs to exactly one Class. Problems
// with the data or with a value writer surface as *MappingError, which keeps
// the original failure as its Cause. Failures of the output itself (the sink
// or the io.Writer behind it) are returned exactly as produced and are never
// wrapped, so callers can tell "my converters are broken" apart from "the
// disk is full" with errors.As alone.
package jsonerr

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"slices"
	"syscall"
)

// Class is a stable failure category.
type Class string

const (
	// Transport marks a failure of the output: a sink append or an I/O
	// error surfaced by a value writer. Never wrapped.
	Transport Class = "TRANSPORT"
	// Mapping marks a *MappingError produced by an inner frame.
	Mapping Class = "MAPPING"
	// Other is everything else. A write call wraps these into a *MappingError.
	Other Class = "OTHER"

	// CLIUsage marks a bad command line.
	CLIUsage Class = "CLI_USAGE"
	// InvalidInput marks input that could not be read or decoded.
	InvalidInput Class = "INVALID_INPUT"
	// NotCanonical marks input that differs from its canonical form.
	NotCanonical Class = "NOT_CANONICAL"
)

// ExitCode returns the process exit code for this failure class.
func (c Class) ExitCode() int {
	switch c {
	case Transport, Other:
		return 10
	default:
		return 2
	}
}

// MappingError is the single error type for data-level failures of a write
// call. It is created once, at the frame where the failure was first seen.
type MappingError struct {
	Message string
	Path    Path
	Cause   error
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("jsonerr: %s at %s: %s", Mapping, e.Path, e.Message)
	}
	return fmt.Sprintf("jsonerr: %s: %s", Mapping, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *MappingError) Unwrap() error {
	return e.Cause
}

// New creates a MappingError with no cause.
func New(path Path, message string) *MappingError {
	return &MappingError{Message: message, Path: slices.Clone(path)}
}

// Wrap creates a MappingError around cause. The message is the cause's own
// text so that it can be found in the wrapped error's string.
func Wrap(path Path, cause error) *MappingError {
	return &MappingError{Message: cause.Error(), Path: slices.Clone(path), Cause: cause}
}

// Wrapf is like Wrap but prefixes the cause's text with a formatted message.
func Wrapf(path Path, cause error, format string, args ...any) *MappingError {
	msg := fmt.Sprintf(format, args...) + ": " + cause.Error()
	return &MappingError{Message: msg, Path: slices.Clone(path), Cause: cause}
}

// Classify reports the category of err. It relies on error identity and type
// only, never on message text. Classify(nil) returns the empty Class.
func Classify(err error) Class {
	if err == nil {
		return ""
	}
	if IsMapping(err) {
		return Mapping
	}
	if IsTransport(err) {
		return Transport
	}
	return Other
}

// IsMapping reports whether err is or wraps a *MappingError.
func IsMapping(err error) bool {
	var me *MappingError
	return errors.As(err, &me)
}

// IsTransport reports whether err is an I/O failure by type: a closed or
// broken pipe, a short write, a full device, a file system or network error.
// A failed rename (*os.LinkError) counts as a file system error.
//
// Failures returned by a sink are transport failures regardless of their
// type; that decision is made where the sink is called, not here.
func IsTransport(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.ErrShortWrite) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ENOSPC) {
		return true
	}
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return true
	}
	var lerr *os.LinkError
	if errors.As(err, &lerr) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}
