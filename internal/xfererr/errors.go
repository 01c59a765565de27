// Package xfererr defines the closed set of error kinds used across the
// multicast file transfer protocol (§7 of the protocol spec), in the style
// of the teacher's internal/ice/errors.go: a handful of package-level
// sentinel errors, classified rather than subtyped, composed with
// github.com/pkg/errors at the call site for stack context.
package xfererr

import "errors"

// Sentinel errors. Use errors.Is to classify a wrapped error.
var (
	// ErrMalformed indicates an undersized or unparseable packet. Action:
	// drop silently.
	ErrMalformed = errors.New("xfer: malformed packet")

	// ErrSourceIO indicates a source file read error. Action: fatal.
	ErrSourceIO = errors.New("xfer: source file error")

	// ErrSinkIO indicates a sink file write error. Action: fatal.
	ErrSinkIO = errors.New("xfer: sink file error")

	// ErrConfig indicates invalid configuration (e.g. nonexistent file).
	// Action: fatal, abort before any network I/O.
	ErrConfig = errors.New("xfer: invalid configuration")

	// ErrStalled indicates the repair loop exceeded an implementation-defined
	// retry cap. Action: fatal, abort with diagnostic.
	ErrStalled = errors.New("xfer: generation stalled")
)
