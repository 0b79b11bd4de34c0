// Package cverrors defines the error kinds shared by the symbol-resolution
// and value-binding packages. Callers distinguish failures with errors.Is
// against these sentinels, the same way gopdb's pkg/pdb wraps os/binary
// failures with fmt.Errorf("...: %w", err) rather than inventing a
// hierarchy of concrete error types.
package cverrors

import (
	"errors"
	"fmt"
)

// Kinds. Every exported error below is a sentinel: wrap it with
// fmt.Errorf("%s: %w", context, Kind) to attach detail while keeping it
// matchable with errors.Is.
var (
	// NotFound covers every lookup miss: missing symbol, missing field
	// list, a broken base-class chain, a missing session. The public
	// surface collapses all of these to NotFound regardless of the
	// deeper cause, since the caller's next action is the same either way.
	NotFound = errors.New("not found")

	// NotImplemented marks a feature deliberately absent: register
	// writes, enregistered writes.
	NotImplemented = errors.New("not implemented")

	// InvalidArgument covers a nil declaration or similarly malformed
	// caller input.
	InvalidArgument = errors.New("invalid argument")

	// InvalidState covers a symbol that lacks an attribute required for
	// the requested operation (e.g. a location kind with no offset).
	InvalidState = errors.New("invalid state")

	// IoError covers a debugger-proxy communication failure.
	IoError = errors.New("io error")

	// PartialCopy covers a short memory read or write: some bytes moved,
	// but not the full request.
	PartialCopy = errors.New("partial copy")

	// OutOfMemory covers allocation failure in the type environment or
	// elsewhere.
	OutOfMemory = errors.New("out of memory")
)

// Wrap attaches context to a kind while keeping it errors.Is-matchable.
func Wrap(kind error, context string) error {
	return &wrapped{kind: kind, context: context}
}

// Wrapf is Wrap with fmt-style formatting of the context.
func Wrapf(kind error, format string, args ...any) error {
	return Wrap(kind, fmt.Sprintf(format, args...))
}

type wrapped struct {
	kind    error
	context string
}

func (w *wrapped) Error() string { return w.context + ": " + w.kind.Error() }
func (w *wrapped) Unwrap() error { return w.kind }

// Is reports whether err (or anything it wraps) is one of the kinds above.
func Is(err error, kind error) bool { return errors.Is(err, kind) }
