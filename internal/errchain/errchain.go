// Package errchain links domain errors to the failures that caused them so a
// report can show the whole trail, outermost first.
package errchain

import "strings"

// Marker separates one level of a chain from the next in Describe output.
const Marker = "\n  caused by: "

// Chain is implemented by every domain error that may wrap a lower-level failure.
type Chain interface {
	error
	// Description describes this level only, without the cause.
	Description() string
	// Cause returns the wrapped error, or nil at the root.
	Cause() error
}

// Error is a generic chain node for call sites that have no dedicated type.
type Error struct {
	description string
	cause       error
}

// New returns a chain node describing a failure caused by cause (which may be nil).
func New(description string, cause error) *Error {
	return &Error{description: description, cause: cause}
}

func (e *Error) Description() string { return e.description }
func (e *Error) Cause() error         { return e.cause }
func (e *Error) Unwrap() error        { return e.cause }

func (e *Error) Error() string {
	return Message(e.description, e.cause)
}

// Message formats a description and optional cause the way Error() methods in
// this module do.
func Message(description string, cause error) string {
	if cause == nil {
		return description
	}
	return description + ": " + cause.Error()
}

// Causes returns the chain outer to inner. A non-Chain error ends the walk
// because its Error() text already contains whatever it wraps.
func Causes(err error) []error {
	var out []error
	for err != nil {
		out = append(out, err)
		c, ok := err.(Chain)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return out
}

// Describe renders err and every cause beneath it, outermost first.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	levels := Causes(err)
	parts := make([]string, 0, len(levels))
	for _, level := range levels {
		if c, ok := level.(Chain); ok {
			parts = append(parts, c.Description())
			continue
		}
		parts = append(parts, level.Error())
	}
	return strings.Join(parts, Marker)
}

// Root returns the innermost error of the chain.
func Root(err error) error {
	levels := Causes(err)
	if len(levels) == 0 {
		return nil
	}
	return levels[len(levels)-1]
}
