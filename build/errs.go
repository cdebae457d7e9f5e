package build

import "errors"

var (
	// ErrEvent reports an event sequence that violates the builder's
	// contract: attributes before StartType, StopType on an empty stack,
	// a second root. The event stream comes from a front end, so this is
	// a bug in the caller rather than bad schema input.
	ErrEvent = errors.New("malformed schema event stream")

	// ErrUndefined reports a named reference that matches neither an
	// open frame nor a previously completed type.
	ErrUndefined = errors.New("undefined type")

	// ErrIncomplete reports a builder with open frames or unresolved
	// placeholders at the time the root is requested.
	ErrIncomplete = errors.New("incomplete schema")
)
