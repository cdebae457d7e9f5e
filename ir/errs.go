package ir

import "errors"

var (
	// ErrInvalid reports a node that violates its kind's structural
	// invariants: duplicate field or symbol names, an empty union, a
	// union with duplicate discriminators, a missing name or size.
	ErrInvalid = errors.New("invalid schema structure")

	// ErrReference reports a symbolic node whose target is unset or
	// whose stored name does not match the node it resolves against.
	ErrReference = errors.New("reference error")
)
