package parse

import "errors"

var (
	// ErrStream marks an unreadable input stream; nothing was built.
	ErrStream = errors.New("cannot read schema")

	// ErrSyntax marks a document that is not a well-formed schema.
	ErrSyntax = errors.New("malformed schema")
)
