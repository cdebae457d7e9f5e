package gen

import "errors"

var (
	// ErrTarget marks an unusable target configuration.
	ErrTarget = errors.New("invalid target")

	// ErrGenerate marks a graph the generator cannot emit code for.
	ErrGenerate = errors.New("generation failed")
)
