package debug

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
)

// Buildf logs a schema-builder trace line when TYPEWIRE_DEBUG_BUILD is set.
func Buildf(msg string, args ...any) {
	if !d.Build {
		return
	}
	fmt.Fprintf(os.Stderr, "build: "+msg+"\n", args...)
}

// Parsef logs a front-end trace line when TYPEWIRE_DEBUG_PARSE is set.
func Parsef(msg string, args ...any) {
	if !d.Parse {
		return
	}
	fmt.Fprintf(os.Stderr, "parse: "+msg+"\n", args...)
}

// Genf logs a generator trace line when TYPEWIRE_DEBUG_GEN is set.
func Genf(msg string, args ...any) {
	if !d.Gen {
		return
	}
	fmt.Fprintf(os.Stderr, "gen: "+msg+"\n", args...)
}

// Dump spews a value to stderr when any debug flag is set. Useful for
// inspecting frames and node graphs mid-compilation.
func Dump(label string, v any) {
	if !d.Build && !d.Parse && !d.Gen {
		return
	}
	fmt.Fprintf(os.Stderr, "%s:\n", label)
	spew.Fdump(os.Stderr, v)
}
