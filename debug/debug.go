package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Build bool
	Parse bool
	Gen   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Build = boolEnv("TYPEWIRE_DEBUG_BUILD")
	d.Parse = boolEnv("TYPEWIRE_DEBUG_PARSE")
	d.Gen = boolEnv("TYPEWIRE_DEBUG_GEN")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Build() bool {
	return d.Build
}
func Parse() bool {
	return d.Parse
}
func Gen() bool {
	return d.Gen
}
