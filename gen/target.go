package gen

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/typewire/go-typewire/ir"
)

// Target describes the language the generator emits: how primitive kinds
// spell, how containers wrap their element type, which runtime package the
// emitted codecs call, and how auxiliary union types are named. The
// generation engine itself only manipulates these strings; GoTarget is the
// built-in preset and YAML files can override any of its fields.
type Target struct {
	// Package is the package clause of the generated file.
	Package string `yaml:"package"`

	// Runtime is the identifier the generated codecs call their
	// encode/decode primitives on; RuntimeImport is the import path that
	// provides it.
	Runtime       string `yaml:"runtime"`
	RuntimeImport string `yaml:"runtimeImport"`

	// Primitives maps a primitive kind name to its emitted type name.
	Primitives map[string]string `yaml:"primitives"`

	// Container formats. ArrayFormat and MapFormat take the element type,
	// FixedFormat the byte size, PointerFormat the referenced type.
	ArrayFormat   string `yaml:"arrayFormat"`
	MapFormat     string `yaml:"mapFormat"`
	FixedFormat   string `yaml:"fixedFormat"`
	PointerFormat string `yaml:"pointerFormat"`

	// UnionPrefix seeds generated names for anonymous union types; the
	// per-run union counter is appended. Schema identity (for instance the
	// input file base name) keeps the names unique across schemas.
	UnionPrefix string `yaml:"unionPrefix"`

	// NoUnionAlias suppresses the per-field alias types emitted for
	// union-typed record fields.
	NoUnionAlias bool `yaml:"noUnionAlias"`

	// DeclsOnly emits type declarations without serialization logic.
	DeclsOnly bool `yaml:"declsOnly"`
}

// GoTarget returns the preset emitting Go source.
func GoTarget() Target {
	return Target{
		Package:       "typewire",
		Runtime:       "rt",
		RuntimeImport: "github.com/typewire/go-typewire/rt",
		Primitives: map[string]string{
			"null":    "struct{}",
			"boolean": "bool",
			"int":     "int32",
			"long":    "int64",
			"float":   "float32",
			"double":  "float64",
			"string":  "string",
			"bytes":   "[]byte",
		},
		ArrayFormat:   "[]%s",
		MapFormat:     "map[string]%s",
		FixedFormat:   "[%d]byte",
		PointerFormat: "*%s",
		UnionPrefix:   "Union",
	}
}

// LoadTarget reads a YAML target file and overlays it on the Go preset.
func LoadTarget(path string) (Target, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrTarget, err)
	}
	return ParseTarget(d)
}

// ParseTarget overlays YAML target configuration on the Go preset. Absent
// fields keep the preset values; the primitives table merges key-wise.
func ParseTarget(d []byte) (Target, error) {
	var over Target
	if err := yaml.Unmarshal(d, &over); err != nil {
		return Target{}, fmt.Errorf("%w: %v", ErrTarget, err)
	}
	t := GoTarget()
	t.merge(&over)
	if err := t.validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

func (t *Target) merge(over *Target) {
	if over.Package != "" {
		t.Package = over.Package
	}
	if over.Runtime != "" {
		t.Runtime = over.Runtime
	}
	if over.RuntimeImport != "" {
		t.RuntimeImport = over.RuntimeImport
	}
	for k, v := range over.Primitives {
		t.Primitives[k] = v
	}
	if over.ArrayFormat != "" {
		t.ArrayFormat = over.ArrayFormat
	}
	if over.MapFormat != "" {
		t.MapFormat = over.MapFormat
	}
	if over.FixedFormat != "" {
		t.FixedFormat = over.FixedFormat
	}
	if over.PointerFormat != "" {
		t.PointerFormat = over.PointerFormat
	}
	if over.UnionPrefix != "" {
		t.UnionPrefix = over.UnionPrefix
	}
	t.NoUnionAlias = t.NoUnionAlias || over.NoUnionAlias
	t.DeclsOnly = t.DeclsOnly || over.DeclsOnly
}

func (t *Target) validate() error {
	if t.Package == "" {
		return fmt.Errorf("%w: no package name", ErrTarget)
	}
	if t.UnionPrefix == "" {
		return fmt.Errorf("%w: no union prefix", ErrTarget)
	}
	for _, k := range ir.Kinds() {
		if !k.IsPrimitive() {
			continue
		}
		if t.Primitives[k.String()] == "" {
			return fmt.Errorf("%w: no type name for primitive %s", ErrTarget, k)
		}
	}
	for name, f := range map[string]string{
		"arrayFormat":   t.ArrayFormat,
		"mapFormat":     t.MapFormat,
		"pointerFormat": t.PointerFormat,
	} {
		if !strings.Contains(f, "%s") {
			return fmt.Errorf("%w: %s must contain %%s", ErrTarget, name)
		}
	}
	if !strings.Contains(t.FixedFormat, "%d") {
		return fmt.Errorf("%w: fixedFormat must contain %%d", ErrTarget)
	}
	if !t.DeclsOnly && (t.Runtime == "" || t.RuntimeImport == "") {
		return fmt.Errorf("%w: serialization needs a runtime package", ErrTarget)
	}
	return nil
}

func (t *Target) primitive(k ir.Kind) string {
	return t.Primitives[k.String()]
}
