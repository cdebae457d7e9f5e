package parse

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/typewire/go-typewire/build"
	"github.com/typewire/go-typewire/debug"
	"github.com/typewire/go-typewire/ir"
)

var primitives = map[string]ir.Kind{
	"null":    ir.Null,
	"boolean": ir.Boolean,
	"int":     ir.Int,
	"long":    ir.Long,
	"float":   ir.Float,
	"double":  ir.Double,
	"string":  ir.String,
	"bytes":   ir.Bytes,
}

// Compile reads a JSON schema document from r and compiles it into a
// validated type graph.
func Compile(r io.Reader) (*ir.Node, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStream, err)
	}
	return CompileBytes(d)
}

// CompileBytes compiles a JSON schema document held in memory.
func CompileBytes(d []byte) (*ir.Node, error) {
	var doc any
	if err := json.Unmarshal(d, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	b := build.New()
	if err := replay(b, doc); err != nil {
		return nil, err
	}
	return b.Root()
}

// CompileString compiles a JSON schema document given as a string.
func CompileString(s string) (*ir.Node, error) {
	return CompileBytes([]byte(s))
}

// replay walks one schema form and drives the builder with the
// corresponding event sequence. A schema form is a type-name string, an
// attribute object, or an array of union branches.
func replay(b *build.Builder, doc any) error {
	switch v := doc.(type) {
	case string:
		return replayName(b, v)
	case []any:
		return replayUnion(b, v)
	case map[string]any:
		return replayObject(b, v)
	default:
		return fmt.Errorf("%w: schema must be a string, object, or array, got %T", ErrSyntax, doc)
	}
}

func replayName(b *build.Builder, name string) error {
	if k, ok := primitives[name]; ok {
		b.StartType()
		if err := b.SetKind(k); err != nil {
			return err
		}
		return b.StopType()
	}
	debug.Parsef("reference %s", name)
	return b.AddReference(name)
}

func replayUnion(b *build.Builder, branches []any) error {
	b.StartType()
	if err := b.SetKind(ir.Union); err != nil {
		return err
	}
	if err := b.BeginBranches(); err != nil {
		return err
	}
	for _, br := range branches {
		if err := replay(b, br); err != nil {
			return err
		}
	}
	return b.StopType()
}

func replayObject(b *build.Builder, obj map[string]any) error {
	typ, err := stringAttr(obj, "type")
	if err != nil {
		return err
	}

	if k, ok := primitives[typ]; ok {
		b.StartType()
		if err := b.SetKind(k); err != nil {
			return err
		}
		return b.StopType()
	}

	switch typ {
	case "record":
		return replayRecord(b, obj)
	case "enum":
		return replayEnum(b, obj)
	case "array":
		b.StartType()
		if err := b.SetKind(ir.Array); err != nil {
			return err
		}
		if err := b.BeginItems(); err != nil {
			return err
		}
		items, ok := obj["items"]
		if !ok {
			return fmt.Errorf("%w: array schema has no items", ErrSyntax)
		}
		if err := replay(b, items); err != nil {
			return err
		}
		return b.StopType()
	case "map":
		b.StartType()
		if err := b.SetKind(ir.Map); err != nil {
			return err
		}
		if err := b.BeginValues(); err != nil {
			return err
		}
		values, ok := obj["values"]
		if !ok {
			return fmt.Errorf("%w: map schema has no values", ErrSyntax)
		}
		if err := replay(b, values); err != nil {
			return err
		}
		return b.StopType()
	case "fixed":
		return replayFixed(b, obj)
	default:
		// {"type": "SomeName"} is a reference in object clothing
		return replayName(b, typ)
	}
}

func replayRecord(b *build.Builder, obj map[string]any) error {
	b.StartType()
	if err := b.SetKind(ir.Record); err != nil {
		return err
	}
	if err := setNaming(b, obj); err != nil {
		return err
	}
	if err := b.BeginFields(); err != nil {
		return err
	}
	rawFields, ok := obj["fields"].([]any)
	if !ok {
		return fmt.Errorf("%w: record schema has no fields array", ErrSyntax)
	}
	for _, rf := range rawFields {
		field, ok := rf.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: record field must be an object, got %T", ErrSyntax, rf)
		}
		fname, err := stringAttr(field, "name")
		if err != nil {
			return err
		}
		if err := b.AddFieldName(fname); err != nil {
			return err
		}
		ftype, ok := field["type"]
		if !ok {
			return fmt.Errorf("%w: field %q has no type", ErrSyntax, fname)
		}
		if err := replay(b, ftype); err != nil {
			return err
		}
	}
	return b.StopType()
}

func replayEnum(b *build.Builder, obj map[string]any) error {
	b.StartType()
	if err := b.SetKind(ir.Enum); err != nil {
		return err
	}
	if err := setNaming(b, obj); err != nil {
		return err
	}
	rawSyms, ok := obj["symbols"].([]any)
	if !ok {
		return fmt.Errorf("%w: enum schema has no symbols array", ErrSyntax)
	}
	for _, rs := range rawSyms {
		sym, ok := rs.(string)
		if !ok {
			return fmt.Errorf("%w: enum symbol must be a string, got %T", ErrSyntax, rs)
		}
		if err := b.AddSymbol(sym); err != nil {
			return err
		}
	}
	return b.StopType()
}

func replayFixed(b *build.Builder, obj map[string]any) error {
	b.StartType()
	if err := b.SetKind(ir.Fixed); err != nil {
		return err
	}
	if err := setNaming(b, obj); err != nil {
		return err
	}
	raw, ok := obj["size"]
	if !ok {
		return fmt.Errorf("%w: fixed schema has no size", ErrSyntax)
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return fmt.Errorf("%w: fixed size must be an integer, got %v", ErrSyntax, raw)
	}
	if err := b.SetSize(int(f)); err != nil {
		return err
	}
	return b.StopType()
}

func setNaming(b *build.Builder, obj map[string]any) error {
	name, err := stringAttr(obj, "name")
	if err != nil {
		return err
	}
	if err := b.SetName(name); err != nil {
		return err
	}
	if raw, ok := obj["namespace"]; ok {
		ns, ok := raw.(string)
		if !ok {
			return fmt.Errorf("%w: namespace must be a string, got %T", ErrSyntax, raw)
		}
		if err := b.SetNamespace(ns); err != nil {
			return err
		}
	}
	return nil
}

func stringAttr(obj map[string]any, key string) (string, error) {
	raw, ok := obj[key]
	if !ok {
		return "", fmt.Errorf("%w: missing %q attribute", ErrSyntax, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrSyntax, key, raw)
	}
	return s, nil
}
