package build

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/typewire/go-typewire/ir"
)

// events applies a sequence of builder calls, failing the test on the
// first error.
func events(t *testing.T, b *Builder, steps ...func() error) {
	t.Helper()
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
	}
}

func primitiveField(b *Builder, k ir.Kind) func() error {
	return func() error {
		b.StartType()
		if err := b.SetKind(k); err != nil {
			return err
		}
		return b.StopType()
	}
}

func TestBuildPointRecord(t *testing.T) {
	b := New()
	b.StartType()
	events(t, b,
		func() error { return b.SetKind(ir.Record) },
		func() error { return b.SetName("Point") },
		func() error { return b.BeginFields() },
		func() error { return b.AddFieldName("x") },
		primitiveField(b, ir.Int),
		func() error { return b.AddFieldName("y") },
		primitiveField(b, ir.Int),
		func() error { return b.StopType() },
	)

	root, err := b.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root.Kind() != ir.Record || root.Name() != "Point" {
		t.Fatalf("root = %s %q", root.Kind(), root.Name())
	}
	names := make([]string, root.NameCount())
	for i := range names {
		names[i] = root.NameAt(i)
	}
	if d := cmp.Diff([]string{"x", "y"}, names); d != "" {
		t.Errorf("field names (-want +got):\n%s", d)
	}
	if root.LeafAt(0).Kind() != ir.Int || root.LeafAt(1).Kind() != ir.Int {
		t.Errorf("field kinds = %s, %s", root.LeafAt(0).Kind(), root.LeafAt(1).Kind())
	}
}

func TestBuildRecursiveRecord(t *testing.T) {
	// {record LongList {long value; LongList next;}}
	b := New()
	b.StartType()
	events(t, b,
		func() error { return b.SetKind(ir.Record) },
		func() error { return b.SetName("LongList") },
		func() error { return b.BeginFields() },
		func() error { return b.AddFieldName("value") },
		primitiveField(b, ir.Long),
		func() error { return b.AddFieldName("next") },
		func() error { return b.AddReference("LongList") },
		func() error { return b.StopType() },
	)

	root, err := b.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	next := root.LeafAt(1)
	if next.Kind() != ir.Symbolic {
		t.Fatalf("next field kind = %s, want symbolic", next.Kind())
	}
	target, err := ir.ResolveSymbol(next)
	if err != nil {
		t.Fatalf("ResolveSymbol: %v", err)
	}
	if target != root {
		t.Error("recursive field does not resolve to the enclosing record")
	}
}

func TestBuildMutualRecursion(t *testing.T) {
	// {record A {B b;}} where B is declared inline inside A and refers
	// back to A: record A { fields: b: record B { fields: a: A } }
	b := New()
	b.StartType()
	events(t, b,
		func() error { return b.SetKind(ir.Record) },
		func() error { return b.SetName("A") },
		func() error { return b.BeginFields() },
		func() error { return b.AddFieldName("b") },
		func() error {
			b.StartType()
			if err := b.SetKind(ir.Record); err != nil {
				return err
			}
			if err := b.SetName("B"); err != nil {
				return err
			}
			if err := b.BeginFields(); err != nil {
				return err
			}
			if err := b.AddFieldName("a"); err != nil {
				return err
			}
			if err := b.AddReference("A"); err != nil {
				return err
			}
			return b.StopType()
		},
		func() error { return b.StopType() },
	)

	root, err := b.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	inner := root.LeafAt(0) // record B
	if inner.Kind() != ir.Record || inner.Name() != "B" {
		t.Fatalf("inner = %s %q", inner.Kind(), inner.Name())
	}
	backRef, err := ir.ResolveSymbol(inner.LeafAt(0))
	if err != nil {
		t.Fatalf("ResolveSymbol: %v", err)
	}
	if backRef != root {
		t.Error("B.a does not resolve back to A")
	}
}

func TestReferenceToCompletedType(t *testing.T) {
	// union [ {record R {int x;}}, R-by-name ] is invalid (duplicate
	// discriminator), so use a record with two fields of type R instead.
	b := New()
	b.StartType()
	events(t, b,
		func() error { return b.SetKind(ir.Record) },
		func() error { return b.SetName("Outer") },
		func() error { return b.BeginFields() },
		func() error { return b.AddFieldName("first") },
		func() error {
			b.StartType()
			if err := b.SetKind(ir.Record); err != nil {
				return err
			}
			if err := b.SetName("R"); err != nil {
				return err
			}
			if err := b.BeginFields(); err != nil {
				return err
			}
			if err := b.AddFieldName("x"); err != nil {
				return err
			}
			if err := primitiveField(b, ir.Int)(); err != nil {
				return err
			}
			return b.StopType()
		},
		func() error { return b.AddFieldName("second") },
		func() error { return b.AddReference("R") },
		func() error { return b.StopType() },
	)

	root, err := b.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	// the completed type is shared directly, not wrapped symbolically
	if root.LeafAt(1) != root.LeafAt(0) {
		t.Error("second field does not share the completed R node")
	}
}

func TestUndefinedReference(t *testing.T) {
	b := New()
	b.StartType()
	_ = b.SetKind(ir.Record)
	_ = b.SetName("Broken")
	_ = b.BeginFields()
	_ = b.AddFieldName("f")
	err := b.AddReference("NoSuchType")
	if !errors.Is(err, ErrUndefined) {
		t.Errorf("AddReference(NoSuchType) = %v, want ErrUndefined", err)
	}
}

func TestNamespaceInheritance(t *testing.T) {
	// record ns.List with a field referencing unqualified "List"
	b := New()
	b.StartType()
	events(t, b,
		func() error { return b.SetKind(ir.Record) },
		func() error { return b.SetName("List") },
		func() error { return b.SetNamespace("ns") },
		func() error { return b.BeginFields() },
		func() error { return b.AddFieldName("next") },
		func() error { return b.AddReference("List") },
		func() error { return b.StopType() },
	)

	root, err := b.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	sym := root.LeafAt(0)
	if sym.Name() != "ns.List" {
		t.Errorf("placeholder name = %q, want %q", sym.Name(), "ns.List")
	}
	if _, err := ir.ResolveSymbol(sym); err != nil {
		t.Errorf("ResolveSymbol: %v", err)
	}
}

func TestQualifiedReferenceBypassesNamespace(t *testing.T) {
	b := New()
	b.StartType()
	events(t, b,
		func() error { return b.SetKind(ir.Record) },
		func() error { return b.SetName("Node") },
		func() error { return b.SetNamespace("tree") },
		func() error { return b.BeginFields() },
		func() error { return b.AddFieldName("next") },
		func() error { return b.AddReference("tree.Node") },
		func() error { return b.StopType() },
	)
	if _, err := b.Root(); err != nil {
		t.Fatalf("Root: %v", err)
	}
}

func TestStructuralErrorsAbort(t *testing.T) {
	// duplicate field names surface on StopType
	b := New()
	b.StartType()
	_ = b.SetKind(ir.Record)
	_ = b.SetName("Dup")
	_ = b.BeginFields()
	_ = b.AddFieldName("x")
	_ = primitiveField(b, ir.Int)()
	_ = b.AddFieldName("x")
	_ = primitiveField(b, ir.Int)()
	if err := b.StopType(); !errors.Is(err, ir.ErrInvalid) {
		t.Errorf("duplicate fields: got %v, want ErrInvalid", err)
	}

	// zero-field record
	b = New()
	b.StartType()
	_ = b.SetKind(ir.Record)
	_ = b.SetName("Empty")
	if err := b.StopType(); !errors.Is(err, ir.ErrInvalid) {
		t.Errorf("empty record: got %v, want ErrInvalid", err)
	}

	// fixed without size
	b = New()
	b.StartType()
	_ = b.SetKind(ir.Fixed)
	_ = b.SetName("NoSize")
	if err := b.StopType(); !errors.Is(err, ir.ErrInvalid) {
		t.Errorf("fixed without size: got %v, want ErrInvalid", err)
	}
}

func TestEventContractViolations(t *testing.T) {
	b := New()
	if err := b.SetKind(ir.Int); !errors.Is(err, ErrEvent) {
		t.Errorf("SetKind on empty stack: got %v, want ErrEvent", err)
	}
	if err := b.StopType(); !errors.Is(err, ErrEvent) {
		t.Errorf("StopType on empty stack: got %v, want ErrEvent", err)
	}
	if _, err := b.Root(); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Root with nothing built: got %v, want ErrIncomplete", err)
	}

	// a second root
	b = New()
	_ = primitiveField(b, ir.Int)()
	b.StartType()
	_ = b.SetKind(ir.Long)
	if err := b.StopType(); !errors.Is(err, ErrEvent) {
		t.Errorf("second root: got %v, want ErrEvent", err)
	}
}

func TestModeMismatch(t *testing.T) {
	b := New()
	b.StartType()
	_ = b.SetKind(ir.Record)
	_ = b.SetName("R")
	_ = b.BeginItems()
	_ = b.AddFieldName("x")
	_ = primitiveField(b, ir.Int)()
	if err := b.StopType(); !errors.Is(err, ErrEvent) {
		t.Errorf("record built in items mode: got %v, want ErrEvent", err)
	}
}

func TestRootWithOpenFrames(t *testing.T) {
	b := New()
	b.StartType()
	_ = b.SetKind(ir.Record)
	if _, err := b.Root(); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Root with open frame: got %v, want ErrIncomplete", err)
	}
}
