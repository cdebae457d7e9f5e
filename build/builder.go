package build

import (
	"fmt"
	"strings"

	"github.com/typewire/go-typewire/debug"
	"github.com/typewire/go-typewire/ir"
)

// Builder consumes a strictly nested sequence of schema events and yields
// exactly one validated root node, or fails the whole compilation on the
// first error. A Builder holds all per-compilation state: the stack of
// frames under construction, the namespace stack, the table of completed
// named types, and the symbolic placeholders awaiting resolution. Builders
// are not reusable across compilations.
type Builder struct {
	stack      []*frame
	namespaces []string
	named      map[string]*ir.Node
	pending    []*ir.Node
	root       *ir.Node
}

// New returns an empty Builder ready to receive events.
func New() *Builder {
	return &Builder{named: make(map[string]*ir.Node)}
}

// StartType pushes a new empty frame.
func (b *Builder) StartType() {
	debug.Buildf("start type")
	b.stack = append(b.stack, &frame{})
}

func (b *Builder) top() (*frame, error) {
	if len(b.stack) == 0 {
		return nil, fmt.Errorf("%w: no type under construction", ErrEvent)
	}
	return b.stack[len(b.stack)-1], nil
}

// SetKind fixes the kind of the type under construction.
func (b *Builder) SetKind(k ir.Kind) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	debug.Buildf("set kind %s", k)
	f.kind = k
	f.kindSet = true
	return nil
}

// SetName sets the simple name of the type under construction.
func (b *Builder) SetName(name string) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	debug.Buildf("set name %s", name)
	f.name = name
	return nil
}

// SetNamespace sets the namespace of the type under construction and pushes
// it on the namespace stack, where unqualified references inherit it until
// the frame's StopType.
func (b *Builder) SetNamespace(ns string) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	debug.Buildf("set namespace %s", ns)
	f.namespace = ns
	f.hasNS = true
	if ns != "" {
		b.namespaces = append(b.namespaces, ns)
	}
	return nil
}

// SetSize sets the byte size of a fixed type under construction.
func (b *Builder) SetSize(size int) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	debug.Buildf("set size %d", size)
	f.size = size
	f.hasSize = true
	return nil
}

// AddSymbol appends an enum symbol.
func (b *Builder) AddSymbol(sym string) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	debug.Buildf("add symbol %s", sym)
	f.symbols = append(f.symbols, sym)
	return nil
}

// AddFieldName appends a record field name; the next child added to the
// frame is the field's type.
func (b *Builder) AddFieldName(name string) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	debug.Buildf("add field name %s", name)
	f.fieldNames = append(f.fieldNames, name)
	return nil
}

// BeginFields marks that subsequent children are record fields.
func (b *Builder) BeginFields() error { return b.setMode(modeFields) }

// BeginItems marks that the next child is an array element type.
func (b *Builder) BeginItems() error { return b.setMode(modeItems) }

// BeginValues marks that the next child is a map value type.
func (b *Builder) BeginValues() error { return b.setMode(modeValues) }

// BeginBranches marks that subsequent children are union branches.
func (b *Builder) BeginBranches() error { return b.setMode(modeBranches) }

func (b *Builder) setMode(m childMode) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	f.mode = m
	return nil
}

// qualify applies the innermost open namespace to an unqualified name.
// Names already containing a separator bypass inheritance.
func (b *Builder) qualify(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	if len(b.namespaces) == 0 {
		return name
	}
	ns := b.namespaces[len(b.namespaces)-1]
	if ns == "" {
		return name
	}
	return ns + "." + name
}

// AddReference attaches a reference to a named type. A name matching an
// open frame becomes a symbolic placeholder, resolved when that frame
// completes; this is what supports self- and mutually recursive types. Any
// other name must match a previously completed named type, which is shared
// into the graph directly.
func (b *Builder) AddReference(name string) error {
	f, err := b.top()
	if err != nil {
		return err
	}
	full := b.qualify(name)
	debug.Buildf("add reference %s (as %s)", name, full)

	// open frames first, innermost outward
	for i := len(b.stack) - 1; i >= 0; i-- {
		fq := b.stack[i].qualifiedName()
		if fq == "" {
			continue
		}
		if fq == full || fq == name {
			sym, err := ir.NewSymbolic(fq)
			if err != nil {
				return err
			}
			f.children = append(f.children, sym)
			b.pending = append(b.pending, sym)
			return nil
		}
	}

	if n, ok := b.named[full]; ok {
		f.children = append(f.children, n)
		return nil
	}
	if n, ok := b.named[name]; ok {
		f.children = append(f.children, n)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUndefined, name)
}

// StopType validates and materializes the top frame, pops it, and attaches
// the finished node to the enclosing frame or records it as the root. Named
// kinds pop the namespace stack entry pushed by their SetNamespace, join
// the completed-type table, and resolve any matching placeholders already
// inserted elsewhere in the graph.
func (b *Builder) StopType() error {
	f, err := b.top()
	if err != nil {
		return err
	}
	n, err := materialize(f)
	if err != nil {
		return err
	}
	debug.Buildf("stop type %s", n.Kind())
	b.stack = b.stack[:len(b.stack)-1]

	if n.Kind().IsNamed() && f.hasNS && f.namespace != "" {
		b.namespaces = b.namespaces[:len(b.namespaces)-1]
	}

	if n.Kind().IsNamed() {
		full := n.QualifiedName()
		if _, dup := b.named[full]; dup {
			return fmt.Errorf("%w: type %q already defined", ir.ErrInvalid, full)
		}
		b.named[full] = n
		if err := b.resolvePending(n); err != nil {
			return err
		}
	}

	return b.attach(n)
}

// resolvePending rewires every outstanding placeholder whose stored name
// matches the finished node's qualified name.
func (b *Builder) resolvePending(n *ir.Node) error {
	full := n.QualifiedName()
	rest := b.pending[:0]
	for _, p := range b.pending {
		if p.Name() != full {
			rest = append(rest, p)
			continue
		}
		if err := p.SetTarget(n); err != nil {
			return err
		}
		debug.Buildf("resolved symbol %s", full)
	}
	b.pending = rest
	return nil
}

func (b *Builder) attach(n *ir.Node) error {
	if len(b.stack) == 0 {
		if b.root != nil {
			return fmt.Errorf("%w: root type already complete", ErrEvent)
		}
		b.root = n
		return nil
	}
	f := b.stack[len(b.stack)-1]
	f.children = append(f.children, n)
	return nil
}

// materialize turns a frame into a finished, validated node.
func materialize(f *frame) (*ir.Node, error) {
	if !f.kindSet {
		return nil, fmt.Errorf("%w: type has no kind", ErrEvent)
	}
	want := wantMode(f.kind)
	if f.mode != want && f.mode != modeNone {
		return nil, fmt.Errorf("%w: %s type with children in %s mode", ErrEvent, f.kind, f.mode)
	}
	if f.mode == modeNone && want != modeNone && len(f.children) > 0 {
		return nil, fmt.Errorf("%w: children added to %s type before a mode switch", ErrEvent, f.kind)
	}
	switch {
	case f.kind.IsPrimitive():
		return ir.NewPrimitive(f.kind)
	case f.kind == ir.Record:
		return ir.NewRecord(f.name, f.namespace, f.children, f.fieldNames)
	case f.kind == ir.Enum:
		return ir.NewEnum(f.name, f.namespace, f.symbols)
	case f.kind == ir.Array:
		if len(f.children) != 1 {
			return nil, fmt.Errorf("%w: array has %d leaves, want 1", ir.ErrInvalid, len(f.children))
		}
		return ir.NewArray(f.children[0])
	case f.kind == ir.Map:
		if len(f.children) != 1 {
			return nil, fmt.Errorf("%w: map needs exactly one value type, got %d", ir.ErrInvalid, len(f.children))
		}
		return ir.NewMap(f.children[0])
	case f.kind == ir.Union:
		return ir.NewUnion(f.children)
	case f.kind == ir.Fixed:
		if !f.hasSize {
			return nil, fmt.Errorf("%w: fixed %q has no size", ir.ErrInvalid, f.name)
		}
		return ir.NewFixed(f.name, f.namespace, f.size)
	default:
		return nil, fmt.Errorf("%w: cannot build %s type directly", ErrEvent, f.kind)
	}
}

// Root returns the single validated root node. It fails when frames remain
// open, no type was built, or a placeholder was never resolved.
func (b *Builder) Root() (*ir.Node, error) {
	if len(b.stack) != 0 {
		return nil, fmt.Errorf("%w: %d frames still open", ErrIncomplete, len(b.stack))
	}
	if b.root == nil {
		return nil, fmt.Errorf("%w: no type built", ErrIncomplete)
	}
	for _, p := range b.pending {
		if !p.HasTarget() {
			return nil, fmt.Errorf("%w: unresolved reference %q", ErrIncomplete, p.Name())
		}
	}
	return b.root, nil
}
