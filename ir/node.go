package ir

import (
	"fmt"
	"io"
	"strings"
)

// Node is one vertex of a compiled type graph. A node's kind is fixed at
// construction and the kind determines which attributes it carries: named
// kinds have a name and namespace, compound kinds have leaves, records and
// enums have leaf names, fixed has a size.
//
// Nodes are shared values: the same node may be reachable from several
// parents. Recursive types never embed an owning cycle; the back edge always
// passes through a Symbolic node holding a non-owning target pointer.
type Node struct {
	kind      Kind
	name      string
	namespace string
	leaves    []*Node
	leafNames []string
	nameIndex map[string]int
	size      int
	hasSize   bool

	// target is the resolution of a Symbolic node. It is nil for a
	// placeholder inserted before the named type finished building.
	target *Node
}

// NewPrimitive returns a node for one of the primitive kinds.
func NewPrimitive(k Kind) (*Node, error) {
	if !k.IsPrimitive() {
		return nil, fmt.Errorf("%w: %s is not a primitive kind", ErrInvalid, k)
	}
	return &Node{kind: k}, nil
}

// NewRecord returns a record node with one leaf per field. Field names must
// be unique and parallel to fields.
func NewRecord(name, namespace string, fields []*Node, fieldNames []string) (*Node, error) {
	n := &Node{
		kind:      Record,
		name:      name,
		namespace: namespace,
		leaves:    fields,
		leafNames: fieldNames,
	}
	if err := n.buildNameIndex(); err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewEnum returns an enum node. Symbols must be unique; their order defines
// the zero-based wire ordinals.
func NewEnum(name, namespace string, symbols []string) (*Node, error) {
	n := &Node{
		kind:      Enum,
		name:      name,
		namespace: namespace,
		leafNames: symbols,
	}
	if err := n.buildNameIndex(); err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewArray returns an array node with the given element type.
func NewArray(items *Node) (*Node, error) {
	n := &Node{kind: Array, leaves: []*Node{items}}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewMap returns a map node. The key leaf is always the string primitive;
// only the value type is caller-supplied.
func NewMap(values *Node) (*Node, error) {
	key := &Node{kind: String}
	n := &Node{kind: Map, leaves: []*Node{key, values}}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewUnion returns a union node. Branch order defines the zero-based wire
// index; branch discriminators must be pairwise distinct.
func NewUnion(branches []*Node) (*Node, error) {
	n := &Node{kind: Union, leaves: branches}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewFixed returns a fixed node of the given byte size.
func NewFixed(name, namespace string, size int) (*Node, error) {
	n := &Node{
		kind:      Fixed,
		name:      name,
		namespace: namespace,
		size:      size,
		hasSize:   true,
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// NewSymbolic returns a placeholder for the named type called name. The
// target stays unset until the named type finishes building; resolving an
// unset placeholder is a reference error.
func NewSymbolic(name string) (*Node, error) {
	n := &Node{kind: Symbolic, name: name}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Node) buildNameIndex() error {
	n.nameIndex = make(map[string]int, len(n.leafNames))
	for i, name := range n.leafNames {
		if _, dup := n.nameIndex[name]; dup {
			return fmt.Errorf("%w: duplicate name %q in %s %q", ErrInvalid, name, n.kind, n.name)
		}
		n.nameIndex[name] = i
	}
	return nil
}

func (n *Node) Kind() Kind        { return n.kind }
func (n *Node) Name() string      { return n.name }
func (n *Node) Namespace() string { return n.namespace }

// QualifiedName returns namespace + "." + name, or just name when the
// namespace is empty.
func (n *Node) QualifiedName() string {
	if n.namespace == "" {
		return n.name
	}
	return n.namespace + "." + n.name
}

// LeafCount returns the number of child nodes.
func (n *Node) LeafCount() int { return len(n.leaves) }

// LeafAt returns the i-th child node.
func (n *Node) LeafAt(i int) *Node { return n.leaves[i] }

// NameCount returns the number of leaf names (record fields, enum symbols).
func (n *Node) NameCount() int { return len(n.leafNames) }

// NameAt returns the i-th leaf name.
func (n *Node) NameAt(i int) string { return n.leafNames[i] }

// IndexOf returns the position of a field or symbol name.
func (n *Node) IndexOf(name string) (int, bool) {
	i, ok := n.nameIndex[name]
	return i, ok
}

// FixedSize returns the byte length of a fixed node.
func (n *Node) FixedSize() int { return n.size }

// HasTarget reports whether a symbolic node has been resolved.
func (n *Node) HasTarget() bool { return n.target != nil }

// SetTarget resolves a symbolic placeholder against the named node it stands
// for. The stored name must equal the target's qualified name, and a
// placeholder may be resolved only once.
func (n *Node) SetTarget(target *Node) error {
	if n.kind != Symbolic {
		return fmt.Errorf("%w: cannot set target on %s node", ErrReference, n.kind)
	}
	if n.target != nil {
		return fmt.Errorf("%w: symbol %q already resolved", ErrReference, n.name)
	}
	if target == nil || !target.kind.IsNamed() || target.kind == Symbolic {
		return fmt.Errorf("%w: symbol %q cannot resolve to a non-named node", ErrReference, n.name)
	}
	if n.name != target.QualifiedName() {
		return fmt.Errorf("%w: symbolic name %q does not match the name %q of the schema it references",
			ErrReference, n.name, target.QualifiedName())
	}
	n.target = target
	return nil
}

// ResolveSymbol returns the node a symbolic node stands for. It fails on
// non-symbolic nodes and on placeholders whose target was never set.
func ResolveSymbol(n *Node) (*Node, error) {
	if n.kind != Symbolic {
		return nil, fmt.Errorf("%w: only symbolic nodes may be resolved, got %s", ErrReference, n.kind)
	}
	if n.target == nil {
		return nil, fmt.Errorf("%w: could not follow symbol %q", ErrReference, n.name)
	}
	return n.target, nil
}

// Deref follows symbolic indirection, returning n itself for every other
// kind. Unset placeholders report a reference error.
func Deref(n *Node) (*Node, error) {
	if n.kind != Symbolic {
		return n, nil
	}
	return ResolveSymbol(n)
}

// SetLeafSymbolic rewires the placeholder at leaf i to the finished named
// node it refers to. The placeholder's stored name must equal the target's
// qualified name.
func (n *Node) SetLeafSymbolic(i int, target *Node) error {
	if i < 0 || i >= len(n.leaves) {
		return fmt.Errorf("%w: no leaf at index %d", ErrReference, i)
	}
	leaf := n.leaves[i]
	if leaf.kind != Symbolic {
		return fmt.Errorf("%w: leaf %d of %s is not symbolic", ErrReference, i, n.kind)
	}
	return leaf.SetTarget(target)
}

// Discriminator returns the identity used to enforce pairwise-distinct
// union branches: the primitive kind name for primitives, "array"/"map" for
// container kinds, the full name for named kinds, and the stored symbol
// name for symbolic branches (resolved or not). An anonymous union nested
// directly in another union counts as the single "union" category.
func Discriminator(n *Node) string {
	switch n.kind {
	case Record, Enum, Fixed:
		return n.QualifiedName()
	case Symbolic:
		return n.name
	case Array, Map, Union:
		return n.kind.String()
	default:
		return n.kind.String()
	}
}

// Validate re-checks the structural invariants for the node's kind. The
// builder calls this before a type is considered complete; construction
// fails rather than yielding a partial node.
func (n *Node) Validate() error {
	switch n.kind {
	case Record:
		if n.name == "" {
			return fmt.Errorf("%w: record has no name", ErrInvalid)
		}
		if len(n.leaves) == 0 {
			return fmt.Errorf("%w: record %q has no fields", ErrInvalid, n.name)
		}
		if len(n.leaves) != len(n.leafNames) {
			return fmt.Errorf("%w: record %q has %d fields but %d field names",
				ErrInvalid, n.name, len(n.leaves), len(n.leafNames))
		}
	case Enum:
		if n.name == "" {
			return fmt.Errorf("%w: enum has no name", ErrInvalid)
		}
		if len(n.leafNames) == 0 {
			return fmt.Errorf("%w: enum %q has no symbols", ErrInvalid, n.name)
		}
	case Array:
		if len(n.leaves) != 1 {
			return fmt.Errorf("%w: array has %d leaves, want 1", ErrInvalid, len(n.leaves))
		}
	case Map:
		if len(n.leaves) != 2 {
			return fmt.Errorf("%w: map has %d leaves, want 2", ErrInvalid, len(n.leaves))
		}
		if n.leaves[0].kind != String {
			return fmt.Errorf("%w: map key must be string, got %s", ErrInvalid, n.leaves[0].kind)
		}
	case Union:
		if len(n.leaves) == 0 {
			return fmt.Errorf("%w: union has no branches", ErrInvalid)
		}
		seen := make(map[string]struct{}, len(n.leaves))
		for _, b := range n.leaves {
			d := Discriminator(b)
			if _, dup := seen[d]; dup {
				return fmt.Errorf("%w: union has duplicate branch %q", ErrInvalid, d)
			}
			seen[d] = struct{}{}
		}
	case Fixed:
		if n.name == "" {
			return fmt.Errorf("%w: fixed has no name", ErrInvalid)
		}
		if !n.hasSize || n.size < 0 {
			return fmt.Errorf("%w: fixed %q has no valid size", ErrInvalid, n.name)
		}
	case Symbolic:
		if n.name == "" {
			return fmt.Errorf("%w: symbolic reference has no name", ErrInvalid)
		}
	}
	return nil
}

// IsValid reports whether Validate succeeds.
func (n *Node) IsValid() bool {
	return n.Validate() == nil
}

// WriteDebug writes a plain indented dump of the node tree. Symbolic nodes
// are not followed, so recursive graphs terminate.
func (n *Node) WriteDebug(w io.Writer) {
	n.writeDebug(w, 0)
}

func (n *Node) writeDebug(w io.Writer, depth int) {
	pad := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s", pad, n.kind)
	if n.kind.IsNamed() {
		fmt.Fprintf(w, " %s", n.QualifiedName())
	}
	if n.hasSize {
		fmt.Fprintf(w, " %d", n.size)
	}
	fmt.Fprintln(w)
	if n.kind == Symbolic {
		return
	}
	for i, leaf := range n.leaves {
		if n.kind == Record {
			fmt.Fprintf(w, "%s  name %s\n", pad, n.leafNames[i])
		}
		leaf.writeDebug(w, depth+1)
	}
	if n.kind == Enum {
		for _, s := range n.leafNames {
			fmt.Fprintf(w, "%s  symbol %s\n", pad, s)
		}
	}
	if n.kind.IsCompound() {
		fmt.Fprintf(w, "%send %s\n", pad, n.kind)
	}
}
