package gen

import (
	"bytes"
	"fmt"
	"io"

	"github.com/typewire/go-typewire/debug"
	"github.com/typewire/go-typewire/ir"
)

// Generator walks a validated type graph and emits declarations plus
// serialization logic for its target. All walk state is per run: Generate
// resets the memoization caches, the deferred-emission queue and the union
// counter, so one Generator may be reused across graphs but never
// concurrently.
type Generator struct {
	target Target

	done       map[*ir.Node]string
	doing      map[*ir.Node]string
	unionCount int

	records []*ir.Node
	unions  []unionInfo

	decls    bytes.Buffer
	deferred bytes.Buffer
	codecs   bytes.Buffer
}

// unionInfo is one queued anonymous union: its generated name and per
// branch accessor/type pairs. The queue doubles as the deferred-emission
// list, since accessor bodies mention branch types that may only be forward
// referenced during the declaration walk.
type unionInfo struct {
	name     string
	node     *ir.Node
	branches []branchInfo
}

type branchInfo struct {
	node *ir.Node
	acc  string
	typ  string // empty for the null branch
}

// New returns a Generator for the given target.
func New(t Target) (*Generator, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &Generator{target: t}, nil
}

// Generate emits the whole output for one graph to w.
func Generate(w io.Writer, root *ir.Node, t Target) error {
	g, err := New(t)
	if err != nil {
		return err
	}
	return g.Generate(w, root)
}

// Generate declares every type reachable from root, flushes the deferred
// union accessors, emits the serialization logic unless the target is
// declarations-only, and writes the assembled file to w.
func (g *Generator) Generate(w io.Writer, root *ir.Node) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrGenerate)
	}
	g.reset()
	if _, err := g.typeExpr(root); err != nil {
		return err
	}
	g.emitDeferred()
	if !g.target.DeclsOnly {
		if err := g.emitCodecs(); err != nil {
			return err
		}
	}
	return g.flush(w)
}

func (g *Generator) reset() {
	g.done = make(map[*ir.Node]string)
	g.doing = make(map[*ir.Node]string)
	g.unionCount = 0
	g.records = nil
	g.unions = nil
	g.decls.Reset()
	g.deferred.Reset()
	g.codecs.Reset()
}

// typeExpr returns the emitted type expression for n, declaring n and its
// children first when needed. Each distinct node is declared exactly once;
// hitting a node already in progress means a recursive back-edge, which
// only ever arrives through symbolic indirection and is emitted as a
// pointer reference to the (not yet complete) declaration.
func (g *Generator) typeExpr(n *ir.Node) (string, error) {
	if n.Kind() == ir.Symbolic {
		target, err := ir.ResolveSymbol(n)
		if err != nil {
			return "", err
		}
		name, err := g.typeExpr(target)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(g.target.PointerFormat, name), nil
	}
	if s, ok := g.done[n]; ok {
		return s, nil
	}
	if s, ok := g.doing[n]; ok {
		return s, nil
	}
	switch n.Kind() {
	case ir.Array:
		inner, err := g.typeExpr(n.LeafAt(0))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(g.target.ArrayFormat, inner), nil
	case ir.Map:
		inner, err := g.typeExpr(n.LeafAt(1))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(g.target.MapFormat, inner), nil
	case ir.Record:
		return g.declareRecord(n)
	case ir.Enum:
		return g.declareEnum(n)
	case ir.Fixed:
		return g.declareFixed(n)
	case ir.Union:
		return g.declareUnion(n)
	default:
		return g.target.primitive(n.Kind()), nil
	}
}

func (g *Generator) declareRecord(n *ir.Node) (string, error) {
	name := typeName(n)
	g.doing[n] = name
	debug.Genf("declare record %s", name)

	// field types first, so child declarations land above this one
	fields := make([]string, n.LeafCount())
	var aliases bytes.Buffer
	for i := 0; i < n.LeafCount(); i++ {
		ft, err := g.typeExpr(n.LeafAt(i))
		if err != nil {
			return "", err
		}
		fields[i] = ft
		if n.LeafAt(i).Kind() == ir.Union && !g.target.NoUnionAlias {
			fmt.Fprintf(&aliases, "\ntype %s%s = %s\n", name, export(n.NameAt(i)), ft)
		}
	}

	fmt.Fprintf(&g.decls, "\ntype %s struct {\n", name)
	for i := 0; i < n.LeafCount(); i++ {
		fmt.Fprintf(&g.decls, "\t%s %s\n", export(n.NameAt(i)), fields[i])
	}
	fmt.Fprintf(&g.decls, "}\n")
	g.decls.Write(aliases.Bytes())

	delete(g.doing, n)
	g.done[n] = name
	g.records = append(g.records, n)
	return name, nil
}

func (g *Generator) declareEnum(n *ir.Node) (string, error) {
	name := typeName(n)
	debug.Genf("declare enum %s", name)
	fmt.Fprintf(&g.decls, "\ntype %s int32\n\nconst (\n", name)
	for i := 0; i < n.NameCount(); i++ {
		if i == 0 {
			fmt.Fprintf(&g.decls, "\t%s%s %s = iota\n", name, export(n.NameAt(i)), name)
		} else {
			fmt.Fprintf(&g.decls, "\t%s%s\n", name, export(n.NameAt(i)))
		}
	}
	fmt.Fprintf(&g.decls, ")\n")
	g.done[n] = name
	return name, nil
}

func (g *Generator) declareFixed(n *ir.Node) (string, error) {
	name := typeName(n)
	debug.Genf("declare fixed %s", name)
	fmt.Fprintf(&g.decls, "\ntype %s "+g.target.FixedFormat+"\n", name, n.FixedSize())
	g.done[n] = name
	return name, nil
}

func (g *Generator) declareUnion(n *ir.Node) (string, error) {
	name := fmt.Sprintf("%s%d", g.target.UnionPrefix, g.unionCount)
	g.unionCount++
	g.doing[n] = name
	debug.Genf("declare union %s", name)

	u := unionInfo{name: name, node: n}
	for i := 0; i < n.LeafCount(); i++ {
		br := n.LeafAt(i)
		b := branchInfo{node: br, acc: accessorName(br)}
		d, err := ir.Deref(br)
		if err != nil {
			return "", err
		}
		if d.Kind() != ir.Null {
			typ, err := g.typeExpr(br)
			if err != nil {
				return "", err
			}
			b.typ = typ
		}
		u.branches = append(u.branches, b)
	}

	fmt.Fprintf(&g.decls, "\ntype %s struct {\n\tindex int\n\tvalue any\n}\n", name)
	fmt.Fprintf(&g.decls, "\nfunc (u *%s) Index() int { return u.index }\n", name)

	delete(g.doing, n)
	g.done[n] = name
	g.unions = append(g.unions, u)
	return name, nil
}

// emitDeferred flushes the union accessor bodies queued during the
// declaration walk. They run after the whole graph is declared because a
// branch type first met on a recursive path exists only as a forward
// reference until its declaration completes.
func (g *Generator) emitDeferred() {
	for _, u := range g.unions {
		for i, b := range u.branches {
			if b.typ == "" {
				fmt.Fprintf(&g.deferred, "\nfunc (u *%s) IsNull() bool { return u.index == %d }\n", u.name, i)
				fmt.Fprintf(&g.deferred, "\nfunc (u *%s) SetNull() {\n\tu.index = %d\n\tu.value = nil\n}\n", u.name, i)
				continue
			}
			fmt.Fprintf(&g.deferred, "\nfunc (u *%s) %s() %s { return u.value.(%s) }\n", u.name, b.acc, b.typ, b.typ)
			fmt.Fprintf(&g.deferred, "\nfunc (u *%s) Set%s(v %s) {\n\tu.index = %d\n\tu.value = v\n}\n", u.name, b.acc, b.typ, i)
		}
	}
}

func (g *Generator) flush(w io.Writer) error {
	var out bytes.Buffer
	out.WriteString("// Code generated by typewire-gen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&out, "package %s\n", g.target.Package)

	needsRuntime := !g.target.DeclsOnly && (len(g.records) > 0 || len(g.unions) > 0)
	needsFmt := !g.target.DeclsOnly && len(g.unions) > 0
	switch {
	case needsFmt:
		fmt.Fprintf(&out, "\nimport (\n\t\"fmt\"\n\n\t%s \"%s\"\n)\n", g.target.Runtime, g.target.RuntimeImport)
	case needsRuntime:
		fmt.Fprintf(&out, "\nimport %s \"%s\"\n", g.target.Runtime, g.target.RuntimeImport)
	}

	out.Write(g.decls.Bytes())
	out.Write(g.deferred.Bytes())
	out.Write(g.codecs.Bytes())
	if _, err := w.Write(out.Bytes()); err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	return nil
}
