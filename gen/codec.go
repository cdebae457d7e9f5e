package gen

import (
	"fmt"
	"strings"

	"github.com/typewire/go-typewire/ir"
)

var writeMethod = map[ir.Kind]string{
	ir.Boolean: "WriteBoolean",
	ir.Int:     "WriteInt",
	ir.Long:    "WriteLong",
	ir.Float:   "WriteFloat",
	ir.Double:  "WriteDouble",
	ir.String:  "WriteString",
	ir.Bytes:   "WriteBytes",
}

var readMethod = map[ir.Kind]string{
	ir.Boolean: "ReadBoolean",
	ir.Int:     "ReadInt",
	ir.Long:    "ReadLong",
	ir.Float:   "ReadFloat",
	ir.Double:  "ReadDouble",
	ir.String:  "ReadString",
	ir.Bytes:   "ReadBytes",
}

// emitCodecs is the serialization walk: a second pass over the same graph
// reusing the names assigned by the declaration walk. Records and unions
// get Encode/Decode functions; enums, fixeds and containers are handled
// inline at their use sites.
func (g *Generator) emitCodecs() error {
	for _, n := range g.records {
		if err := g.emitRecordCodec(n); err != nil {
			return err
		}
	}
	for _, u := range g.unions {
		if err := g.emitUnionCodec(u); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) emitRecordCodec(n *ir.Node) error {
	name := g.done[n]
	rt := g.target.Runtime

	fmt.Fprintf(&g.codecs, "\nfunc Encode%s(e %s.Encoder, v *%s) error {\n", name, rt, name)
	for i := 0; i < n.LeafCount(); i++ {
		if err := g.emitEncode(n.LeafAt(i), "v."+export(n.NameAt(i)), 1, 0); err != nil {
			return err
		}
	}
	fmt.Fprintf(&g.codecs, "\treturn nil\n}\n")

	fmt.Fprintf(&g.codecs, "\nfunc Decode%s(d %s.Decoder, v *%s) error {\n", name, rt, name)
	for i := 0; i < n.LeafCount(); i++ {
		if err := g.emitDecode(n.LeafAt(i), "v."+export(n.NameAt(i)), 1, 0); err != nil {
			return err
		}
	}
	fmt.Fprintf(&g.codecs, "\treturn nil\n}\n")
	return nil
}

func (g *Generator) emitUnionCodec(u unionInfo) error {
	name := u.name
	rt := g.target.Runtime

	fmt.Fprintf(&g.codecs, "\nfunc Encode%s(e %s.Encoder, v *%s) error {\n", name, rt, name)
	fmt.Fprintf(&g.codecs, "\tif err := e.WriteUnionIndex(v.index); err != nil {\n\t\treturn err\n\t}\n")
	fmt.Fprintf(&g.codecs, "\tswitch v.index {\n")
	for i, b := range u.branches {
		fmt.Fprintf(&g.codecs, "\tcase %d:\n", i)
		if b.typ == "" {
			fmt.Fprintf(&g.codecs, "\t\tif err := e.WriteNull(); err != nil {\n\t\t\treturn err\n\t\t}\n")
			continue
		}
		fmt.Fprintf(&g.codecs, "\t\tbv := v.%s()\n", b.acc)
		if err := g.emitEncode(b.node, "bv", 2, 0); err != nil {
			return err
		}
	}
	fmt.Fprintf(&g.codecs, "\t}\n\treturn nil\n}\n")

	fmt.Fprintf(&g.codecs, "\nfunc Decode%s(d %s.Decoder, v *%s) error {\n", name, rt, name)
	fmt.Fprintf(&g.codecs, "\tidx, err := d.ReadUnionIndex()\n\tif err != nil {\n\t\treturn err\n\t}\n")
	fmt.Fprintf(&g.codecs, "\tif idx < 0 || idx >= %d {\n\t\treturn fmt.Errorf(\"union index too large: %%d\", idx)\n\t}\n", len(u.branches))
	fmt.Fprintf(&g.codecs, "\tswitch idx {\n")
	for i, b := range u.branches {
		fmt.Fprintf(&g.codecs, "\tcase %d:\n", i)
		if b.typ == "" {
			fmt.Fprintf(&g.codecs, "\t\tif err := d.ReadNull(); err != nil {\n\t\t\treturn err\n\t\t}\n\t\tv.SetNull()\n")
			continue
		}
		fmt.Fprintf(&g.codecs, "\t\tvar bv %s\n", b.typ)
		if err := g.emitDecode(b.node, "bv", 2, 0); err != nil {
			return err
		}
		fmt.Fprintf(&g.codecs, "\t\tv.Set%s(bv)\n", b.acc)
	}
	fmt.Fprintf(&g.codecs, "\t}\n\treturn nil\n}\n")
	return nil
}

// emitEncode writes the statements serializing expr, a value of n's type.
// depth suffixes loop variables so nested containers never shadow.
func (g *Generator) emitEncode(n *ir.Node, expr string, ind, depth int) error {
	t := strings.Repeat("\t", ind)
	call := func(inner string) {
		fmt.Fprintf(&g.codecs, "%sif err := %s; err != nil {\n%s\treturn err\n%s}\n", t, inner, t, t)
	}
	switch n.Kind() {
	case ir.Symbolic:
		target, err := ir.ResolveSymbol(n)
		if err != nil {
			return err
		}
		if target.Kind() != ir.Record {
			return fmt.Errorf("%w: cannot serialize symbolic reference to %s", ErrGenerate, target.Kind())
		}
		call(fmt.Sprintf("Encode%s(e, %s)", g.done[target], expr))
	case ir.Null:
		call("e.WriteNull()")
	case ir.Fixed:
		call(fmt.Sprintf("e.WriteFixed(%s[:])", expr))
	case ir.Enum:
		call(fmt.Sprintf("e.WriteEnum(int(%s))", expr))
	case ir.Record, ir.Union:
		call(fmt.Sprintf("Encode%s(e, &%s)", g.done[n], expr))
	case ir.Array:
		call(fmt.Sprintf("e.WriteArrayLen(len(%s))", expr))
		it := fmt.Sprintf("it%d", depth)
		fmt.Fprintf(&g.codecs, "%sfor _, %s := range %s {\n", t, it, expr)
		if err := g.emitEncode(n.LeafAt(0), it, ind+1, depth+1); err != nil {
			return err
		}
		fmt.Fprintf(&g.codecs, "%s}\n", t)
	case ir.Map:
		call(fmt.Sprintf("e.WriteMapLen(len(%s))", expr))
		k := fmt.Sprintf("k%d", depth)
		mv := fmt.Sprintf("mv%d", depth)
		fmt.Fprintf(&g.codecs, "%sfor %s, %s := range %s {\n", t, k, mv, expr)
		fmt.Fprintf(&g.codecs, "%s\tif err := e.WriteString(%s); err != nil {\n%s\t\treturn err\n%s\t}\n", t, k, t, t)
		if err := g.emitEncode(n.LeafAt(1), mv, ind+1, depth+1); err != nil {
			return err
		}
		fmt.Fprintf(&g.codecs, "%s}\n", t)
	default:
		call(fmt.Sprintf("e.%s(%s)", writeMethod[n.Kind()], expr))
	}
	return nil
}

// emitDecode writes the statements deserializing into lv, an addressable
// expression of n's type.
func (g *Generator) emitDecode(n *ir.Node, lv string, ind, depth int) error {
	t := strings.Repeat("\t", ind)
	switch n.Kind() {
	case ir.Symbolic:
		target, err := ir.ResolveSymbol(n)
		if err != nil {
			return err
		}
		if target.Kind() != ir.Record {
			return fmt.Errorf("%w: cannot serialize symbolic reference to %s", ErrGenerate, target.Kind())
		}
		name := g.done[target]
		fmt.Fprintf(&g.codecs, "%s%s = new(%s)\n", t, lv, name)
		fmt.Fprintf(&g.codecs, "%sif err := Decode%s(d, %s); err != nil {\n%s\treturn err\n%s}\n", t, name, lv, t, t)
	case ir.Null:
		fmt.Fprintf(&g.codecs, "%sif err := d.ReadNull(); err != nil {\n%s\treturn err\n%s}\n", t, t, t)
	case ir.Fixed:
		fmt.Fprintf(&g.codecs, "%s{\n%s\tfv%d, err := d.ReadFixed(%d)\n%s\tif err != nil {\n%s\t\treturn err\n%s\t}\n%s\tcopy(%s[:], fv%d)\n%s}\n",
			t, t, depth, n.FixedSize(), t, t, t, t, lv, depth, t)
	case ir.Enum:
		fmt.Fprintf(&g.codecs, "%s{\n%s\tev%d, err := d.ReadEnum()\n%s\tif err != nil {\n%s\t\treturn err\n%s\t}\n%s\t%s = %s(ev%d)\n%s}\n",
			t, t, depth, t, t, t, t, lv, g.done[n], depth, t)
	case ir.Record, ir.Union:
		fmt.Fprintf(&g.codecs, "%sif err := Decode%s(d, &%s); err != nil {\n%s\treturn err\n%s}\n", t, g.done[n], lv, t, t)
	case ir.Array:
		typ, err := g.typeExpr(n)
		if err != nil {
			return err
		}
		i := fmt.Sprintf("i%d", depth)
		fmt.Fprintf(&g.codecs, "%s{\n%s\tn%d, err := d.ReadArrayLen()\n%s\tif err != nil {\n%s\t\treturn err\n%s\t}\n", t, t, depth, t, t, t)
		fmt.Fprintf(&g.codecs, "%s\t%s = make(%s, n%d)\n", t, lv, typ, depth)
		fmt.Fprintf(&g.codecs, "%s\tfor %s := range %s {\n", t, i, lv)
		if err := g.emitDecode(n.LeafAt(0), fmt.Sprintf("%s[%s]", lv, i), ind+2, depth+1); err != nil {
			return err
		}
		fmt.Fprintf(&g.codecs, "%s\t}\n%s}\n", t, t)
	case ir.Map:
		typ, err := g.typeExpr(n)
		if err != nil {
			return err
		}
		vtyp, err := g.typeExpr(n.LeafAt(1))
		if err != nil {
			return err
		}
		i := fmt.Sprintf("i%d", depth)
		k := fmt.Sprintf("k%d", depth)
		mv := fmt.Sprintf("mv%d", depth)
		fmt.Fprintf(&g.codecs, "%s{\n%s\tn%d, err := d.ReadMapLen()\n%s\tif err != nil {\n%s\t\treturn err\n%s\t}\n", t, t, depth, t, t, t)
		fmt.Fprintf(&g.codecs, "%s\t%s = make(%s, n%d)\n", t, lv, typ, depth)
		fmt.Fprintf(&g.codecs, "%s\tfor %s := 0; %s < n%d; %s++ {\n", t, i, i, depth, i)
		fmt.Fprintf(&g.codecs, "%s\t\t%s, err := d.ReadString()\n%s\t\tif err != nil {\n%s\t\t\treturn err\n%s\t\t}\n", t, k, t, t, t)
		fmt.Fprintf(&g.codecs, "%s\t\tvar %s %s\n", t, mv, vtyp)
		if err := g.emitDecode(n.LeafAt(1), mv, ind+2, depth+1); err != nil {
			return err
		}
		fmt.Fprintf(&g.codecs, "%s\t\t%s[%s] = %s\n", t, lv, k, mv)
		fmt.Fprintf(&g.codecs, "%s\t}\n%s}\n", t, t)
	default:
		fmt.Fprintf(&g.codecs, "%s{\n%s\tpv%d, err := d.%s()\n%s\tif err != nil {\n%s\t\treturn err\n%s\t}\n%s\t%s = pv%d\n%s}\n",
			t, t, depth, readMethod[n.Kind()], t, t, t, t, lv, depth, t)
	}
	return nil
}
