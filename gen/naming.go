package gen

import (
	"strings"
	"unicode"

	"github.com/typewire/go-typewire/ir"
)

// export turns a schema identifier into an exported Go identifier. Dots,
// dashes and underscores start a new capitalized segment.
func export(s string) string {
	var b strings.Builder
	up := true
	for _, r := range s {
		switch {
		case r == '.' || r == '_' || r == '-':
			up = true
		case up:
			b.WriteRune(unicode.ToUpper(r))
			up = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// typeName derives the emitted type name for a named node from its simple
// name; the namespace maps to the target package, not the identifier.
func typeName(n *ir.Node) string {
	return export(n.Name())
}

// accessorName derives a union branch accessor from the branch
// discriminator: the last name segment for named branches, the kind name
// otherwise.
func accessorName(n *ir.Node) string {
	d := ir.Discriminator(n)
	if i := strings.LastIndex(d, "."); i >= 0 {
		d = d[i+1:]
	}
	return export(d)
}
