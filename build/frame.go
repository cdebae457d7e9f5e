package build

import "github.com/typewire/go-typewire/ir"

// childMode selects how children added to a frame will be interpreted when
// the frame materializes.
type childMode int

const (
	modeNone childMode = iota
	modeFields
	modeItems
	modeValues
	modeBranches
)

func (m childMode) String() string {
	switch m {
	case modeFields:
		return "fields"
	case modeItems:
		return "items"
	case modeValues:
		return "values"
	case modeBranches:
		return "branches"
	default:
		return "none"
	}
}

// wantMode returns the child mode a kind's children must be added under.
func wantMode(k ir.Kind) childMode {
	switch k {
	case ir.Record:
		return modeFields
	case ir.Array:
		return modeItems
	case ir.Map:
		return modeValues
	case ir.Union:
		return modeBranches
	default:
		return modeNone
	}
}

// frame is one type definition under construction.
type frame struct {
	kind    ir.Kind
	kindSet bool

	name      string
	namespace string
	hasNS     bool

	size    int
	hasSize bool

	symbols    []string
	fieldNames []string
	children   []*ir.Node

	mode childMode
}

// qualifiedName returns the frame's full name from its explicit attributes,
// or "" when the frame has no name yet.
func (f *frame) qualifiedName() string {
	if f.name == "" {
		return ""
	}
	if f.hasNS && f.namespace != "" {
		return f.namespace + "." + f.name
	}
	return f.name
}
