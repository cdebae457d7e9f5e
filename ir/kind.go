package ir

import "fmt"

// Kind identifies which schema type a Node represents.
type Kind int

const (
	Null Kind = iota
	Boolean
	Int
	Long
	Float
	Double
	String
	Bytes
	Fixed
	Array
	Map
	Record
	Enum
	Union
	Symbolic
)

var kindNames = map[Kind]string{
	Null:     "null",
	Boolean:  "boolean",
	Int:      "int",
	Long:     "long",
	Float:    "float",
	Double:   "double",
	String:   "string",
	Bytes:    "bytes",
	Fixed:    "fixed",
	Array:    "array",
	Map:      "map",
	Record:   "record",
	Enum:     "enum",
	Union:    "union",
	Symbolic: "symbolic",
}

func (k Kind) String() string {
	s, ok := kindNames[k]
	if ok {
		return s
	}
	return "<unknown kind>"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(d []byte) error {
	for kk, name := range kindNames {
		if name == string(d) {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("unrecognized kind %q", d)
}

// Kinds returns all kinds in declaration order.
func Kinds() []Kind {
	return []Kind{
		Null,
		Boolean,
		Int,
		Long,
		Float,
		Double,
		String,
		Bytes,
		Fixed,
		Array,
		Map,
		Record,
		Enum,
		Union,
		Symbolic,
	}
}

// IsPrimitive reports whether k carries no leaves, names or size.
func (k Kind) IsPrimitive() bool {
	switch k {
	case Null, Boolean, Int, Long, Float, Double, String, Bytes:
		return true
	default:
		return false
	}
}

// IsNamed reports whether nodes of kind k carry a name and namespace.
func (k Kind) IsNamed() bool {
	switch k {
	case Record, Enum, Fixed, Symbolic:
		return true
	default:
		return false
	}
}

// IsCompound reports whether nodes of kind k carry child nodes.
func (k Kind) IsCompound() bool {
	switch k {
	case Record, Array, Map, Union:
		return true
	default:
		return false
	}
}
