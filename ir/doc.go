// Package ir provides the intermediate representation for compiled typewire
// schemas.
//
// A schema compiles to a graph of Node values, one per schema type. Each
// node has a fixed Kind chosen at construction and kind-specific attributes:
// named kinds (Record, Enum, Fixed, Symbolic) carry a name and namespace,
// compound kinds (Record, Array, Map, Union) carry child nodes, records and
// enums carry leaf names, Fixed carries a byte size.
//
// The graph is shared: a node may be reachable from any number of parents.
// Recursive and mutually recursive types are expressed without owning
// cycles through Symbolic nodes, which hold the qualified name of the type
// they stand for plus a non-owning target pointer set once the named type
// finishes building. Resolving a placeholder whose target was never set is
// a reference error; generation refuses such graphs.
//
// Construction is fail-fast. Every constructor validates the kind's
// structural invariants (field-name uniqueness, union discriminator
// uniqueness, map key fixed to string, and so on) and refuses to yield a
// partial node. The build package is the only writer; after construction a
// node is immutable except for the one-time resolution of a symbolic
// placeholder.
//
// Related packages:
//
//   - github.com/typewire/go-typewire/build - builds Node graphs from schema events
//   - github.com/typewire/go-typewire/parse - JSON schema front end
//   - github.com/typewire/go-typewire/gen - code generation over Node graphs
package ir
