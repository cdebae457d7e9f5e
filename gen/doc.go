// Package gen emits target-language source from a validated type graph.
//
// Generation is two walks over the graph. The first declares every
// reachable type exactly once, children before parents, tolerating
// recursive definitions by emitting pointer references along symbolic
// back-edges and queueing union accessor bodies for a deferred pass. The
// second walk reuses the names assigned by the first and emits the
// serialization logic: Encode and Decode functions calling the runtime
// package's read/write primitives in field order.
//
// The Target configuration carries everything language-specific: primitive
// type names, container formats, the runtime package, union naming. The
// GoTarget preset emits Go; YAML files can override any field of it.
package gen
