// Package build constructs validated type graphs from a stream of schema
// events. A front-end parses some concrete schema syntax and drives a
// Builder with StartType/StopType pairs and the attribute events between
// them; the Builder handles nesting, namespace scoping, named-type reuse,
// and recursive references, and hands back a single validated root.
package build
