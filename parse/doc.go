// Package parse compiles JSON schema documents into validated type graphs.
//
// # Usage
//
//	node, err := parse.CompileString(`
//	    {"type": "record", "name": "Point", "fields": [
//	        {"name": "x", "type": "int"},
//	        {"name": "y", "type": "int"}]}`)
//	if err != nil {
//	    return err
//	}
//
// A schema form is a type-name string, an attribute object, or an array of
// union branches. The parser only walks the document; all structural
// validation lives in the build and ir packages.
//
// # Related Packages
//
//   - github.com/typewire/go-typewire/ir - type graph representation
//   - github.com/typewire/go-typewire/build - event-driven graph builder
//   - github.com/typewire/go-typewire/gen - code generation from the graph
package parse
