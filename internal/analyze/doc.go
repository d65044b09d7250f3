// Package analyze reads butcher declarations from Go source.
//
// Declarations are struct types marked with a //butcher:derive directive.
// A //butcher:union directive additionally marks a union template, a struct
// whose fields are the variants. Field strategies come from the butcher
// struct tag.
//
// Key types:
//   - Reader: parses a file into a File of Declarations
//   - Declaration: name, ordered parameters and a record or union body
//   - Annotation: the parsed butcher tag of a field
//   - Loader: resolves flatten targets with golang.org/x/tools/go/packages
package analyze
