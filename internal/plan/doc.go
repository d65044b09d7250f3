// Package plan resolves declarations read by analyze into a Plan consumed by
// code generation.
//
// Resolution pipeline:
//  1. Build the instantiated signature of each declaration
//  2. Rewrite Self in every field type against that signature
//  3. Pick the strategy descriptor of every field and derive its view type
//  4. Merge bound clauses into the emitted type parameter list
package plan
