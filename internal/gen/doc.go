// Package gen provides deterministic Go code generation for butcher views.
//
// Generation approach uses text/template + go/format for readable,
// allocation-light Go code.
//
// Codegen patterns:
//   - View struct mirroring the source, one strategy output type per field
//   - Codec with Decompose (owned and borrowed paths) and Recompose
//   - Unions lowered to a sealed interface, a kind enum and variant structs
//   - Strategy calls resolved at generation time, e.g. cow.Copy[string]{}.FromOwned(v.Name)
package gen
