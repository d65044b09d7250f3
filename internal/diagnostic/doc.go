// Package diagnostic provides the typed generation errors and the structured
// diagnostics collected while reading and resolving declarations.
//
// Key capabilities:
//   - Field-attributed errors: AnnotationSyntaxError, UnknownStrategyError,
//     UnsupportedTypeShapeError
//   - Aggregation of every error found in one run
//   - "did you mean" suggestions for misspelled strategy names
package diagnostic
