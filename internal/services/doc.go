// Package services defines shared utilities consumed by the catalog, renamer,
// and placeholder workflows.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and operation names for
//     logging and journaling.
//   - Structured error markers plus the Wrap helper, and the typed
//     NotFoundError and PermissionError values that abort a pass.
//
// Use these helpers when wiring new operations so operational behaviour
// (error classification, observability) stays uniform across commands.
package services
