// Package preflight provides readiness checks for the catalog and the
// directories isomagic reads and writes.
//
// These checks run in two contexts:
//   - Mutating commands call DirectoryError before a pass so a missing or
//     read-only target is reported before any file is touched.
//   - "isomagic config validate" renders RunAll results as status lines.
package preflight
