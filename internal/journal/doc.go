// Package journal persists a history of isomagic runs and the file actions
// each run performed in a SQLite database.
//
// The journal is a record only. Nothing replays or reverts it, and callers
// treat write failures as warnings so a broken database never blocks a pass.
// The schema is embedded and versioned; a database written by a different
// schema version is rejected with ErrSchemaMismatch rather than migrated.
package journal
