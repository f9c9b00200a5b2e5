// Package textutil provides text processing utilities for title matching and
// filename sanitization.
//
// The primary use cases are:
//   - Scoring how closely a filename resembles a catalog title (Similarity)
//   - Folding names to a comparable form before scoring (MatchKey)
//   - Replacing characters that are unsafe in placeholder filenames
//
// Similarity is the Ratcliff/Obershelp ratio computed over runes, so
// multi-byte titles score the same way ASCII titles do.
package textutil
