// Package main hosts the isomagic CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into the
// rename, prune, and placeholder passes, plus the diagnostics around them:
// catalog match inspection, journal history, and configuration scaffolding.
// It centralizes configuration resolution, run locking, journal access, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
// The interactive menu gathers answers from prompts and then calls exactly
// the same code paths as the flag-driven commands.
package main
