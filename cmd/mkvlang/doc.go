// Package main hosts the mkvlang CLI entrypoint and command graph.
//
// The Cobra-based command tree maps terminal invocations onto internal/retag
// (set, batch), the mkvmerge identifier (identify), dependency and path
// checks (check), the edit ledger (history), and configuration scaffolding.
// Configuration resolution and logger setup live in commandContext so each
// subcommand only wires its own flags.
package main
