// Package history keeps a SQLite ledger of default-language edits.
//
// Every file a run touches gets one row: the requested language, the
// outcome, the tracks involved, and the container's size and modification
// time after the edit. Batch runs with skip_processed consult the ledger to
// leave already-edited, unchanged files alone; `mkvlang history` lists it.
//
// The store follows the usual SQLite conventions for a CLI shared between
// concurrent runs: WAL journaling, a busy timeout, and bounded retries on
// SQLITE_BUSY.
package history
