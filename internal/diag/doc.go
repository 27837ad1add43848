// Package diag defines the diagnostic model shared by bundle loading, the
// reflection bridge, symbol-table construction and the resolver.
//
// Producers emit through a Reporter so they stay decoupled from storage;
// BagReporter collects into a Bag which supports limits, sorting and
// deduplication. Diagnostics never replace error returns: an unresolvable
// name is a normal outcome, and a diagnostic is only emitted when the
// situation is worth surfacing (stale generic parameters, name collisions
// across referenced tables, malformed bundles).
//
// Rendering lives in the CLI; this package performs no IO.
package diag
