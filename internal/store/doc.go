// Package store provides the SQLite cache behind document fetching and the
// ledger of generation runs.
//
// # Tables
//
//   - documents: the last fetched body per version, with a content-addressed
//     id (UUID v5 over the body)
//   - runs: one row per successful generation, ordered by seq
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Run listings order by seq, never by timestamp.
package store
