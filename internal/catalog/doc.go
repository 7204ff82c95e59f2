// Package catalog persists pipeline state in SQLite: one row per tracked
// media item and one row per extracted concept occurrence.
//
// The Store is the single source of truth the orchestrator reads and writes.
// Item rows carry the content fingerprint, the lifecycle status, per-stage
// artifact locators, and a last_updated stamp written atomically with every
// mutation. Occurrence rows are unique on (label, source_path, start);
// re-recording an occurrence only refreshes its clip path.
//
// Every operation is durable and safe to repeat, which is what lets the
// orchestrator resume after a crash with no checkpoint beyond the status
// column. Schema changes bump schemaVersion in schema.go; existing databases
// must be cleared to adopt a new schema.
package catalog
