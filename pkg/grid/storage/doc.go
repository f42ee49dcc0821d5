// Package storage provides storage backends for grid rulesets.
//
// Two implementations are available:
//
//   - SQLiteStore: durable storage using SQLite in WAL mode. This is the
//     production backend; one file holds every imported grid version.
//   - MemoryStore: an in-memory map. Intended for tests and CLI dry runs.
//
// Both implement grid.Store. Grid imports replace the whole tree for a
// name+version pair inside one transaction, so readers never observe a
// half-imported grid.
package storage
