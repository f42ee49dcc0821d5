// Package storage provides persistence backends for evaluation result trees.
//
// Two implementations of evaluation.Store are available:
//
//   - SQLiteStore: durable storage in a local SQLite database (the default)
//   - MemoryStore: in-memory storage for testing
//
// The SQLite backend keeps one table per tree level with cascading deletes,
// so removing an evaluation removes its whole result tree.
package storage
