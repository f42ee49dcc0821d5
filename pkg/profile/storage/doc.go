// Package storage provides storage backends for applicant profiles.
//
// Profiles are stored as JSON documents keyed by application ID: the engine
// only ever loads a whole snapshot, never queries individual attributes, so a
// document column avoids a fifty-column table that must change with every new
// intake question.
//
// SQLiteStore is the durable backend; MemoryStore backs tests.
package storage
