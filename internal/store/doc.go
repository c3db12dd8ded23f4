// Package store persists CRM records in SQLite and exposes the query and
// update surface the linker and importer need.
//
// The Store manages the database connection, schema initialization, and
// busy-retry handling. All linking mutations run through a Tx so a whole
// reconciliation pass commits or rolls back as one unit; the UPDATE
// statements guard on IS NULL so references that are already set are never
// overwritten, even by a concurrent writer.
//
// Treat this package as the single source of truth for persistence
// semantics; schema changes go into schema.sql with a schemaVersion bump.
package store
