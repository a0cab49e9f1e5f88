// Package sqlite implements the chat store on a local SQLite database.
//
// The database lives in a single file under the configured data directory
// and is opened in WAL mode. Schema changes ship as embedded .up.sql
// migration files applied at startup.
package sqlite
