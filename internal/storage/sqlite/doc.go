// Package sqlite persists produced events in a SQLite database.
//
// The schema is managed by golang-migrate from the migrations embedded in
// this package. Every processing run gets a UUID and owns the events,
// superclusters and electrons written under it. Floating-point values that
// were never computed (NaN) and branches disabled for the run are stored as
// NULL.
package sqlite
