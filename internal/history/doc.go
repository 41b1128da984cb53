// Package history persists resolution runs and the events they produced in
// a SQLite database.
//
// The schema is created from the embedded migrations on Open. Runs are keyed
// by the run identifier also attached to log records, so a stored run can be
// matched with its log lines.
package history
