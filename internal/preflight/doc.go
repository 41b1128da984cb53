// Package preflight provides readiness checks for the paths, database and
// devices plparse depends on.
//
// The CLI "plparse doctor" command runs RunAll and prints each result; the
// daemon runs the same checks at startup and logs the failures. Each check is
// gated by its config toggle: history checks are skipped when history is
// disabled and the netlink check only runs when disc watching is on.
package preflight
