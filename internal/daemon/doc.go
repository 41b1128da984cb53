// Package daemon coordinates the long-running plparse process.
//
// It takes a flock-based lock in the state directory so only one instance
// runs, serves the HTTP API, and optionally watches the optical drive through
// udev netlink events. Every inserted disc is resolved like any other URI and
// the run is recorded in the history store with source "disc". A maintenance
// loop prunes old history rows and log files according to the configured
// retention.
//
// Keep orchestration here: resolution lives in plparser, storage in history
// and the transport in api. The daemon owns startup, shutdown and the glue.
package daemon
