// Package lock keeps two pipelines from running in the same checkout.
//
// A marker file holds the owner's PID; a marker whose owner is no longer
// running this executable is considered stale and replaced.
package lock
