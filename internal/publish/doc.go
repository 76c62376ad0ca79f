// Package publish records a release in the Swift package manifest and pushes it:
// commit, annotated tag, and a draft hosted release carrying the compressed bundle.
package publish
