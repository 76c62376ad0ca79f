// Package cleanup removes build outputs so that no stale artifact leaks into a run.
package cleanup
