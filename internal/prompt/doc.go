// Package prompt asks the operator for confirmation before destructive commands.
package prompt
