// Package clean implements the clean and clean-all commands.
package clean
