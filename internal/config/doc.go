// Package config defines the pipeline settings shared by every command and
// provides helpers to load, validate and save them in YAML format.
//
// A Config is read once per invocation and passed explicitly to the stages
// that need it; nothing keeps it in package-level state.
package config
