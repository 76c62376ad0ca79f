// Package common holds the setup shared by every command service: loading the
// configuration, holding the run marker, checking tools and reporting artifacts.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
