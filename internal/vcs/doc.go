// Package vcs wraps the git and gh command line tools used to read release
// tags, commit and tag a release, push it and open a draft hosted release.
package vcs
