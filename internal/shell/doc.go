// Package shell invokes the external tools the pipeline drives (cargo, lipo,
// xcodebuild, gradle, git, gh) and checks they are installed.
//
// Tool output is streamed to the terminal as is; failures are returned as
// errors naming the command line and its exit status.
package shell
