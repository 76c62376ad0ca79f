// Package manifest edits the declarative files the pipeline owns fields in:
// the Swift package manifest (release tag, checksum, local-source flag), the
// crate's Cargo.toml [package] version and the Android VERSION_NAME property.
//
// Every edit is an anchored substitution of one whole declaration. A missing
// or duplicated declaration is an error, everything else in the file is kept
// byte for byte, and re-applying an edit is a no-op.
package manifest
