// Package native drives the native core's toolchain: cargo builds per target
// triple, lipo merges simulator slices into a fat library, and uniffi-bindgen
// generates Swift bindings that are moved into the Swift package.
package native
