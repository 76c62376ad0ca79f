// Package bundle assembles the consumable packages: the iOS XCFramework and its
// zip archive, and the Android AAR built by Gradle.
package bundle
