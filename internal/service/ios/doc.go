// Package ios implements build-ios: compile the native core for every iOS
// triple, generate Swift bindings, assemble the XCFramework and, on release,
// publish it.
package ios
