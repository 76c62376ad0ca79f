// Package android implements build-android: a clean Gradle build of the AAR.
package android
