// Package testsupport holds fixtures shared by package tests: temporary
// configurations, history stores and in-memory fetchers.
package testsupport
