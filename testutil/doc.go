// Package testutil provides shared test helpers and mock implementations.
// Nothing in this package is intended for production use.
package testutil
