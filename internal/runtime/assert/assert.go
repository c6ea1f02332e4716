//go:build !debug

// Package assert holds the debug-build invariant checks used by code that runs
// where allocation and blocking are forbidden. Without the debug build tag every
// check compiles to nothing and a violated precondition goes unnoticed.
package assert

// Enabled reports whether assertions are compiled in.
const Enabled = false

// That is a no-op in release builds.
func That(cond bool, msg string) {}
