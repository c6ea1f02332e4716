//go:build debug

package assert

// Enabled reports whether assertions are compiled in.
const Enabled = true

// That panics with msg when cond is false. msg should be a constant so the
// check itself never allocates.
func That(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
