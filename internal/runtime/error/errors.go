package error

import (
	"fmt"
	"strings"

	"github.com/nativert/rtaccount/types"
)

// RuntimeError represents a generic runtime error
type RuntimeError struct {
	Msg string
	Err error
}

func (e *RuntimeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// CapabilityError is returned when a capability request cannot be honoured.
type CapabilityError struct {
	Msg     string
	Missing types.Capabilities
	Err     error
}

func (e *CapabilityError) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if len(e.Missing) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Missing.Serialize())
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *CapabilityError) Unwrap() error { return e.Err }

// MemoryError reports a failed virtual memory operation.
type MemoryError struct {
	Op   string // reserve, commit, uncommit or free
	Size int64
	Err  error
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("%s %d bytes: %v", e.Op, e.Size, e.Err)
}

func (e *MemoryError) Unwrap() error { return e.Err }
