package capabilities

import (
	rterrors "github.com/nativert/rtaccount/internal/runtime/error"
	"github.com/nativert/rtaccount/types"
)

// FromNames builds a block with the named capabilities set.
func FromNames(names types.Capabilities) (Capabilities, error) {
	var c Capabilities
	if err := names.Validate(); err != nil {
		return c, &rterrors.CapabilityError{Msg: "invalid capability list", Err: err}
	}
	for _, name := range names {
		f, _ := FlagOf(name)
		c.Set(f)
	}
	return c, nil
}

// Potential returns a block with every known capability set.
func Potential() Capabilities {
	var c Capabilities
	for i := range types.AllCapabilities() {
		c.Set(Flag(i))
	}
	return c
}

// Add merges desired into current. It fails without touching current when
// desired holds a capability that potential does not offer.
func Add(current, potential, desired *Capabilities) error {
	var missing Capabilities
	for i := range missing.bits {
		missing.bits[i] = desired.bits[i] &^ potential.bits[i]
	}
	if missing.HasAny() {
		return &rterrors.CapabilityError{Msg: "capabilities not available", Missing: missing.Names()}
	}

	var merged Capabilities
	CopyCapabilities(current, &merged)
	for i := range merged.bits {
		merged.bits[i] |= desired.bits[i]
	}
	CopyCapabilities(&merged, current)
	return nil
}

// Relinquish unsets every capability of unwanted in current.
func Relinquish(current, unwanted *Capabilities) {
	for i := range current.bits {
		current.bits[i] &^= unwanted.bits[i]
	}
}
