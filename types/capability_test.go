package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilityIndex(t *testing.T) {
	assert.Equal(t, 0, CapTagObjects.Index())
	assert.Equal(t, 20, CapSuspend.Index())
	assert.Equal(t, len(AllCapabilities())-1, CapSupportVirtualThreads.Index())
	assert.Equal(t, -1, Capability("can_fly").Index())
}

func TestAllCapabilitiesIsACopy(t *testing.T) {
	all := AllCapabilities()
	all[0] = "mutated"
	assert.Equal(t, CapTagObjects, AllCapabilities()[0])
}

func TestCapabilitiesValidate(t *testing.T) {
	require.NoError(t, Capabilities{}.Validate())
	require.NoError(t, Capabilities{CapSuspend, CapPopFrame}.Validate())

	err := Capabilities{CapSuspend, "can_fly"}.Validate()
	require.ErrorContains(t, err, `not a capability: "can_fly"`)

	err = Capabilities{CapSuspend, CapSuspend}.Validate()
	require.ErrorContains(t, err, `duplicate: "can_suspend"`)
}

func TestCapabilitiesSerializeParse(t *testing.T) {
	caps := Capabilities{CapTagObjects, CapGetLineNumbers}
	s := caps.Serialize()
	assert.Equal(t, "can_tag_objects,can_get_line_numbers", s)
	assert.Equal(t, caps, ParseCapabilities(s))
	assert.Equal(t, caps, ParseCapabilities(" can_tag_objects , ,can_get_line_numbers,"))
	assert.Empty(t, ParseCapabilities(""))
}
