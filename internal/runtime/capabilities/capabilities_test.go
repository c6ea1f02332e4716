package capabilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rterrors "github.com/nativert/rtaccount/internal/runtime/error"
	"github.com/nativert/rtaccount/types"
)

func TestSize(t *testing.T) {
	assert.EqualValues(t, 16, Size)
	var c Capabilities
	assert.Equal(t, Size, c.Block().Size())
	assert.GreaterOrEqual(t, int(Size)*8, len(types.AllCapabilities()))
}

func TestSetHasUnset(t *testing.T) {
	var c Capabilities
	require.False(t, c.HasAny())

	f, ok := FlagOf(types.CapGetLineNumbers)
	require.True(t, ok)
	c.Set(f)
	assert.True(t, c.Has(f))
	assert.True(t, c.HasAny())
	assert.Equal(t, types.Capabilities{types.CapGetLineNumbers}, c.Names())

	c.Unset(f)
	assert.False(t, c.Has(f))
	assert.False(t, c.HasAny())

	_, ok = FlagOf("can_fly")
	assert.False(t, ok)
}

func TestClearAndCopyCapabilities(t *testing.T) {
	requested, err := FromNames(types.Capabilities{types.CapSuspend, types.CapTagObjects})
	require.NoError(t, err)

	var granted Capabilities
	CopyCapabilities(&requested, &granted)
	assert.Equal(t, requested, granted)
	assert.Equal(t, types.Capabilities{types.CapTagObjects, types.CapSuspend}, granted.Names())

	granted.Clear()
	assert.False(t, granted.HasAny())
	assert.True(t, requested.HasAny())
}

func TestFromNamesInvalid(t *testing.T) {
	_, err := FromNames(types.Capabilities{types.CapSuspend, types.CapSuspend})
	var capErr *rterrors.CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestPotentialHasEveryCapability(t *testing.T) {
	p := Potential()
	assert.Equal(t, types.Capabilities(types.AllCapabilities()), p.Names())
}

func TestAdd(t *testing.T) {
	potential, err := FromNames(types.Capabilities{types.CapSuspend, types.CapPopFrame, types.CapGetBytecodes})
	require.NoError(t, err)

	var current Capabilities
	desired, err := FromNames(types.Capabilities{types.CapSuspend})
	require.NoError(t, err)
	require.NoError(t, Add(&current, &potential, &desired))
	assert.Equal(t, types.Capabilities{types.CapSuspend}, current.Names())

	desired, err = FromNames(types.Capabilities{types.CapPopFrame})
	require.NoError(t, err)
	require.NoError(t, Add(&current, &potential, &desired))
	assert.Equal(t, types.Capabilities{types.CapPopFrame, types.CapSuspend}, current.Names())
}

func TestAddUnavailableLeavesCurrentUntouched(t *testing.T) {
	potential, err := FromNames(types.Capabilities{types.CapSuspend})
	require.NoError(t, err)
	current := potential
	desired, err := FromNames(types.Capabilities{types.CapSuspend, types.CapRedefineClasses})
	require.NoError(t, err)

	err = Add(&current, &potential, &desired)
	var capErr *rterrors.CapabilityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, types.Capabilities{types.CapRedefineClasses}, capErr.Missing)
	assert.Equal(t, potential, current)
}

func TestRelinquish(t *testing.T) {
	current, err := FromNames(types.Capabilities{types.CapSuspend, types.CapPopFrame})
	require.NoError(t, err)
	unwanted, err := FromNames(types.Capabilities{types.CapPopFrame, types.CapTagObjects})
	require.NoError(t, err)

	Relinquish(&current, &unwanted)
	assert.Equal(t, types.Capabilities{types.CapSuspend}, current.Names())
}
