//go:build debug

package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThat(t *testing.T) {
	require.True(t, Enabled)
	require.NotPanics(t, func() { That(true, "never") })
	require.PanicsWithValue(t, "boom", func() { That(false, "boom") })
}
