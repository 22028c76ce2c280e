package typed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValuesEqualAcrossNumericKinds(t *testing.T) {
	require.True(t, valuesEqual(3, 3.0))
	require.True(t, valuesEqual(uint8(3), int64(3)))
	require.True(t, valuesEqual(float32(0.5), 0.5))
	require.False(t, valuesEqual(3, 3.5))
	require.False(t, valuesEqual(3, "3"))
	require.True(t, valuesEqual([]int{1, 2}, []any{1.0, 2}))
	require.True(t, valuesEqual(nil, nil))
	require.False(t, valuesEqual(nil, 0))
}

func TestRangeBoundsConvertToFloat(t *testing.T) {
	n := 4
	require.Equal(t, 4.0, *asFloat(&n))
	x := 2.5
	require.Equal(t, 2.5, *asFloat(&x))
	require.Nil(t, asFloat[int](nil))
}
