package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentedArray_Append(t *testing.T) {
	sa := NewSegmentedArray[int]()

	const n = 3*segmentSize + 17
	for i := 0; i < n; i++ {
		idx, ok := sa.Append(i * 2)
		require.True(t, ok)
		require.Equal(t, uint32(i), idx)
	}
	assert.Equal(t, n, sa.Len())

	for i := 0; i < n; i++ {
		p := sa.At(uint32(i))
		require.NotNil(t, p)
		require.Equal(t, i*2, *p)
	}

	assert.Nil(t, sa.At(n))
}

func TestSegmentedArray_StablePointers(t *testing.T) {
	sa := NewSegmentedArray[int]()
	idx, _ := sa.Append(1)
	p := sa.At(idx)

	for i := 0; i < 2*segmentSize; i++ {
		sa.Append(i)
	}

	*p = 42
	assert.Equal(t, 42, *sa.At(idx))
	assert.Same(t, p, sa.At(idx))
}

func TestSegmentedArray_Reset(t *testing.T) {
	sa := NewSegmentedArray[string]()
	sa.Append("a")
	sa.Append("b")

	sa.Reset()
	assert.Equal(t, 0, sa.Len())
	assert.Nil(t, sa.At(0))

	idx, ok := sa.Append("c")
	require.True(t, ok)
	assert.Equal(t, uint32(0), idx)
}
