package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHashIsDeterministic(t *testing.T) {
	a := NewHash([]byte("veyra"))
	b := NewHash([]byte("veyra"))
	c := NewHash([]byte("veyrb"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.Bytes(), HashSize)
}

func TestStringRoundTrip(t *testing.T) {
	h := NewHash([]byte("round trip"))

	parsed, err := FromString(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, parsed)

	_, err = FromString("zz")
	assert.Error(t, err)
}

func TestFromBytesLength(t *testing.T) {
	_, err := FromBytes(make([]byte, HashSize-1))
	assert.Error(t, err)

	h, err := FromBytes(make([]byte, HashSize))
	require.NoError(t, err)
	assert.Equal(t, Hash{}, h)
}
