package commitment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommitOpenRoundTrip(t *testing.T) {
	blinding, err := GenerateBlinding(nil)
	require.NoError(t, err)

	digest := Commit(4242, blinding)
	require.True(t, Open(digest, 4242, blinding))
}

func TestOpenFailsOnWrongValueOrBlinding(t *testing.T) {
	blinding, err := GenerateBlinding(nil)
	require.NoError(t, err)
	otherBlinding, err := GenerateBlinding(nil)
	require.NoError(t, err)

	digest := Commit(100, blinding)

	require.False(t, Open(digest, 101, blinding))
	require.False(t, Open(digest, 100, otherBlinding))
}

func TestCommitIsDeterministic(t *testing.T) {
	var blinding [32]byte
	copy(blinding[:], []byte("a fixed 32 byte blinding factor!"))

	a := Commit(7, blinding)
	b := Commit(7, blinding)
	require.Equal(t, a, b)
}
