package password

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct-horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse", hash)

	require.True(t, Verify("correct-horse", hash))
	require.False(t, Verify("wrong-horse", hash))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("correct-horse")
	require.NoError(t, err)
	second, err := Hash("correct-horse")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, Verify("correct-horse", first))
	require.True(t, Verify("correct-horse", second))
}

func TestVerifyRejectsGarbageHash(t *testing.T) {
	require.False(t, Verify("anything", "not-a-bcrypt-hash"))
	require.False(t, Verify("anything", ""))
}
