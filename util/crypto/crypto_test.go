package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	t.Setenv("LIVELOG_BCRYPT_MIN_COST", "true")

	digest, err := HashDigest("foobar")
	require.NoError(t, err)
	assert.NotEqual(t, "foobar", digest)

	assert.True(t, VerifyDigest(digest, "foobar"))
	assert.False(t, VerifyDigest(digest, "wrong"))
}

func TestVerifyEmptyDigest(t *testing.T) {
	assert.False(t, VerifyDigest("", "anything"))
	assert.False(t, VerifyDigest("", ""))
}

func TestHashIsSalted(t *testing.T) {
	t.Setenv("LIVELOG_BCRYPT_MIN_COST", "true")

	a, err := HashDigest("foobar")
	require.NoError(t, err)
	b, err := HashDigest("foobar")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
