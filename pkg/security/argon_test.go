package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	a := New()

	hash, err := a.GenerateFromPassword("supersecret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := a.VerifyPasswd("supersecret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = a.VerifyPasswd("wrongsecret", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGenerateUsesFreshSalt(t *testing.T) {
	a := New()

	first, err := a.GenerateFromPassword("supersecret")
	require.NoError(t, err)

	second, err := a.GenerateFromPassword("supersecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyMalformedHash(t *testing.T) {
	a := New()

	_, err := a.VerifyPasswd("supersecret", "not-a-phc-string")
	assert.Error(t, err)
}

func TestVerifyHonorsEmbeddedParams(t *testing.T) {
	weak := &ArgonHash{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}

	hash, err := weak.GenerateFromPassword("supersecret")
	require.NoError(t, err)

	// Verification reads the params from the hash, not the receiver
	ok, err := New().VerifyPasswd("supersecret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := GenerateToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
