package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIterations = 1000 // keep the tests fast

func mustHash(t *testing.T, username, password string) DerivedKey {
	t.Helper()
	derived, err := HashPassword(username, password, testIterations)
	require.NoError(t, err)
	return derived
}

func TestHashAndVerify(t *testing.T) {
	derived := mustHash(t, "alice", "correct horse battery")

	assert.True(t, VerifyPassword("alice", "correct horse battery", derived))
	assert.False(t, VerifyPassword("alice", "wrong password", derived))
	// The username is part of the salt input, so it must match too.
	assert.False(t, VerifyPassword("alicia", "correct horse battery", derived))
}

func TestHashProducesFreshSalt(t *testing.T) {
	a := mustHash(t, "alice", "same password")
	b := mustHash(t, "alice", "same password")

	assert.NotEqual(t, a.SaltBase64, b.SaltBase64)
	assert.NotEqual(t, a.KeyBase64, b.KeyBase64)
}

func TestDerivedKeyShape(t *testing.T) {
	derived := mustHash(t, "alice", "some password")

	salt, err := base64.StdEncoding.DecodeString(derived.SaltBase64)
	require.NoError(t, err)
	assert.Len(t, salt, 12)

	key, err := base64.StdEncoding.DecodeString(derived.KeyBase64)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	assert.Equal(t, int32(testIterations), derived.Iterations)
}

func TestVerifyUsesStoredIterations(t *testing.T) {
	derived := mustHash(t, "alice", "some password")

	// Tampering with the stored iteration count must break verification.
	derived.Iterations = testIterations * 2
	assert.False(t, VerifyPassword("alice", "some password", derived))
}

func TestVerifyRejectsCorruptEncoding(t *testing.T) {
	derived := mustHash(t, "alice", "some password")
	derived.SaltBase64 = "not base64!"
	assert.False(t, VerifyPassword("alice", "some password", derived))
}
