package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen = 12
	keyLen  = 32
)

// DerivedKey is what gets persisted for a user: everything needed to verify
// a password later, including the iteration count it was derived with, so
// the configured count can grow without invalidating existing rows.
type DerivedKey struct {
	KeyBase64  string
	SaltBase64 string
	Iterations int32
}

// HashPassword derives a key from the password with PBKDF2-HMAC-SHA256.
// The username is mixed into the salt, which ties a stolen hash row to one
// specific username: renaming an account invalidates its hash.
func HashPassword(username, password string, iterations int32) (DerivedKey, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return DerivedKey{}, fmt.Errorf("generating password salt: %w", err)
	}

	key := deriveKey(username, password, salt, iterations)
	return DerivedKey{
		KeyBase64:  base64.StdEncoding.EncodeToString(key),
		SaltBase64: base64.StdEncoding.EncodeToString(salt),
		Iterations: iterations,
	}, nil
}

// VerifyPassword recomputes the key with the stored salt and iteration count
// and compares in constant time. Any decoding failure counts as a mismatch.
func VerifyPassword(username, password string, stored DerivedKey) bool {
	salt, err := base64.StdEncoding.DecodeString(stored.SaltBase64)
	if err != nil || len(salt) != saltLen {
		return false
	}
	storedKey, err := base64.StdEncoding.DecodeString(stored.KeyBase64)
	if err != nil || len(storedKey) != keyLen {
		return false
	}
	if stored.Iterations <= 0 {
		return false
	}

	key := deriveKey(username, password, salt, stored.Iterations)
	return subtle.ConstantTimeCompare(key, storedKey) == 1
}

func deriveKey(username, password string, salt []byte, iterations int32) []byte {
	saltInput := make([]byte, 0, len(username)+len(salt))
	saltInput = append(saltInput, username...)
	saltInput = append(saltInput, salt...)
	return pbkdf2.Key([]byte(password), saltInput, int(iterations), keyLen, sha256.New)
}
